package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// mapCodec implements spec §4.C's Map production: prefix, U64 pair count,
// then key/value written back to back, each through its own codec. Go map
// iteration order is randomized; NOP's Map production carries no ordering
// invariant, so this is not a deviation, merely unspecified on both sides.
type mapCodec struct {
	key      anyCodec
	keyType  reflect.Type
	val      anyCodec
	valType  reflect.Type
}

func (c mapCodec) prefix(reflect.Value) wire.Byte { return wire.Map }

func (c mapCodec) size(v reflect.Value) int {
	total := varint.SizeUint(uint64(v.Len()))
	iter := v.MapRange()
	for iter.Next() {
		total += 1 + c.key.size(iter.Key())
		total += 1 + c.val.size(iter.Value())
	}
	return total
}

func (c mapCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	if err := varint.EncodeUint(w, uint64(v.Len())); err != nil {
		return err
	}
	iter := v.MapRange()
	for iter.Next() {
		if err := writeReflect(c.key, iter.Key(), w, depth+1); err != nil {
			return err
		}
		if err := writeReflect(c.val, iter.Value(), w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c mapCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	out := reflect.MakeMapWithSize(v.Type(), int(n))
	for i := 0; i < int(n); i++ {
		key := reflect.New(c.keyType).Elem()
		if err := readReflect(c.key, key, r, depth+1); err != nil {
			return err
		}
		val := reflect.New(c.valType).Elem()
		if err := readReflect(c.val, val, r, depth+1); err != nil {
			return err
		}
		out.SetMapIndex(key, val)
	}
	v.Set(out)
	return nil
}

func (c mapCodec) match(prefix wire.Byte) bool { return prefix == wire.Map }

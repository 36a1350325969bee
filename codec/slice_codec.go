package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// sliceCodec implements spec §4.C's Array production for any non-byte Go
// slice type: prefix, U64 element count, then each element written through
// its own codec in order. Unlike arrayCodec there is no fixed length, so the
// count on the wire is the slice's len at write time.
type sliceCodec struct {
	elem     anyCodec
	elemType reflect.Type
}

func (c sliceCodec) prefix(reflect.Value) wire.Byte { return wire.Array }

func (c sliceCodec) size(v reflect.Value) int {
	n := v.Len()
	total := varint.SizeUint(uint64(n))
	for i := 0; i < n; i++ {
		ev := v.Index(i)
		total += 1 + c.elem.size(ev) // 1 byte for the element's own prefix
	}
	return total
}

func (c sliceCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	n := v.Len()
	if err := varint.EncodeUint(w, uint64(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := writeReflect(c.elem, v.Index(i), w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c sliceCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(v.Type(), int(n), int(n))
	for i := 0; i < int(n); i++ {
		if err := readReflect(c.elem, out.Index(i), r, depth+1); err != nil {
			return err
		}
	}
	v.Set(out)
	return nil
}

func (c sliceCodec) match(prefix wire.Byte) bool { return prefix == wire.Array }

package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/variant"
	"github.com/vincentlao/libnop/wire"
)

// optionalCodec implements variant.Optional[T] as a thin façade over the
// Variant wire production (spec §4.G): prefix, a signed index (-1 absent, 0
// present), then, when present, T's own encoded value.
type optionalCodec struct{}

func (optionalCodec) prefix(reflect.Value) wire.Byte { return wire.Variant }

func (optionalCodec) size(v reflect.Value) int {
	or := v.Interface().(variant.OptionalReader)
	if val, ok := or.OptionalGet(); ok {
		c, err := resolve(or.OptionalElemType())
		if err != nil {
			return varint.SizeInt(-1)
		}
		return varint.SizeInt(0) + 1 + c.size(reflect.ValueOf(val))
	}
	return varint.SizeInt(-1)
}

func (optionalCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	or := v.Interface().(variant.OptionalReader)
	val, ok := or.OptionalGet()
	if !ok {
		return varint.EncodeInt(w, -1)
	}
	if err := varint.EncodeInt(w, 0); err != nil {
		return err
	}
	c, err := resolve(or.OptionalElemType())
	if err != nil {
		return err
	}
	return writeReflect(c, reflect.ValueOf(val), w, depth+1)
}

func (optionalCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	ao := v.Addr().Interface().(variant.AnyOptional)
	idx, _, err := varint.DecodeInt(r)
	if err != nil {
		return err
	}
	if idx == -1 {
		ao.OptionalClear()
		return nil
	}
	if idx != 0 {
		return errors.New(errors.UnexpectedEncodingType, "optional: unexpected alternative index %d", idx)
	}
	c, err := resolve(ao.OptionalElemType())
	if err != nil {
		return err
	}
	out := reflect.New(ao.OptionalElemType()).Elem()
	if err := readReflect(c, out, r, depth+1); err != nil {
		return err
	}
	ao.OptionalSet(out.Interface())
	return nil
}

func (optionalCodec) match(prefix wire.Byte) bool { return prefix == wire.Variant }

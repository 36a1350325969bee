package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/variant"
	"github.com/vincentlao/libnop/wire"
)

// resultCodec implements variant.Result[E, T] as a thin façade over the
// Variant wire production (spec §4.G): prefix, a signed index (-1 empty, 0
// error, 1 ok), then the active alternative's own encoded value.
type resultCodec struct{}

func (resultCodec) prefix(reflect.Value) wire.Byte { return wire.Variant }

func resultIndex(state variant.ResultState) int64 {
	switch state {
	case variant.ResultErr:
		return 0
	case variant.ResultOk:
		return 1
	default:
		return -1
	}
}

func (resultCodec) size(v reflect.Value) int {
	rr := v.Interface().(variant.ResultReader)
	state, val := rr.ResultState()
	idx := resultIndex(state)
	if idx == -1 {
		return varint.SizeInt(-1)
	}
	errType, valType := rr.ResultTypes()
	elemType := valType
	if idx == 0 {
		elemType = errType
	}
	c, err := resolve(elemType)
	if err != nil {
		return varint.SizeInt(idx)
	}
	return varint.SizeInt(idx) + 1 + c.size(reflect.ValueOf(val))
}

func (resultCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	rr := v.Interface().(variant.ResultReader)
	state, val := rr.ResultState()
	idx := resultIndex(state)
	if err := varint.EncodeInt(w, idx); err != nil {
		return err
	}
	if idx == -1 {
		return nil
	}
	errType, valType := rr.ResultTypes()
	elemType := valType
	if idx == 0 {
		elemType = errType
	}
	c, err := resolve(elemType)
	if err != nil {
		return err
	}
	return writeReflect(c, reflect.ValueOf(val), w, depth+1)
}

func (resultCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	ar := v.Addr().Interface().(variant.AnyResult)
	idx, _, err := varint.DecodeInt(r)
	if err != nil {
		return err
	}
	errType, valType := ar.ResultTypes()
	switch idx {
	case -1:
		ar.ResultSetEmpty()
		return nil
	case 0:
		c, err := resolve(errType)
		if err != nil {
			return err
		}
		out := reflect.New(errType).Elem()
		if err := readReflect(c, out, r, depth+1); err != nil {
			return err
		}
		ar.ResultSetErr(out.Interface())
		return nil
	case 1:
		c, err := resolve(valType)
		if err != nil {
			return err
		}
		out := reflect.New(valType).Elem()
		if err := readReflect(c, out, r, depth+1); err != nil {
			return err
		}
		ar.ResultSetOk(out.Interface())
		return nil
	default:
		return errors.New(errors.UnexpectedEncodingType, "result: unexpected alternative index %d", idx)
	}
}

func (resultCodec) match(prefix wire.Byte) bool { return prefix == wire.Variant }

package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// arrayCodec implements a Go fixed-size [N]T as a LogicalBuffer whose count
// field is the compile-time constant N (spec §4.F): integral element types
// (byte-like) use the Binary production, everything else uses Array. The
// wire count is always N; a short read is a hard error rather than a
// partially-filled array.
type arrayCodec struct {
	elem     anyCodec
	elemType reflect.Type
	length   int
	integral bool
}

func (c arrayCodec) prefix(reflect.Value) wire.Byte {
	if c.integral {
		return wire.Binary
	}
	return wire.Array
}

func (c arrayCodec) size(v reflect.Value) int {
	if c.integral {
		return varint.SizeUint(uint64(c.length)) + c.length
	}
	total := varint.SizeUint(uint64(c.length))
	for i := 0; i < c.length; i++ {
		total += 1 + c.elem.size(v.Index(i))
	}
	return total
}

func (c arrayCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	if err := varint.EncodeUint(w, uint64(c.length)); err != nil {
		return err
	}
	if c.integral {
		buf := make([]byte, c.length)
		for i := 0; i < c.length; i++ {
			buf[i] = byte(v.Index(i).Uint())
		}
		return w.WriteRaw(buf)
	}
	for i := 0; i < c.length; i++ {
		if err := writeReflect(c.elem, v.Index(i), w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c arrayCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	if int(n) != c.length {
		return errors.New(errors.InvalidContainerLength, "array of length %d cannot hold %d elements", c.length, n)
	}
	if c.integral {
		buf := make([]byte, c.length)
		if err := r.ReadRaw(buf); err != nil {
			return err
		}
		for i := 0; i < c.length; i++ {
			v.Index(i).SetUint(uint64(buf[i]))
		}
		return nil
	}
	for i := 0; i < c.length; i++ {
		if err := readReflect(c.elem, v.Index(i), r, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c arrayCodec) match(prefix wire.Byte) bool {
	if c.integral {
		return prefix == wire.Binary
	}
	return prefix == wire.Array
}

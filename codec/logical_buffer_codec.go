package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// logicalBufferCodec implements schema.LogicalBuffer[E] (spec §4.F), ported
// from original_source's split on whether the element type is integral:
// integral elements use the Binary production (byte count on the wire),
// everything else uses Array (element count on the wire). Buffer is the
// full backing storage and Size the live count; WritePayload only emits
// the first Size elements, never the unused tail.
type logicalBufferCodec struct {
	elem     anyCodec
	elemType reflect.Type
	integral bool
}

func (c logicalBufferCodec) prefix(reflect.Value) wire.Byte {
	if c.integral {
		return wire.Binary
	}
	return wire.Array
}

func (c logicalBufferCodec) bufferAndSize(v reflect.Value) (reflect.Value, int) {
	return v.FieldByName("Buffer"), int(v.FieldByName("Size").Int())
}

func (c logicalBufferCodec) size(v reflect.Value) int {
	_, n := c.bufferAndSize(v)
	if c.integral {
		return varint.SizeUint(uint64(n)) + n
	}
	buf, _ := c.bufferAndSize(v)
	total := varint.SizeUint(uint64(n))
	for i := 0; i < n; i++ {
		total += 1 + c.elem.size(buf.Index(i))
	}
	return total
}

func (c logicalBufferCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	buf, n := c.bufferAndSize(v)
	if n > buf.Len() {
		return errors.New(errors.InvalidContainerLength, "logical buffer size %d exceeds backing capacity %d", n, buf.Len())
	}
	if c.integral {
		raw := make([]byte, n)
		for i := 0; i < n; i++ {
			raw[i] = byte(buf.Index(i).Uint())
		}
		if err := varint.EncodeUint(w, uint64(n)); err != nil {
			return err
		}
		return w.WriteRaw(raw)
	}
	if err := varint.EncodeUint(w, uint64(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := writeReflect(c.elem, buf.Index(i), w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c logicalBufferCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	bufField := v.FieldByName("Buffer")
	sizeField := v.FieldByName("Size")
	if bufField.Len() == 0 {
		bufField.Set(reflect.MakeSlice(bufField.Type(), int(n), int(n)))
	} else if int(n) > bufField.Len() {
		return errors.New(errors.InvalidContainerLength, "logical buffer backing capacity %d too small for %d elements", bufField.Len(), n)
	}
	if c.integral {
		raw := make([]byte, n)
		if err := r.ReadRaw(raw); err != nil {
			return err
		}
		for i := 0; i < int(n); i++ {
			bufField.Index(i).SetUint(uint64(raw[i]))
		}
	} else {
		for i := 0; i < int(n); i++ {
			if err := readReflect(c.elem, bufField.Index(i), r, depth+1); err != nil {
				return err
			}
		}
	}
	sizeField.SetInt(int64(n))
	return nil
}

func (c logicalBufferCodec) match(prefix wire.Byte) bool {
	if c.integral {
		return prefix == wire.Binary
	}
	return prefix == wire.Array
}

package codec

import (
	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// uintCodec and intCodec are generic over every unsigned/signed Go integer
// width; targetWidth is the byte width of T, used by the permissive-read
// rule in spec §4.D (MatchWidth).

type uintCodec[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64] struct{ targetWidth int }

func (c uintCodec[T]) Prefix(v T) wire.Byte {
	b, _ := fixedUintPrefix(uint64(v))
	return b
}

func (c uintCodec[T]) Size(v T) int { return varint.SizeUint(uint64(v)) - 1 }

func (c uintCodec[T]) WritePayload(prefix wire.Byte, v T, w streambuf.Writer) error {
	return writeUintPayload(prefix, uint64(v), w)
}

func (c uintCodec[T]) ReadPayload(prefix wire.Byte, v *T, r streambuf.Reader) error {
	if !varint.MatchWidth(prefix, c.targetWidth) {
		return errors.New(errors.InvalidIntegerClass, "integer class for prefix 0x%02x too wide for %d-byte target", prefix, c.targetWidth)
	}
	uv, err := readUintPayload(prefix, r)
	if err != nil {
		return err
	}
	*v = T(uv)
	return nil
}

func (c uintCodec[T]) Match(prefix wire.Byte) bool {
	if _, ok := wire.IsFixInt(prefix); ok {
		return prefix <= wire.PosFixIntMax // unsigned: reject negative fixints
	}
	switch prefix {
	case wire.U8, wire.U16, wire.U32, wire.U64:
		return true
	default:
		return false
	}
}

type intCodec[T ~int | ~int8 | ~int16 | ~int32 | ~int64] struct{ targetWidth int }

func (c intCodec[T]) Prefix(v T) wire.Byte {
	b, _ := fixedIntPrefix(int64(v))
	return b
}

func (c intCodec[T]) Size(v T) int { return varint.SizeInt(int64(v)) - 1 }

func (c intCodec[T]) WritePayload(prefix wire.Byte, v T, w streambuf.Writer) error {
	return writeIntPayload(prefix, int64(v), w)
}

func (c intCodec[T]) ReadPayload(prefix wire.Byte, v *T, r streambuf.Reader) error {
	if !varint.MatchWidth(prefix, c.targetWidth) {
		return errors.New(errors.InvalidIntegerClass, "integer class for prefix 0x%02x too wide for %d-byte target", prefix, c.targetWidth)
	}
	iv, err := readIntPayload(prefix, r)
	if err != nil {
		return err
	}
	*v = T(iv)
	return nil
}

func (c intCodec[T]) Match(prefix wire.Byte) bool {
	if _, ok := wire.IsFixInt(prefix); ok {
		return true
	}
	switch prefix {
	case wire.I8, wire.I16, wire.I32, wire.I64:
		return true
	default:
		return false
	}
}

// fixedUintPrefix/fixedIntPrefix and the payload helpers below reuse
// varint's class-selection logic without re-deriving it, keeping a single
// source of truth for "which size class does this value need".

func fixedUintPrefix(v uint64) (wire.Byte, int) {
	switch {
	case v <= uint64(wire.PosFixIntMax):
		return wire.Byte(v), 0
	case v <= 0xff:
		return wire.U8, 1
	case v <= 0xffff:
		return wire.U16, 2
	case v <= 0xffffffff:
		return wire.U32, 4
	default:
		return wire.U64, 8
	}
}

func fixedIntPrefix(v int64) (wire.Byte, int) {
	if b, ok := wire.FixIntByte(v); ok {
		return b, 0
	}
	switch {
	case v >= -128 && v <= 127:
		return wire.I8, 1
	case v >= -32768 && v <= 32767:
		return wire.I16, 2
	case v >= -1<<31 && v <= 1<<31-1:
		return wire.I32, 4
	default:
		return wire.I64, 8
	}
}

func writeUintPayload(prefix wire.Byte, v uint64, w streambuf.Writer) error {
	width := wire.ClassWidth(prefix)
	if width == 0 {
		return nil // fixint: value is the prefix byte itself
	}
	var buf [8]byte
	for i := 0; i < width; i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
	return w.WriteRaw(buf[:width])
}

func writeIntPayload(prefix wire.Byte, v int64, w streambuf.Writer) error {
	return writeUintPayload(prefix, uint64(v), w)
}

func readUintPayload(prefix wire.Byte, r streambuf.Reader) (uint64, error) {
	if v, ok := wire.IsFixInt(prefix); ok {
		return uint64(v), nil
	}
	width := wire.ClassWidth(prefix)
	var buf [8]byte
	if err := r.ReadRaw(buf[:width]); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(buf[i]) << (8 * uint(i))
	}
	return v, nil
}

func readIntPayload(prefix wire.Byte, r streambuf.Reader) (int64, error) {
	if v, ok := wire.IsFixInt(prefix); ok {
		return v, nil
	}
	width := wire.ClassWidth(prefix)
	uv, err := readUintPayload(prefix, r)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*width)
	return int64(uv<<shift) >> shift, nil
}

func init() {
	Register[uint8](uintCodec[uint8]{targetWidth: 1})
	Register[uint16](uintCodec[uint16]{targetWidth: 2})
	Register[uint32](uintCodec[uint32]{targetWidth: 4})
	Register[uint64](uintCodec[uint64]{targetWidth: 8})
	Register[uint](uintCodec[uint]{targetWidth: 8})

	Register[int8](intCodec[int8]{targetWidth: 1})
	Register[int16](intCodec[int16]{targetWidth: 2})
	Register[int32](intCodec[int32]{targetWidth: 4})
	Register[int64](intCodec[int64]{targetWidth: 8})
	Register[int](intCodec[int]{targetWidth: 8})
}

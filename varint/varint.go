// Package varint implements the integer size-class codec (spec §4.D): the
// variable-width scheme that picks the smallest prefix byte able to hold a
// value on write, while accepting any size class narrow enough to fit the
// target type on read.
//
// The two-state idea (single byte for small values, prefix+fixed-width
// payload otherwise) is grounded on the teacher's binaryEncodeUint/
// binaryPeekUint family in vom/binary_util.go. Two things are deliberately
// not carried over from the teacher: the payload is little-endian, not
// big-endian (spec §6/§9 pin the wire byte order explicitly), and signed
// integers are NOT zigzag-packed into the unsigned encoding — spec §4.C
// grammar gives I8/I16/I32/I64 their own plain two's-complement LE payload
// productions, distinct from the unsigned ones.
package varint

import (
	"math"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/wire"
)

// SizeUint returns the number of bytes EncodeUint(v) would write, including
// the prefix byte.
func SizeUint(v uint64) int {
	switch {
	case v <= uint64(wire.PosFixIntMax):
		return 1
	case v <= math.MaxUint8:
		return 2
	case v <= math.MaxUint16:
		return 3
	case v <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// EncodeUint writes v using the smallest size class that holds it.
func EncodeUint(w streambuf.Writer, v uint64) error {
	if v <= uint64(wire.PosFixIntMax) {
		return w.WriteByte(byte(v))
	}
	var class wire.Byte
	var width int
	switch {
	case v <= math.MaxUint8:
		class, width = wire.U8, 1
	case v <= math.MaxUint16:
		class, width = wire.U16, 2
	case v <= math.MaxUint32:
		class, width = wire.U32, 4
	default:
		class, width = wire.U64, 8
	}
	if err := w.WriteByte(byte(class)); err != nil {
		return err
	}
	var buf [8]byte
	for i := 0; i < width; i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
	return w.WriteRaw(buf[:width])
}

// DecodeUint reads a compact unsigned integer, returning its value and the
// size-class prefix byte that was used (the class the caller should check
// against its target's width via MatchWidth).
func DecodeUint(r streambuf.Reader) (uint64, wire.Byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	prefix := wire.Byte(b)
	if v, ok := wire.IsFixInt(prefix); ok {
		if v < 0 {
			return 0, 0, errors.New(errors.UnexpectedEncodingType, "negative fixint %d is not a valid unsigned value", v)
		}
		return uint64(v), prefix, nil
	}
	width := wire.ClassWidth(prefix)
	switch prefix {
	case wire.U8, wire.U16, wire.U32, wire.U64:
		var buf [8]byte
		if err := r.ReadRaw(buf[:width]); err != nil {
			return 0, 0, err
		}
		var v uint64
		for i := 0; i < width; i++ {
			v |= uint64(buf[i]) << (8 * uint(i))
		}
		return v, prefix, nil
	default:
		return 0, 0, errors.New(errors.UnexpectedEncodingType, "prefix 0x%02x is not an unsigned integer class", prefix)
	}
}

// SizeInt returns the number of bytes EncodeInt(v) would write.
func SizeInt(v int64) int {
	switch {
	case v >= -32 && v <= int64(wire.PosFixIntMax):
		return 1
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return 2
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return 3
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return 5
	default:
		return 9
	}
}

// EncodeInt writes v using the smallest size class that holds it.
func EncodeInt(w streambuf.Writer, v int64) error {
	if b, ok := wire.FixIntByte(v); ok {
		return w.WriteByte(byte(b))
	}
	var class wire.Byte
	var width int
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		class, width = wire.I8, 1
	case v >= math.MinInt16 && v <= math.MaxInt16:
		class, width = wire.I16, 2
	case v >= math.MinInt32 && v <= math.MaxInt32:
		class, width = wire.I32, 4
	default:
		class, width = wire.I64, 8
	}
	if err := w.WriteByte(byte(class)); err != nil {
		return err
	}
	uv := uint64(v)
	var buf [8]byte
	for i := 0; i < width; i++ {
		buf[i] = byte(uv >> (8 * uint(i)))
	}
	return w.WriteRaw(buf[:width])
}

// DecodeInt reads a compact signed integer, returning its value and the
// size-class prefix byte that was used.
func DecodeInt(r streambuf.Reader) (int64, wire.Byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	prefix := wire.Byte(b)
	if v, ok := wire.IsFixInt(prefix); ok {
		return v, prefix, nil
	}
	width := wire.ClassWidth(prefix)
	switch prefix {
	case wire.I8, wire.I16, wire.I32, wire.I64:
		var buf [8]byte
		if err := r.ReadRaw(buf[:width]); err != nil {
			return 0, 0, err
		}
		var uv uint64
		for i := 0; i < width; i++ {
			uv |= uint64(buf[i]) << (8 * uint(i))
		}
		// Sign-extend from the class width.
		shift := uint(64 - 8*width)
		v := int64(uv<<shift) >> shift
		return v, prefix, nil
	default:
		return 0, 0, errors.New(errors.UnexpectedEncodingType, "prefix 0x%02x is not a signed integer class", prefix)
	}
}

// MatchWidth implements spec §4.D's permissive-read rule: a fixint always
// fits, and a fixed-width class fits a target iff its payload width is no
// more than targetWidth bytes.
func MatchWidth(class wire.Byte, targetWidth int) bool {
	if _, ok := wire.IsFixInt(class); ok {
		return true
	}
	w := wire.ClassWidth(class)
	if w == 0 {
		return false
	}
	return w <= targetWidth
}

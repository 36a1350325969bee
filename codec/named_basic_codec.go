package codec

import (
	"math"
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// The codecs in this file are buildCodec's reflect-based fallback for named
// basic-kind types that have no codec registered under their own exact
// reflect.Type — e.g. `type Color int32` never goes through Register[int32]
// since reflect.TypeOf(Color(0)) != reflect.TypeOf(int32(0)). They reuse the
// same size-class helpers the concrete int/uint codecs use, so a named
// integer type and its underlying type encode identically on the wire.

type namedIntCodec struct{ width int }

func (c namedIntCodec) prefix(v reflect.Value) wire.Byte {
	b, _ := fixedIntPrefix(v.Int())
	return b
}

func (c namedIntCodec) size(v reflect.Value) int { return varint.SizeInt(v.Int()) - 1 }

func (c namedIntCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	return writeIntPayload(prefix, v.Int(), w)
}

func (c namedIntCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	if !varint.MatchWidth(prefix, c.width) {
		return errors.New(errors.InvalidIntegerClass, "integer class for prefix 0x%02x too wide for %d-byte target", prefix, c.width)
	}
	iv, err := readIntPayload(prefix, r)
	if err != nil {
		return err
	}
	v.SetInt(iv)
	return nil
}

func (c namedIntCodec) match(prefix wire.Byte) bool {
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

type namedUintCodec struct{ width int }

func (c namedUintCodec) prefix(v reflect.Value) wire.Byte {
	b, _ := fixedUintPrefix(v.Uint())
	return b
}

func (c namedUintCodec) size(v reflect.Value) int { return varint.SizeUint(v.Uint()) - 1 }

func (c namedUintCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	return writeUintPayload(prefix, v.Uint(), w)
}

func (c namedUintCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	if !varint.MatchWidth(prefix, c.width) {
		return errors.New(errors.InvalidIntegerClass, "integer class for prefix 0x%02x too wide for %d-byte target", prefix, c.width)
	}
	uv, err := readUintPayload(prefix, r)
	if err != nil {
		return err
	}
	v.SetUint(uv)
	return nil
}

func (c namedUintCodec) match(prefix wire.Byte) bool {
	if _, ok := wire.IsFixInt(prefix); ok {
		return prefix <= wire.PosFixIntMax
	}
	switch prefix {
	case wire.U8, wire.U16, wire.U32, wire.U64:
		return true
	default:
		return false
	}
}

type namedFloat32Codec struct{}

func (namedFloat32Codec) prefix(reflect.Value) wire.Byte { return wire.F32 }
func (namedFloat32Codec) size(reflect.Value) int         { return 4 }

func (namedFloat32Codec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	bits := math.Float32bits(float32(v.Float()))
	var buf [4]byte
	for i := 0; i < 4; i++ {
		buf[i] = byte(bits >> (8 * uint(i)))
	}
	return w.WriteRaw(buf[:])
}

func (namedFloat32Codec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	var buf [4]byte
	if err := r.ReadRaw(buf[:]); err != nil {
		return err
	}
	var bits uint32
	for i := 0; i < 4; i++ {
		bits |= uint32(buf[i]) << (8 * uint(i))
	}
	v.SetFloat(float64(math.Float32frombits(bits)))
	return nil
}

func (namedFloat32Codec) match(prefix wire.Byte) bool { return prefix == wire.F32 }

type namedFloat64Codec struct{}

func (namedFloat64Codec) prefix(reflect.Value) wire.Byte { return wire.F64 }
func (namedFloat64Codec) size(reflect.Value) int         { return 8 }

func (namedFloat64Codec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	bits := math.Float64bits(v.Float())
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * uint(i)))
	}
	return w.WriteRaw(buf[:])
}

func (namedFloat64Codec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	var buf [8]byte
	if err := r.ReadRaw(buf[:]); err != nil {
		return err
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(buf[i]) << (8 * uint(i))
	}
	v.SetFloat(math.Float64frombits(bits))
	return nil
}

func (namedFloat64Codec) match(prefix wire.Byte) bool { return prefix == wire.F64 }

type namedBoolCodec struct{}

func (namedBoolCodec) prefix(v reflect.Value) wire.Byte {
	if v.Bool() {
		return wire.BoolTrue
	}
	return wire.BoolFalse
}
func (namedBoolCodec) size(reflect.Value) int { return 0 }

func (namedBoolCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	return nil
}

func (namedBoolCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	v.SetBool(prefix == wire.BoolTrue)
	return nil
}

func (namedBoolCodec) match(prefix wire.Byte) bool {
	return prefix == wire.BoolTrue || prefix == wire.BoolFalse
}

type namedStringCodec struct{}

func (namedStringCodec) prefix(reflect.Value) wire.Byte { return wire.String }

func (namedStringCodec) size(v reflect.Value) int {
	return varint.SizeUint(uint64(len(v.String()))) + len(v.String())
}

func (namedStringCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	s := v.String()
	if err := varint.EncodeUint(w, uint64(len(s))); err != nil {
		return err
	}
	return w.WriteRaw([]byte(s))
}

func (namedStringCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	if err := r.ReadRaw(buf); err != nil {
		return err
	}
	v.SetString(string(buf))
	return nil
}

func (namedStringCodec) match(prefix wire.Byte) bool { return prefix == wire.String }

func intWidth(k reflect.Kind) int {
	switch k {
	case reflect.Int8:
		return 1
	case reflect.Int16:
		return 2
	case reflect.Int32:
		return 4
	default:
		return 8
	}
}

func uintWidth(k reflect.Kind) int {
	switch k {
	case reflect.Uint8:
		return 1
	case reflect.Uint16:
		return 2
	case reflect.Uint32:
		return 4
	default:
		return 8
	}
}

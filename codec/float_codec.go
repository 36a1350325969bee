package codec

import (
	"math"

	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/wire"
)

// float32Codec/float64Codec implement spec §4.C's "F32/F64: prefix then
// IEEE-754 little-endian payload". Unlike integers there is no narrower
// size class to prefer: a float32 is always F32, a float64 always F64.

type float32Codec struct{}

func (float32Codec) Prefix(float32) wire.Byte { return wire.F32 }
func (float32Codec) Size(float32) int         { return 4 }

func (float32Codec) WritePayload(prefix wire.Byte, v float32, w streambuf.Writer) error {
	bits := math.Float32bits(v)
	var buf [4]byte
	for i := 0; i < 4; i++ {
		buf[i] = byte(bits >> (8 * uint(i)))
	}
	return w.WriteRaw(buf[:])
}

func (float32Codec) ReadPayload(prefix wire.Byte, v *float32, r streambuf.Reader) error {
	var buf [4]byte
	if err := r.ReadRaw(buf[:]); err != nil {
		return err
	}
	var bits uint32
	for i := 0; i < 4; i++ {
		bits |= uint32(buf[i]) << (8 * uint(i))
	}
	*v = math.Float32frombits(bits)
	return nil
}

func (float32Codec) Match(prefix wire.Byte) bool { return prefix == wire.F32 }

type float64Codec struct{}

func (float64Codec) Prefix(float64) wire.Byte { return wire.F64 }
func (float64Codec) Size(float64) int         { return 8 }

func (float64Codec) WritePayload(prefix wire.Byte, v float64, w streambuf.Writer) error {
	bits := math.Float64bits(v)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * uint(i)))
	}
	return w.WriteRaw(buf[:])
}

func (float64Codec) ReadPayload(prefix wire.Byte, v *float64, r streambuf.Reader) error {
	var buf [8]byte
	if err := r.ReadRaw(buf[:]); err != nil {
		return err
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(buf[i]) << (8 * uint(i))
	}
	*v = math.Float64frombits(bits)
	return nil
}

func (float64Codec) Match(prefix wire.Byte) bool { return prefix == wire.F64 }

func init() {
	Register[float32](float32Codec{})
	Register[float64](float64Codec{})
}

package codec

import (
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/wire"
)

// boolCodec implements the single-byte Bool production from spec §4.C:
// BoolFalse/BoolTrue are the whole frame, there is no payload.
type boolCodec struct{}

func (boolCodec) Prefix(v bool) wire.Byte {
	if v {
		return wire.BoolTrue
	}
	return wire.BoolFalse
}

func (boolCodec) Size(v bool) int { return 0 }

func (boolCodec) WritePayload(prefix wire.Byte, v bool, w streambuf.Writer) error { return nil }

func (boolCodec) ReadPayload(prefix wire.Byte, v *bool, r streambuf.Reader) error {
	*v = prefix == wire.BoolTrue
	return nil
}

func (boolCodec) Match(prefix wire.Byte) bool {
	return prefix == wire.BoolTrue || prefix == wire.BoolFalse
}

func init() {
	Register[bool](boolCodec{})
}

package codec

import (
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// stringCodec implements spec §4.C's String production: prefix, U64 byte
// length in compact encoding, then the raw bytes.
type stringCodec struct{}

func (stringCodec) Prefix(string) wire.Byte { return wire.String }

func (stringCodec) Size(v string) int {
	return varint.SizeUint(uint64(len(v))) + len(v)
}

func (stringCodec) WritePayload(prefix wire.Byte, v string, w streambuf.Writer) error {
	if err := varint.EncodeUint(w, uint64(len(v))); err != nil {
		return err
	}
	return w.WriteRaw([]byte(v))
}

func (stringCodec) ReadPayload(prefix wire.Byte, v *string, r streambuf.Reader) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	if err := r.ReadRaw(buf); err != nil {
		return err
	}
	*v = string(buf)
	return nil
}

func (stringCodec) Match(prefix wire.Byte) bool { return prefix == wire.String }

func init() {
	Register[string](stringCodec{})
}

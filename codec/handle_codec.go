package codec

import (
	"github.com/vincentlao/libnop/handle"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// handleReferenceCodec implements spec §4.H's Handle production: prefix,
// then the reference integer. The handle itself never touches the byte
// stream — it was already pushed to the paired side table by the Writer
// (PushHandle) before the reference was known, and the Reader resolves it
// back out via GetHandle using the same reference.
type handleReferenceCodec struct{}

func (handleReferenceCodec) Prefix(handle.Reference) wire.Byte { return wire.Handle }

func (handleReferenceCodec) Size(v handle.Reference) int {
	return varint.SizeUint(uint64(v))
}

func (handleReferenceCodec) WritePayload(prefix wire.Byte, v handle.Reference, w streambuf.Writer) error {
	return varint.EncodeUint(w, uint64(v))
}

func (handleReferenceCodec) ReadPayload(prefix wire.Byte, v *handle.Reference, r streambuf.Reader) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	*v = handle.Reference(n)
	return nil
}

func (handleReferenceCodec) Match(prefix wire.Byte) bool { return prefix == wire.Handle }

func init() {
	Register[handle.Reference](handleReferenceCodec{})
}

package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// byteSliceCodec implements spec §4.C's Binary production for the exact
// type []byte: prefix, U64 byte length, then the raw bytes.
type byteSliceCodec struct{}

func (byteSliceCodec) Prefix([]byte) wire.Byte { return wire.Binary }

func (byteSliceCodec) Size(v []byte) int {
	return varint.SizeUint(uint64(len(v))) + len(v)
}

func (byteSliceCodec) WritePayload(prefix wire.Byte, v []byte, w streambuf.Writer) error {
	if err := varint.EncodeUint(w, uint64(len(v))); err != nil {
		return err
	}
	return w.WriteRaw(v)
}

func (byteSliceCodec) ReadPayload(prefix wire.Byte, v *[]byte, r streambuf.Reader) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	if err := r.ReadRaw(buf); err != nil {
		return err
	}
	*v = buf
	return nil
}

func (byteSliceCodec) Match(prefix wire.Byte) bool { return prefix == wire.Binary }

func init() {
	Register[[]byte](byteSliceCodec{})
}

// bytesSliceCodec is the anyCodec fallback buildCodec installs for named
// slice types whose element kind is byte (e.g. `type Blob []byte`), so they
// get the same Binary production as a plain []byte without requiring an
// explicit registration.
type bytesSliceCodec struct{}

func (bytesSliceCodec) prefix(reflect.Value) wire.Byte { return wire.Binary }

func (bytesSliceCodec) size(v reflect.Value) int {
	n := v.Len()
	return varint.SizeUint(uint64(n)) + n
}

func (bytesSliceCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	b := v.Bytes()
	if err := varint.EncodeUint(w, uint64(len(b))); err != nil {
		return err
	}
	return w.WriteRaw(b)
}

func (bytesSliceCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	if err := r.ReadRaw(buf); err != nil {
		return err
	}
	v.SetBytes(buf)
	return nil
}

func (bytesSliceCodec) match(prefix wire.Byte) bool { return prefix == wire.Binary }

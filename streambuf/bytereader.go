package streambuf

import (
	"io"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/handle"
)

// ByteReader is a Reader over a fixed in-memory byte slice, paired with a
// handle.Table resolved by reference. Grounded on decbuf's read-position
// bookkeeping (nr/nw), specialized for the case where the whole payload is
// already in memory and no refill loop is needed.
type ByteReader struct {
	buf     []byte
	pos     int
	handles *handle.Table
}

// NewByteReader returns a ByteReader over buf. handles may be nil, in which
// case GetHandle always fails, matching the "stub the channel" allowance
// in spec §4.H.
func NewByteReader(buf []byte, handles *handle.Table) *ByteReader {
	return &ByteReader{buf: buf, handles: handles}
}

func (r *ByteReader) remaining() int { return len(r.buf) - r.pos }

func (r *ByteReader) Ensure(n int) error {
	if n > r.remaining() {
		return errors.New(errors.IoError, "need %d bytes, have %d", n, r.remaining())
	}
	return nil
}

func (r *ByteReader) ReadByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, errors.Wrap(errors.IoError, io.EOF, "read byte past end of stream")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *ByteReader) ReadRaw(p []byte) error {
	if err := r.Ensure(len(p)); err != nil {
		return err
	}
	copy(p, r.buf[r.pos:r.pos+len(p)])
	r.pos += len(p)
	return nil
}

func (r *ByteReader) Skip(n int) error {
	if err := r.Ensure(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *ByteReader) GetHandle(ref handle.Reference) (handle.Handle, error) {
	if r.handles == nil {
		return nil, errors.New(errors.IoError, "no handle table attached to this reader")
	}
	return r.handles.Get(ref)
}

// Remaining reports how many unread bytes are left.
func (r *ByteReader) Remaining() int { return r.remaining() }

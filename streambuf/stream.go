package streambuf

import (
	"io"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/handle"
)

// StreamReader adapts an io.Reader (a pipe, socket, or file) to the Reader
// interface. The refill loop is ported from decbuf.fillAtLeast: Read may
// return fewer bytes than requested without an error, so it loops until
// either enough bytes have arrived or the underlying reader fails.
type StreamReader struct {
	src     io.Reader
	buf     []byte
	nr, nw  int
	handles *handle.Table
}

// NewStreamReader returns a StreamReader with an internal scratch buffer of
// the given size (at least 64 bytes). ReadRaw and Skip pass through the
// buffer in chunks; a single Ensure cannot ask for more than its size.
func NewStreamReader(src io.Reader, bufSize int, handles *handle.Table) *StreamReader {
	if bufSize < 64 {
		bufSize = 64
	}
	return &StreamReader{src: src, buf: make([]byte, bufSize), handles: handles}
}

func (r *StreamReader) fillAtLeast(min int) error {
	if r.nw-r.nr >= min {
		return nil
	}
	if len(r.buf)-r.nr < min {
		copy(r.buf, r.buf[r.nr:r.nw])
		r.nw -= r.nr
		r.nr = 0
	}
	for buf := r.buf[r.nw:]; r.nw-r.nr < min; {
		n, err := r.src.Read(buf)
		if n == 0 && err != nil {
			return errors.Wrap(errors.IoError, err, "underlying reader failed")
		}
		r.nw += n
		buf = buf[n:]
	}
	return nil
}

func (r *StreamReader) Ensure(n int) error {
	if n > len(r.buf) {
		return errors.New(errors.NoBuffer, "requested %d exceeds scratch buffer size %d", n, len(r.buf))
	}
	return r.fillAtLeast(n)
}

func (r *StreamReader) ReadByte() (byte, error) {
	if err := r.fillAtLeast(1); err != nil {
		return 0, err
	}
	b := r.buf[r.nr]
	r.nr++
	return b, nil
}

func (r *StreamReader) ReadRaw(p []byte) error {
	for len(p) > 0 {
		n := len(p)
		if n > len(r.buf) {
			n = len(r.buf)
		}
		if err := r.fillAtLeast(n); err != nil {
			return err
		}
		c := copy(p, r.buf[r.nr:r.nw])
		r.nr += c
		p = p[c:]
	}
	return nil
}

func (r *StreamReader) Skip(n int) error {
	var scratch [512]byte
	for n > 0 {
		chunk := n
		if chunk > len(scratch) {
			chunk = len(scratch)
		}
		if err := r.ReadRaw(scratch[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func (r *StreamReader) GetHandle(ref handle.Reference) (handle.Handle, error) {
	if r.handles == nil {
		return nil, errors.New(errors.IoError, "no handle table attached to this reader")
	}
	return r.handles.Get(ref)
}

// StreamWriter adapts an io.Writer to the Writer interface. It buffers
// nothing: every write goes straight to the underlying writer, matching the
// teacher's decision to keep encbuf's buffering confined to the in-memory
// case and let the transport own its own buffering.
type StreamWriter struct {
	dst     io.Writer
	handles handle.Table
}

// NewStreamWriter returns a StreamWriter wrapping dst.
func NewStreamWriter(dst io.Writer) *StreamWriter {
	return &StreamWriter{dst: dst}
}

func (w *StreamWriter) Handles() *handle.Table { return &w.handles }

func (w *StreamWriter) Prepare(n int) error { return nil }

func (w *StreamWriter) WriteByte(b byte) error {
	return w.WriteRaw([]byte{b})
}

func (w *StreamWriter) WriteRaw(p []byte) error {
	for len(p) > 0 {
		n, err := w.dst.Write(p)
		if err != nil {
			return errors.Wrap(errors.IoError, err, "underlying writer failed")
		}
		p = p[n:]
	}
	return nil
}

func (w *StreamWriter) Skip(n int) error {
	var zero [512]byte
	for n > 0 {
		chunk := n
		if chunk > len(zero) {
			chunk = len(zero)
		}
		if err := w.WriteRaw(zero[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func (w *StreamWriter) PushHandle(h handle.Handle) (handle.Reference, error) {
	return w.handles.Push(h), nil
}

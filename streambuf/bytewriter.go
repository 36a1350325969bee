package streambuf

import "github.com/vincentlao/libnop/handle"

// ByteWriter is a growable in-memory Writer. It is grounded on the
// teacher's encbuf: many writes followed by one read of the whole buffer,
// with ensure/Grow doubling the backing array instead of reallocating on
// every write.
type ByteWriter struct {
	buf     []byte
	handles handle.Table
}

// NewByteWriter returns a ByteWriter with a 1KiB initial buffer, matching
// encbuf's newEncbuf starting size.
func NewByteWriter() *ByteWriter {
	return &ByteWriter{buf: make([]byte, 0, 1024)}
}

// Bytes returns the bytes written so far. The slice aliases the writer's
// internal buffer and is only valid until the next write.
func (w *ByteWriter) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *ByteWriter) Len() int { return len(w.buf) }

// Reset discards all written bytes and pushed handles, allowing the
// ByteWriter to be reused for another round of writes.
func (w *ByteWriter) Reset() {
	w.buf = w.buf[:0]
	w.handles = handle.Table{}
}

// Handles returns the side table of handles pushed so far, for a transport
// to ship alongside the byte stream.
func (w *ByteWriter) Handles() *handle.Table { return &w.handles }

func (w *ByteWriter) Prepare(n int) error {
	if cap(w.buf)-len(w.buf) < n {
		newbuf := make([]byte, len(w.buf), len(w.buf)*2+n)
		copy(newbuf, w.buf)
		w.buf = newbuf
	}
	return nil
}

func (w *ByteWriter) WriteByte(b byte) error {
	if err := w.Prepare(1); err != nil {
		return err
	}
	w.buf = append(w.buf, b)
	return nil
}

func (w *ByteWriter) WriteRaw(p []byte) error {
	if err := w.Prepare(len(p)); err != nil {
		return err
	}
	w.buf = append(w.buf, p...)
	return nil
}

func (w *ByteWriter) Skip(n int) error {
	if err := w.Prepare(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
	return nil
}

func (w *ByteWriter) PushHandle(h handle.Handle) (handle.Reference, error) {
	return w.handles.Push(h), nil
}

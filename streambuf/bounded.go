package streambuf

import (
	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/handle"
)

// BoundedReader wraps a Reader and enforces a byte budget. It maintains the
// invariant 0 <= index <= capacity: every consuming operation checks
// requested <= capacity-index *before* delegating to the inner reader, so a
// violation fails with NoBuffer without touching the inner reader at all
// (spec §4.B). This is the same discipline the teacher implements twice,
// independently: decbuf's SetLimit/SkipToLimit, and the original C++
// BoundedReader's Ensure/Read/ReadRaw/Skip/ReadPadding.
type BoundedReader struct {
	inner    Reader
	capacity int
	index    int
}

// NewBoundedReader scopes reads against inner to at most capacity bytes.
func NewBoundedReader(inner Reader, capacity int) *BoundedReader {
	return &BoundedReader{inner: inner, capacity: capacity}
}

func (b *BoundedReader) checkBudget(n int) error {
	if n > b.capacity-b.index {
		return errors.New(errors.NoBuffer,
			"bounded reader: requested %d bytes, only %d remain of capacity %d", n, b.capacity-b.index, b.capacity)
	}
	return nil
}

func (b *BoundedReader) Ensure(n int) error {
	if err := b.checkBudget(n); err != nil {
		return err
	}
	return b.inner.Ensure(n)
}

func (b *BoundedReader) ReadByte() (byte, error) {
	if err := b.checkBudget(1); err != nil {
		return 0, err
	}
	v, err := b.inner.ReadByte()
	if err != nil {
		return 0, err
	}
	b.index++
	return v, nil
}

func (b *BoundedReader) ReadRaw(p []byte) error {
	if err := b.checkBudget(len(p)); err != nil {
		return err
	}
	if err := b.inner.ReadRaw(p); err != nil {
		return err
	}
	b.index += len(p)
	return nil
}

func (b *BoundedReader) Skip(n int) error {
	if err := b.checkBudget(n); err != nil {
		return err
	}
	if err := b.inner.Skip(n); err != nil {
		return err
	}
	b.index += n
	return nil
}

func (b *BoundedReader) GetHandle(ref handle.Reference) (handle.Handle, error) {
	return b.inner.GetHandle(ref)
}

// ReadPadding discards any bytes remaining up to capacity. It is the
// documented way to consume unknown trailing bytes within a framed
// sub-stream (spec §4.B) — e.g. a struct decoder that received more member
// bytes than its declaration knows about, or an RPC frame whose declared
// length exceeds what the argument tuple actually consumed.
func (b *BoundedReader) ReadPadding() error {
	remaining := b.capacity - b.index
	if remaining <= 0 {
		return nil
	}
	if err := b.inner.Skip(remaining); err != nil {
		return err
	}
	b.index += remaining
	return nil
}

// Empty reports whether every byte up to capacity has been consumed.
func (b *BoundedReader) Empty() bool { return b.index == b.capacity }

// Size returns the number of bytes consumed so far.
func (b *BoundedReader) Size() int { return b.index }

// Capacity returns the byte budget this reader was constructed with.
func (b *BoundedReader) Capacity() int { return b.capacity }

// BoundedWriter is the write-side counterpart, capping how many bytes a
// writer is permitted to emit. Not named in spec.md. The rpc framing does
// not use it: it measures each frame in a scratch ByteWriter before writing
// the length prefix.
type BoundedWriter struct {
	inner    Writer
	capacity int
	index    int
}

// NewBoundedWriter scopes writes against inner to at most capacity bytes.
func NewBoundedWriter(inner Writer, capacity int) *BoundedWriter {
	return &BoundedWriter{inner: inner, capacity: capacity}
}

func (b *BoundedWriter) checkBudget(n int) error {
	if n > b.capacity-b.index {
		return errors.New(errors.NoBuffer,
			"bounded writer: requested %d bytes, only %d remain of capacity %d", n, b.capacity-b.index, b.capacity)
	}
	return nil
}

func (b *BoundedWriter) Prepare(n int) error {
	if err := b.checkBudget(n); err != nil {
		return err
	}
	return b.inner.Prepare(n)
}

func (b *BoundedWriter) WriteByte(c byte) error {
	if err := b.checkBudget(1); err != nil {
		return err
	}
	if err := b.inner.WriteByte(c); err != nil {
		return err
	}
	b.index++
	return nil
}

func (b *BoundedWriter) WriteRaw(p []byte) error {
	if err := b.checkBudget(len(p)); err != nil {
		return err
	}
	if err := b.inner.WriteRaw(p); err != nil {
		return err
	}
	b.index += len(p)
	return nil
}

func (b *BoundedWriter) Skip(n int) error {
	if err := b.checkBudget(n); err != nil {
		return err
	}
	if err := b.inner.Skip(n); err != nil {
		return err
	}
	b.index += n
	return nil
}

func (b *BoundedWriter) PushHandle(h handle.Handle) (handle.Reference, error) {
	return b.inner.PushHandle(h)
}

// Size returns the number of bytes written so far.
func (b *BoundedWriter) Size() int { return b.index }

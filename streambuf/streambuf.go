// Package streambuf provides the Reader/Writer/BoundedReader abstractions
// the codec is built on (spec §4.B). Readers and Writers are stateful,
// single-threaded, and non-shareable; BoundedReader layers a byte budget on
// top of a Reader to scope a length-prefixed sub-frame, such as an RPC frame.
package streambuf

import (
	"github.com/vincentlao/libnop/handle"
)

// Reader is the pull side of the wire: bytes come out in order, with no
// seek and no restart (spec §3 "Reader").
type Reader interface {
	// Ensure asserts that n bytes are available without consuming them.
	Ensure(n int) error
	// ReadByte consumes and returns the next single byte (used to read a
	// prefix byte).
	ReadByte() (byte, error)
	// ReadRaw consumes exactly len(p) bytes into p.
	ReadRaw(p []byte) error
	// Skip consumes and discards n bytes.
	Skip(n int) error
	// GetHandle fetches an out-of-band handle by reference.
	GetHandle(ref handle.Reference) (handle.Handle, error)
}

// Writer is the dual of Reader.
type Writer interface {
	// Prepare hints that n bytes are about to be written, allowing an
	// in-memory implementation to grow its buffer once instead of
	// repeatedly.
	Prepare(n int) error
	// WriteByte writes a single byte (used to write a prefix byte).
	WriteByte(b byte) error
	// WriteRaw writes p verbatim.
	WriteRaw(p []byte) error
	// Skip writes n pad bytes.
	Skip(n int) error
	// PushHandle stores h in the paired out-of-band side table and
	// returns the reference a peer Reader will resolve it by.
	PushHandle(h handle.Handle) (handle.Reference, error)
}

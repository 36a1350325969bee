package schema

// LogicalBuffer is the array/count pair treated as a sizeable buffer (spec
// §4.F, ported from original_source's LogicalBuffer<BufferType, SizeType>):
// Buffer is the full backing storage, Size is the live element count, which
// may be less than len(Buffer). codec.logicalBufferCodec encodes only the
// first Size elements and, on decode into a zero-value LogicalBuffer,
// allocates Buffer to exactly the count read off the wire.
type LogicalBuffer[E any] struct {
	Buffer []E
	Size   int
}

package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/wire"
)

// DefaultMaxDepth bounds the recursion the codec will follow into nested
// containers/structs before concluding the value graph is cyclic (spec §9:
// "An encoder that encounters a cycle must fail deterministically").
const DefaultMaxDepth = 10000

// Write encodes v to w using v's registered (or synthesized) codec: Prefix,
// then WritePayload, exactly as spec §4.E's wrapper operation describes.
func Write[T any](v T, w streambuf.Writer) error {
	rv := reflect.ValueOf(v)
	c, err := resolve(rv.Type())
	if err != nil {
		return err
	}
	return writeReflect(c, rv, w, 0)
}

func writeReflect(c anyCodec, rv reflect.Value, w streambuf.Writer, depth int) error {
	if depth > DefaultMaxDepth {
		return errors.New(errors.InvalidContainerLength, "encode depth exceeded %d, possible cycle", DefaultMaxDepth)
	}
	prefix := c.prefix(rv)
	if err := w.WriteByte(byte(prefix)); err != nil {
		return err
	}
	return c.writePayload(prefix, rv, w, depth+1)
}

// Read decodes from r into *v: read the prefix byte, find a codec whose
// Match accepts it, then ReadPayload (spec §4.E's wrapper operation).
func Read[T any](v *T, r streambuf.Reader) error {
	rv := reflect.ValueOf(v).Elem()
	c, err := resolve(rv.Type())
	if err != nil {
		return err
	}
	return readReflect(c, rv, r, 0)
}

func readReflect(c anyCodec, rv reflect.Value, r streambuf.Reader, depth int) error {
	if depth > DefaultMaxDepth {
		return errors.New(errors.InvalidContainerLength, "decode depth exceeded %d, possible cycle", DefaultMaxDepth)
	}
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	prefix := wire.Byte(b)
	if !c.match(prefix) {
		return errors.New(errors.UnexpectedEncodingType, "prefix 0x%02x does not match target type %s", b, rv.Type())
	}
	return c.readPayload(prefix, rv, r, depth+1)
}

// Size reports the exact byte count Write(v) would emit, including the
// prefix byte (spec's Size law).
func Size[T any](v T) int {
	rv := reflect.ValueOf(v)
	c, err := resolve(rv.Type())
	if err != nil {
		return 0
	}
	return 1 + c.size(rv)
}

// Serializer owns a Writer and exposes Write[T] as a method, matching spec
// §4.J. It is single-threaded and non-reentrant; callers needing
// concurrent access must synchronize externally (spec §5).
type Serializer struct {
	w streambuf.Writer
}

// NewSerializer returns a Serializer writing to w.
func NewSerializer(w streambuf.Writer) *Serializer { return &Serializer{w: w} }

// Write encodes v to the underlying Writer.
func (s *Serializer) Write(v interface{}) error {
	rv := reflect.ValueOf(v)
	c, err := resolve(rv.Type())
	if err != nil {
		return err
	}
	return writeReflect(c, rv, s.w, 0)
}

// Deserializer owns a Reader and exposes Read[T] as a method.
type Deserializer struct {
	r streambuf.Reader
}

// NewDeserializer returns a Deserializer reading from r.
func NewDeserializer(r streambuf.Reader) *Deserializer { return &Deserializer{r: r} }

// Read decodes from the underlying Reader into v, which must be a non-nil
// pointer.
func (d *Deserializer) Read(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New(errors.UnexpectedEncodingType, "Read requires a non-nil pointer, got %T", v)
	}
	elem := rv.Elem()
	c, err := resolve(elem.Type())
	if err != nil {
		return err
	}
	return readReflect(c, elem, d.r, 0)
}

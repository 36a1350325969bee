package rpc

import (
	"reflect"

	"github.com/vincentlao/libnop/codec"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
)

// RequestFrame is the encoded tuple (selector, arguments) spec §4.I
// describes, carried inside a length-prefixed bounded sub-stream.
type RequestFrame struct {
	Selector  uint64
	Arguments codec.Tuple
}

// ResponseFrame is the encoded return value, carried the same way.
type ResponseFrame struct {
	Result any
}

// writeFramed encodes through encode into a scratch buffer, measures the
// result, then writes a varint-encoded U64 length prefix followed by the
// encoded bytes — the "byte length precedes it" framing spec §4.I requires
// for both request and response frames.
func writeFramed(w streambuf.Writer, encode func(streambuf.Writer) error) error {
	buf := streambuf.NewByteWriter()
	if err := encode(buf); err != nil {
		return err
	}
	if err := varint.EncodeUint(w, uint64(buf.Len())); err != nil {
		return err
	}
	return w.WriteRaw(buf.Bytes())
}

// readFramed reads a varint-encoded U64 length prefix, then hands decode a
// BoundedReader scoped to exactly that many bytes, so a malformed or
// over-long frame can never read past its declared boundary.
func readFramed(r streambuf.Reader, decode func(streambuf.Reader) error) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	bounded := streambuf.NewBoundedReader(r, int(n))
	if err := decode(bounded); err != nil {
		return err
	}
	if !bounded.Empty() {
		return bounded.ReadPadding()
	}
	return nil
}

// MethodSender encodes requests on a codec.Serializer and decodes
// responses from a codec.Deserializer, both wrapping the same transport
// (spec §4.I's MethodSender).
type MethodSender struct {
	w streambuf.Writer
	r streambuf.Reader
}

// NewMethodSender returns a MethodSender writing requests to w and reading
// responses from r.
func NewMethodSender(w streambuf.Writer, r streambuf.Reader) *MethodSender {
	return &MethodSender{w: w, r: r}
}

// Call encodes a request frame for m with args, sends it, then decodes and
// returns the response frame's result as Ret. Ret is a type parameter
// rather than a method parameter because Go forbids a method from
// declaring type parameters beyond its receiver's.
func Call[Ret any](s *MethodSender, m Method, args codec.Tuple) (Ret, error) {
	var zero Ret
	err := writeFramed(s.w, func(w streambuf.Writer) error {
		ser := codec.NewSerializer(w)
		if err := ser.Write(m.Selector()); err != nil {
			return err
		}
		return ser.Write(args)
	})
	if err != nil {
		return zero, err
	}

	var result Ret
	err = readFramed(s.r, func(r streambuf.Reader) error {
		return codec.NewDeserializer(r).Read(&result)
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}

// MethodReceiver pairs a Deserializer and Serializer for symmetric use on
// the service side (spec §4.I's MethodReceiver), exposed directly for
// services that want to drive framing without the reflective Dispatcher.
type MethodReceiver struct {
	r streambuf.Reader
	w streambuf.Writer
}

// NewMethodReceiver returns a MethodReceiver reading requests from r and
// writing responses to w.
func NewMethodReceiver(r streambuf.Reader, w streambuf.Writer) *MethodReceiver {
	return &MethodReceiver{r: r, w: w}
}

// ReadRequest decodes one request frame's selector and argument tuple. The
// tuple's declared element types come from argTypes, resolved from the
// selector once it has been read off the wire.
func (mr *MethodReceiver) ReadRequest(argTypes func(selector uint64) ([]reflect.Type, error)) (uint64, codec.Tuple, error) {
	var selector uint64
	var args codec.Tuple
	err := readFramed(mr.r, func(r streambuf.Reader) error {
		dec := codec.NewDeserializer(r)
		if err := dec.Read(&selector); err != nil {
			return err
		}
		types, err := argTypes(selector)
		if err != nil {
			return err
		}
		args = *codec.NewTuple(types...)
		return dec.Read(&args)
	})
	return selector, args, err
}

// WriteResponse encodes result as a response frame.
func (mr *MethodReceiver) WriteResponse(result any) error {
	return writeFramed(mr.w, func(w streambuf.Writer) error {
		return codec.NewSerializer(w).Write(result)
	})
}

package rpc

import (
	"context"
	"reflect"
	"testing"

	"github.com/vincentlao/libnop/codec"
	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/schema"
	"github.com/vincentlao/libnop/streambuf"
)

func TestSelectorIsDeterministic(t *testing.T) {
	a := Selector("calc.Calculator", "Add")
	b := Selector("calc.Calculator", "Add")
	if a != b {
		t.Fatalf("selector not deterministic: %#x != %#x", a, b)
	}
	c := Selector("calc.Calculator", "Sub")
	if a == c {
		t.Fatalf("expected different method names to select differently")
	}
}

// TestNewInterfaceRejectsDuplicateSelector is spec §8 property 8: a
// colliding method table is rejected at construction.
func TestNewInterfaceRejectsDuplicateSelector(t *testing.T) {
	m1 := Method{Name: "Foo"}
	m2 := Method{Name: "Foo"} // same name -> same selector under any interface ID
	_, err := NewInterface("svc", m1, m2)
	if errors.KindOf(err) != errors.DuplicateMethodHash {
		t.Fatalf("got %v, want DuplicateMethodHash", err)
	}
}

func TestInterfaceLookup(t *testing.T) {
	iface, err := NewInterface("svc", Method{Name: "Add"}, Method{Name: "Sub"})
	if err != nil {
		t.Fatal(err)
	}
	add, ok := iface.Lookup(Selector("svc", "Add"))
	if !ok || add.Name != "Add" {
		t.Fatalf("got %+v, %v, want Add, true", add, ok)
	}
	if _, ok := iface.Lookup(0xdeadbeef); ok {
		t.Fatalf("expected unknown selector to miss")
	}
}

type addArgs struct {
	A int32
	B int32
}

func init() {
	schema.Declare[addArgs](schema.F("A"), schema.F("B"))
}

// TestCallAndDispatchRoundTrip is scenario S5 from spec §8: a request frame
// for a two-argument method is written with writeFramed through a
// MethodSender's writer and consumed by Dispatcher.Serve end to end over
// in-memory buffers.
func TestCallAndDispatchRoundTrip(t *testing.T) {
	iface, err := NewInterface("calc.Calculator", Method{
		Name: "Add",
		In:   reflect.TypeOf(addArgs{}),
		Out:  reflect.TypeOf(int32(0)),
	})
	if err != nil {
		t.Fatal(err)
	}

	dispatcher, err := BindInterface(iface, map[string]Handler{
		"Add": func(ctx context.Context, args codec.Tuple) (any, error) {
			a := args.Get(0).(int32)
			b := args.Get(1).(int32)
			return a + b, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// requestBuf carries client->server bytes, responseBuf server->client.
	requestBuf := streambuf.NewByteWriter()
	tup := codec.NewTuple(reflect.TypeOf(int32(0)), reflect.TypeOf(int32(0)))
	tup.Set(0, int32(2))
	tup.Set(1, int32(3))

	sender := NewMethodSender(requestBuf, nil)
	// The request is framed by hand rather than through Call, since Call
	// also reads the response, which exists only after Serve has run.
	if err := writeFramed(sender.w, func(w streambuf.Writer) error {
		ser := codec.NewSerializer(w)
		m, _ := iface.Lookup(Selector("calc.Calculator", "Add"))
		if err := ser.Write(m.Selector()); err != nil {
			return err
		}
		return ser.Write(*tup)
	}); err != nil {
		t.Fatal(err)
	}

	serverReader := streambuf.NewByteReader(requestBuf.Bytes(), nil)
	responseBuf := streambuf.NewByteWriter()
	if err := dispatcher.Serve(context.Background(), serverReader, responseBuf); err != nil {
		t.Fatal(err)
	}

	clientReader := streambuf.NewByteReader(responseBuf.Bytes(), nil)
	var result int32
	if err := readFramed(clientReader, func(r streambuf.Reader) error {
		return codec.NewDeserializer(r).Read(&result)
	}); err != nil {
		t.Fatal(err)
	}
	if result != 5 {
		t.Fatalf("got %d, want 5", result)
	}
}

// TestCallDirect exercises MethodSender.Call and MethodReceiver directly
// (rather than through Dispatcher.Serve, which TestCallAndDispatchRoundTrip
// already covers): the response bytes are prepared ahead of time since
// there is no live duplex transport in this in-memory test, then Call's
// write side is checked by decoding the request it produced with a
// MethodReceiver.
func TestCallDirect(t *testing.T) {
	iface, err := NewInterface("calc.Calculator", Method{
		Name: "Add",
		In:   reflect.TypeOf(addArgs{}),
		Out:  reflect.TypeOf(int32(0)),
	})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := iface.Lookup(Selector("calc.Calculator", "Add"))
	if !ok {
		t.Fatal("Add not found")
	}

	responseBuf := streambuf.NewByteWriter()
	if err := NewMethodReceiver(nil, responseBuf).WriteResponse(int32(15)); err != nil {
		t.Fatal(err)
	}

	requestBuf := streambuf.NewByteWriter()
	sender := NewMethodSender(requestBuf, streambuf.NewByteReader(responseBuf.Bytes(), nil))
	tup := codec.NewTuple(reflect.TypeOf(int32(0)), reflect.TypeOf(int32(0)))
	tup.Set(0, int32(7))
	tup.Set(1, int32(8))

	got, err := Call[int32](sender, m, *tup)
	if err != nil {
		t.Fatal(err)
	}
	if got != 15 {
		t.Fatalf("got %d, want 15", got)
	}

	srv := NewMethodReceiver(streambuf.NewByteReader(requestBuf.Bytes(), nil), nil)
	selector, args, err := srv.ReadRequest(func(uint64) ([]reflect.Type, error) {
		return []reflect.Type{reflect.TypeOf(int32(0)), reflect.TypeOf(int32(0))}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if selector != m.Selector() {
		t.Fatalf("got selector %#x, want %#x", selector, m.Selector())
	}
	if a, b := args.Get(0).(int32), args.Get(1).(int32); a != 7 || b != 8 {
		t.Fatalf("got (%d, %d), want (7, 8)", a, b)
	}
}

func TestDispatcherUnknownSelector(t *testing.T) {
	iface, err := NewInterface("svc", Method{Name: "Ping"})
	if err != nil {
		t.Fatal(err)
	}
	dispatcher, err := BindInterface(iface, map[string]Handler{
		"Ping": func(ctx context.Context, args codec.Tuple) (any, error) { return nil, nil },
	})
	if err != nil {
		t.Fatal(err)
	}

	requestBuf := streambuf.NewByteWriter()
	if err := writeFramed(requestBuf, func(w streambuf.Writer) error {
		return codec.NewSerializer(w).Write(uint64(0xdeadbeef))
	}); err != nil {
		t.Fatal(err)
	}

	r := streambuf.NewByteReader(requestBuf.Bytes(), nil)
	err = dispatcher.Serve(context.Background(), r, streambuf.NewByteWriter())
	if errors.KindOf(err) != errors.InvalidInterfaceMethod {
		t.Fatalf("got %v, want InvalidInterfaceMethod", err)
	}
}

func TestBindInterfaceRejectsMissingHandler(t *testing.T) {
	iface, err := NewInterface("svc", Method{Name: "Ping"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = BindInterface(iface, map[string]Handler{})
	if errors.KindOf(err) != errors.InvalidInterfaceMethod {
		t.Fatalf("got %v, want InvalidInterfaceMethod", err)
	}
}

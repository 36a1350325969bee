package codec

import (
	"reflect"
	"testing"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/handle"
	"github.com/vincentlao/libnop/schema"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/variant"
	"github.com/vincentlao/libnop/wire"
)

func roundTrip[T any](t *testing.T, v T) T {
	t.Helper()
	w := streambuf.NewByteWriter()
	if err := Write(v, w); err != nil {
		t.Fatalf("Write(%v): %v", v, err)
	}
	if w.Len() != Size(v) {
		t.Fatalf("Write(%v) wrote %d bytes, Size() says %d", v, w.Len(), Size(v))
	}
	var out T
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&out, r); err != nil {
		t.Fatalf("Read back %v: %v", v, err)
	}
	return out
}

// tupleRoundTrip is roundTrip for a Tuple: the Array production carries no
// slot types, so the decode target is a Tuple declared with tup's types.
func tupleRoundTrip(t *testing.T, tup *Tuple) Tuple {
	t.Helper()
	w := streambuf.NewByteWriter()
	if err := Write(*tup, w); err != nil {
		t.Fatalf("Write(%v): %v", *tup, err)
	}
	if w.Len() != Size(*tup) {
		t.Fatalf("Write(%v) wrote %d bytes, Size() says %d", *tup, w.Len(), Size(*tup))
	}
	out := NewTuple(tup.Types...)
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(out, r); err != nil {
		t.Fatalf("Read back %v: %v", *tup, err)
	}
	return *out
}

func TestScalarRoundTrip(t *testing.T) {
	if got := roundTrip(t, true); got != true {
		t.Fatalf("bool round trip: got %v", got)
	}
	if got := roundTrip(t, int32(-12345)); got != -12345 {
		t.Fatalf("int32 round trip: got %v", got)
	}
	if got := roundTrip(t, uint64(1<<40)); got != 1<<40 {
		t.Fatalf("uint64 round trip: got %v", got)
	}
	if got := roundTrip(t, float64(3.25)); got != 3.25 {
		t.Fatalf("float64 round trip: got %v", got)
	}
	if got := roundTrip(t, "hello, nop"); got != "hello, nop" {
		t.Fatalf("string round trip: got %q", got)
	}
}

// TestStructureExample is scenario S2 from spec §8: a two-member struct with
// members 1 and -1, both fixints, encodes as Structure prefix, member count
// 2, then each member's own one-byte frame.
func TestStructureExample(t *testing.T) {
	type Pair struct {
		A int32
		B int32
	}
	schema.Declare[Pair](schema.F("A"), schema.F("B"))

	p := Pair{A: 1, B: -1}
	w := streambuf.NewByteWriter()
	if err := Write(p, w); err != nil {
		t.Fatal(err)
	}
	want := []byte{byte(wire.Structure), 0x02, 0x01, 0xff}
	if !bytesEqual(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}

	got := roundTrip(t, p)
	if got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestNestedStruct(t *testing.T) {
	type Inner struct {
		X int32
	}
	type Outer struct {
		Name  string
		Items []int32
		Inner Inner
	}
	schema.Declare[Inner](schema.F("X"))
	schema.Declare[Outer](schema.F("Name"), schema.F("Items"), schema.F("Inner"))

	v := Outer{Name: "n", Items: []int32{1, 2, 3}, Inner: Inner{X: 42}}
	got := roundTrip(t, v)
	if got.Name != v.Name || len(got.Items) != 3 || got.Inner.X != 42 {
		t.Fatalf("got %+v, want %+v", got, v)
	}
}

// TestStructBufferMember exercises the §3/§4.F array/count member pair
// declared via schema.Buf: only the live count elements are written, the
// unused backing tail is dropped on the wire, and the count field is
// restored on decode rather than left at the wire's member count.
func TestStructBufferMember(t *testing.T) {
	type Packet struct {
		Data  [8]byte
		Count int32
	}
	schema.Declare[Packet](schema.Buf("Data", "Count"))

	p := Packet{Data: [8]byte{1, 2, 3, 0, 0, 0, 0, 0}, Count: 3}
	w := streambuf.NewByteWriter()
	if err := Write(p, w); err != nil {
		t.Fatal(err)
	}
	// Structure prefix, 1 member, Binary prefix, count 3, then 3 raw bytes —
	// the unused 5 trailing zero bytes of Data never reach the wire.
	want := []byte{byte(wire.Structure), 0x01, byte(wire.Binary), 0x03, 1, 2, 3}
	if !bytesEqual(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}

	var got Packet
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&got, r); err != nil {
		t.Fatal(err)
	}
	if got.Count != 3 || got.Data[0] != 1 || got.Data[1] != 2 || got.Data[2] != 3 {
		t.Fatalf("got %+v, want Count=3, Data[0:3]=1,2,3", got)
	}
	if got.Data[3] != 0 {
		t.Fatalf("expected untouched tail to stay zero, got %+v", got)
	}
}

// TestStructBufferMemberNonIntegral exercises the Array-production half of
// the same split for a non-byte element type.
func TestStructBufferMemberNonIntegral(t *testing.T) {
	type Row struct {
		Values [4]int32
		N      int32
	}
	schema.Declare[Row](schema.Buf("Values", "N"))

	row := Row{Values: [4]int32{10, 20, 30, 99}, N: 2}
	w := streambuf.NewByteWriter()
	if err := Write(row, w); err != nil {
		t.Fatal(err)
	}
	var got Row
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&got, r); err != nil {
		t.Fatal(err)
	}
	if got.N != 2 || got.Values[0] != 10 || got.Values[1] != 20 {
		t.Fatalf("got %+v, want N=2, Values[0:2]=10,20", got)
	}
	if got.Values[2] != 0 {
		t.Fatalf("expected untouched tail to stay zero, got %+v", got)
	}
}

func TestMapRoundTrip(t *testing.T) {
	m := map[string]int32{"a": 1, "b": 2, "c": 3}
	got := roundTrip(t, m)
	if len(got) != len(m) {
		t.Fatalf("got %d entries, want %d", len(got), len(m))
	}
	for k, v := range m {
		if got[k] != v {
			t.Fatalf("key %q: got %d, want %d", k, got[k], v)
		}
	}
}

func TestFixedArrayRoundTrip(t *testing.T) {
	a := [4]int32{10, 20, 30, 40}
	got := roundTrip(t, a)
	if got != a {
		t.Fatalf("got %v, want %v", got, a)
	}

	var bytesArr [3]byte
	bytesArr[0], bytesArr[1], bytesArr[2] = 1, 2, 3
	gotBytes := roundTrip(t, bytesArr)
	if gotBytes != bytesArr {
		t.Fatalf("got %v, want %v", gotBytes, bytesArr)
	}
}

func TestFixedArrayWrongLengthRejected(t *testing.T) {
	type Three [3]int32
	type Four [4]int32

	w := streambuf.NewByteWriter()
	if err := Write(Three{1, 2, 3}, w); err != nil {
		t.Fatal(err)
	}
	var out Four
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&out, r); errors.KindOf(err) != errors.InvalidContainerLength {
		t.Fatalf("got %v, want InvalidContainerLength", err)
	}
}

// TestLogicalBufferFungibility is scenario S3 from spec §8.
func TestLogicalBufferFungibility(t *testing.T) {
	buf := schema.LogicalBuffer[int32]{Buffer: []int32{1, 2, 3, 0, 0}, Size: 3}
	w := streambuf.NewByteWriter()
	if err := Write(buf, w); err != nil {
		t.Fatal(err)
	}

	var asSlice []int32
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&asSlice, r); err != nil {
		t.Fatalf("reading LogicalBuffer bytes as []int32: %v", err)
	}
	if len(asSlice) != 3 || asSlice[0] != 1 || asSlice[1] != 2 || asSlice[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", asSlice)
	}

	var asBuf schema.LogicalBuffer[int32]
	r2 := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&asBuf, r2); err != nil {
		t.Fatal(err)
	}
	if asBuf.Size != 3 || len(asBuf.Buffer) != 3 {
		t.Fatalf("got %+v, want Size=3, len(Buffer)=3", asBuf)
	}
}

func TestOptionalRoundTrip(t *testing.T) {
	some := variant.Some(int32(7))
	got := roundTrip(t, some)
	if v, ok := got.Get(); !ok || v != 7 {
		t.Fatalf("got %v, ok=%v, want 7, true", v, ok)
	}

	none := variant.None[int32]()
	gotNone := roundTrip(t, none)
	if gotNone.IsPresent() {
		t.Fatalf("expected absent Optional, got present")
	}
}

type testErr string

func (e testErr) None() bool { return e == "" }

func TestResultRoundTrip(t *testing.T) {
	ok := variant.Ok[testErr](int32(99))
	gotOk := roundTrip(t, ok)
	if v, present := gotOk.Value(); !present || v != 99 {
		t.Fatalf("got %v, present=%v, want 99, true", v, present)
	}

	errVal := variant.Err[testErr, int32](testErr("boom"))
	gotErr := roundTrip(t, errVal)
	if e, present := gotErr.Error(); !present || e != "boom" {
		t.Fatalf("got %+v, present=%v, want boom, true", e, present)
	}
}

// TestVariantEmpty is scenario S4 from spec §8: an empty Variant encodes as
// prefix plus SInt(-1) with no following frame.
func TestVariantEmpty(t *testing.T) {
	v := variant.NewVariant(reflect.TypeOf(int32(0)), reflect.TypeOf(""))
	w := streambuf.NewByteWriter()
	if err := Write(*v, w); err != nil {
		t.Fatal(err)
	}
	want := []byte{byte(wire.Variant), 0xff} // SInt(-1) is a one-byte negative fixint
	if !bytesEqual(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}

	var out variant.Variant
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&out, r); err != nil {
		t.Fatal(err)
	}
	if !out.Empty() {
		t.Fatalf("expected decoded Variant to be empty")
	}
}

func TestVariantRoundTripAndLocalRecovery(t *testing.T) {
	v := variant.NewVariant(reflect.TypeOf(int32(0)), reflect.TypeOf(""))
	if err := v.Emplace(1, "hi"); err != nil {
		t.Fatal(err)
	}
	w := streambuf.NewByteWriter()
	if err := Write(*v, w); err != nil {
		t.Fatal(err)
	}

	// A reader declaring the same alternatives in the opposite order must
	// still recover the string alternative via local recovery, since the
	// wire prefix (String) only matches one of its two alternatives.
	reordered := variant.NewVariant(reflect.TypeOf(""), reflect.TypeOf(int32(0)))
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(reordered, r); err != nil {
		t.Fatal(err)
	}
	got, ok := variant.Get[string](reordered)
	if !ok || got != "hi" {
		t.Fatalf("got %q, ok=%v, want %q, true", got, ok, "hi")
	}
}

func TestTupleRoundTrip(t *testing.T) {
	tup := NewTuple(reflect.TypeOf(int32(0)), reflect.TypeOf(""))
	tup.Set(0, int32(5))
	tup.Set(1, "five")

	got := tupleRoundTrip(t, tup)
	if got.Get(0).(int32) != 5 || got.Get(1).(string) != "five" {
		t.Fatalf("got %+v", got)
	}
}

// TestTupleUnsetSlotEncodesZeroValue guards against a slot that was never
// Set: it must encode the declared type's zero value rather than panic on
// reflect.ValueOf(nil).
func TestTupleUnsetSlotEncodesZeroValue(t *testing.T) {
	tup := NewTuple(reflect.TypeOf(int32(0)), reflect.TypeOf(""))
	tup.Set(0, int32(9))
	// slot 1 deliberately left unset

	got := tupleRoundTrip(t, tup)
	if got.Get(0).(int32) != 9 {
		t.Fatalf("got %+v", got)
	}
	if got.Get(1).(string) != "" {
		t.Fatalf("got %q, want zero value \"\"", got.Get(1))
	}
}

func TestEnumRoundTripAcrossRenumbering(t *testing.T) {
	type Color int32
	type ColorReordered int32
	schema.DeclareEnum[Color]("red", "green", "blue")
	schema.DeclareEnum[ColorReordered]("blue", "green", "red")

	w := streambuf.NewByteWriter()
	if err := Write(Color(0), w); err != nil { // "red" under Color's numbering
		t.Fatal(err)
	}
	if w.Bytes()[0] != byte(wire.Table) {
		t.Fatalf("expected Table prefix, got 0x%02x", w.Bytes()[0])
	}

	// ColorReordered assigns "red" ordinal 2, not 0: a byte-for-byte ordinal
	// copy would be wrong here. The Table production carries the name, so
	// the reader recovers "red" and re-maps it to its own ordinal.
	var got ColorReordered
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&got, r); err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Fatalf("got %d, want 2 (red under ColorReordered's numbering)", got)
	}

	var gotSame Color
	r2 := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&gotSame, r2); err != nil {
		t.Fatal(err)
	}
	if gotSame != 0 {
		t.Fatalf("got %d, want 0 (red)", gotSame)
	}
}

func TestFungibleIntegersAcrossWidth(t *testing.T) {
	w := streambuf.NewByteWriter()
	if err := Write(int32(42), w); err != nil {
		t.Fatal(err)
	}
	var got int64
	r := streambuf.NewByteReader(w.Bytes(), nil)
	if err := Read(&got, r); err != nil {
		t.Fatalf("reading int32 bytes into int64: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

type closerHandle struct{ closed bool }

func (h *closerHandle) Close() error {
	h.closed = true
	return nil
}

// TestHandleReferenceRoundTrip exercises the §4.H Handle production: the
// reference travels inline on the wire while the handle itself only ever
// lives in the paired side table.
func TestHandleReferenceRoundTrip(t *testing.T) {
	w := streambuf.NewByteWriter()
	h := &closerHandle{}
	ref, err := w.PushHandle(h)
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(ref, w); err != nil {
		t.Fatal(err)
	}
	if !bytesEqual([]byte{byte(wire.Handle)}, w.Bytes()[:1]) {
		t.Fatalf("got prefix %#x, want wire.Handle", w.Bytes()[0])
	}

	r := streambuf.NewByteReader(w.Bytes(), w.Handles())
	var gotRef handle.Reference
	if err := Read(&gotRef, r); err != nil {
		t.Fatal(err)
	}
	got, err := r.GetHandle(gotRef)
	if err != nil {
		t.Fatal(err)
	}
	if got.(*closerHandle) != h {
		t.Fatalf("GetHandle returned a different handle than was pushed")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

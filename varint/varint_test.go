package varint

import (
	"bytes"
	"testing"

	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/wire"
)

// TestUintCompaction is scenario S1 from spec §8: encoding the unsigned 300
// produces [U16_prefix, 0x2C, 0x01]; decoding into a wider target succeeds.
func TestUintCompaction(t *testing.T) {
	w := streambuf.NewByteWriter()
	if err := EncodeUint(w, 300); err != nil {
		t.Fatal(err)
	}
	want := []byte{byte(wire.U16), 0x2c, 0x01}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}

	r := streambuf.NewByteReader(w.Bytes(), nil)
	v, class, err := DecodeUint(r)
	if err != nil {
		t.Fatal(err)
	}
	if v != 300 {
		t.Fatalf("got %d, want 300", v)
	}
	if !MatchWidth(class, 8) {
		t.Fatalf("expected U16 class to fit a 64-bit target")
	}
	if MatchWidth(class, 1) {
		t.Fatalf("expected U16 class to NOT fit an 8-bit target")
	}
}

func TestUintRoundTripAllClasses(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 256, 65535, 65536, 1 << 31, 1<<32 - 1, 1 << 32, 1<<64 - 1}
	for _, v := range values {
		w := streambuf.NewByteWriter()
		if err := EncodeUint(w, v); err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		if w.Len() != SizeUint(v) {
			t.Fatalf("encode %d: wrote %d bytes, Size() says %d", v, w.Len(), SizeUint(v))
		}
		r := streambuf.NewByteReader(w.Bytes(), nil)
		got, _, err := DecodeUint(r)
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestIntRoundTripAllClasses(t *testing.T) {
	values := []int64{0, 1, -1, 127, -32, -33, -128, 128, -129, 32767, -32768, 32768,
		1<<31 - 1, -1 << 31, 1 << 31, -1 << 62, 1<<63 - 1, -1 << 63}
	for _, v := range values {
		w := streambuf.NewByteWriter()
		if err := EncodeInt(w, v); err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		if w.Len() != SizeInt(v) {
			t.Fatalf("encode %d: wrote %d bytes, Size() says %d", v, w.Len(), SizeInt(v))
		}
		r := streambuf.NewByteReader(w.Bytes(), nil)
		got, _, err := DecodeInt(r)
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

// TestFixIntSingleByte is scenario S2's integer half: PosFixInt 1 and
// NegFixInt -1 each encode as a single byte.
func TestFixIntSingleByte(t *testing.T) {
	w := streambuf.NewByteWriter()
	if err := EncodeInt(w, 1); err != nil {
		t.Fatal(err)
	}
	if err := EncodeInt(w, -1); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0xff}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}
}

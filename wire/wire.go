// Package wire defines the NOP prefix-byte grammar: the fixed table of
// EncodingByte values and the size-class ranges that let a reader determine
// the parse continuation from a single leading byte (spec §4.C, §6).
//
// The exact byte assignments are part of this module's wire ABI once fixed;
// spec §9 Open Question (a) calls out that a reimplementation claiming wire
// compatibility must adopt them verbatim. They are fixed here, once.
package wire

// Byte is the leading byte of an encoded frame (spec's EncodingByte).
type Byte byte

// Fixed-integer ranges: a PosFixInt or NegFixInt frame is exactly one byte,
// and the value is recovered directly from the byte without a payload.
const (
	PosFixIntMin Byte = 0x00
	PosFixIntMax Byte = 0x7f

	// Control bytes name every non-fixint kind. 0x80-0xdf leaves 96 codes
	// for the ~20 named kinds below with generous room to grow.
	controlMin Byte = 0x80
	controlMax Byte = 0xdf

	NegFixIntMin Byte = 0xe0
	NegFixIntMax Byte = 0xff
)

// Control byte assignments. Concrete values are the module's ABI; treat
// changing any of them as a breaking change.
const (
	Nil       Byte = 0x80
	BoolFalse Byte = 0x81
	BoolTrue  Byte = 0x82
	U8        Byte = 0x83
	U16       Byte = 0x84
	U32       Byte = 0x85
	U64       Byte = 0x86
	I8        Byte = 0x87
	I16       Byte = 0x88
	I32       Byte = 0x89
	I64       Byte = 0x8a
	F32       Byte = 0x8b
	F64       Byte = 0x8c
	String    Byte = 0x8d
	Binary    Byte = 0x8e
	Array     Byte = 0x8f
	Map       Byte = 0x90
	Table     Byte = 0x91
	Structure Byte = 0x92
	Variant   Byte = 0x93
	Handle    Byte = 0x94
)

// Kind groups related prefix bytes so dispatch code can switch on a small
// enum instead of repeating byte-range comparisons everywhere, the way
// binaryPeekControl's single range check stands in for the teacher's
// scattered inline comparisons.
type Kind int

const (
	KindUnknown Kind = iota
	KindPosFixInt
	KindNegFixInt
	KindNil
	KindBool
	KindUint
	KindInt
	KindFloat
	KindString
	KindBinary
	KindArray
	KindMap
	KindTable
	KindStructure
	KindVariant
	KindHandle
)

var controlKinds = map[Byte]Kind{
	Nil:       KindNil,
	BoolFalse: KindBool,
	BoolTrue:  KindBool,
	U8:        KindUint,
	U16:       KindUint,
	U32:       KindUint,
	U64:       KindUint,
	I8:        KindInt,
	I16:       KindInt,
	I32:       KindInt,
	I64:       KindInt,
	F32:       KindFloat,
	F64:       KindFloat,
	String:    KindString,
	Binary:    KindBinary,
	Array:     KindArray,
	Map:       KindMap,
	Table:     KindTable,
	Structure: KindStructure,
	Variant:   KindVariant,
	Handle:    KindHandle,
}

// KindOf classifies a prefix byte.
func KindOf(b Byte) Kind {
	switch {
	case b >= PosFixIntMin && b <= PosFixIntMax:
		return KindPosFixInt
	case b >= NegFixIntMin && b <= NegFixIntMax:
		return KindNegFixInt
	default:
		if k, ok := controlKinds[b]; ok {
			return k
		}
		return KindUnknown
	}
}

// IsFixInt reports whether b is a one-byte fixint frame (positive or
// negative) and, if so, decodes its value.
func IsFixInt(b Byte) (value int64, ok bool) {
	switch {
	case b >= PosFixIntMin && b <= PosFixIntMax:
		return int64(b), true
	case b >= NegFixIntMin && b <= NegFixIntMax:
		return int64(int8(b)), true
	default:
		return 0, false
	}
}

// FixIntByte returns the single-byte encoding of v, if v fits in a fixint.
func FixIntByte(v int64) (Byte, bool) {
	switch {
	case v >= int64(PosFixIntMin) && v <= int64(PosFixIntMax):
		return Byte(v), true
	case v >= -32 && v < 0:
		return Byte(int8(v)), true
	default:
		return 0, false
	}
}

// UintClassOrder lists the unsigned integer control bytes from narrowest to
// widest.
var UintClassOrder = []Byte{U8, U16, U32, U64}

// IntClassOrder lists the signed integer control bytes from narrowest to
// widest.
var IntClassOrder = []Byte{I8, I16, I32, I64}

// ClassWidth returns the payload byte width (excluding the prefix) of a
// fixed-width integer or float control byte, or 0 if b is not one of those.
func ClassWidth(b Byte) int {
	switch b {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

package schema

import "reflect"

// Fungible implements spec §3/§4.F's structural equivalence relation:
// whether a and b share the same wire production, so that bytes written as
// a are of the shape a reader of b expects. Array-like containers are
// compared by element type only; a fixed array still rejects a payload whose
// element count differs from its length. The codec's Read does not call
// Fungible; it is a query for callers.
func Fungible(a, b reflect.Type) bool {
	if a == b {
		return true
	}

	if ae, aok := containerElem(a); aok {
		be, bok := containerElem(b)
		// Byte-element containers use the Binary production, all others Array.
		return bok && (ae.Kind() == reflect.Uint8) == (be.Kind() == reflect.Uint8) && Fungible(ae, be)
	}

	// An enum-declared integer is written as its table entry, not as an integer.
	_, aEnum := LookupEnum(a)
	_, bEnum := LookupEnum(b)
	if aEnum || bEnum {
		return aEnum && bEnum
	}

	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return isSignedInt(b.Kind())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return isUnsignedInt(b.Kind())
	case reflect.Float32, reflect.Float64:
		// Unlike integers, float32/float64 are not fungible with each other:
		// the codecs Match only their own exact F32/F64 prefix (no width
		// promotion on read), so claiming cross-width equivalence here would
		// describe a wire behavior the format doesn't actually have.
		return b.Kind() == a.Kind()
	case reflect.Bool:
		return b.Kind() == reflect.Bool
	case reflect.String:
		return b.Kind() == reflect.String
	}

	if a.Kind() == reflect.Struct && b.Kind() == reflect.Struct {
		if aAlts, aok := optionalOrResultAlts(a); aok {
			if bAlts, bok := optionalOrResultAlts(b); bok {
				return altsFungible(aAlts, bAlts)
			}
			return false
		}
		return structsFungible(a, b)
	}

	return false
}

// VariantAlternatives reports whether rt is a variant.Optional[T] or
// variant.Result[E, T] instantiation and, if so, its alternative type
// list, in declared order. It is the exported form of the shape test
// Fungible uses.
func VariantAlternatives(rt reflect.Type) ([]reflect.Type, bool) { return optionalOrResultAlts(rt) }

// optionalOrResultAlts recognizes variant.Optional[T] (alternatives: T) and
// variant.Result[E, T] (alternatives: E, T) by field shape, since Go
// generics give each instantiation a distinct reflect.Type with no common
// marker interface to switch on.
func optionalOrResultAlts(rt reflect.Type) ([]reflect.Type, bool) {
	switch rt.NumField() {
	case 2:
		if rt.Field(0).Name == "has" && rt.Field(0).Type.Kind() == reflect.Bool &&
			rt.Field(1).Name == "value" {
			return []reflect.Type{rt.Field(1).Type}, true
		}
	case 3:
		if rt.Field(0).Name == "has" && rt.Field(0).Type.Kind() == reflect.Bool &&
			rt.Field(1).Name == "err" && rt.Field(2).Name == "value" {
			return []reflect.Type{rt.Field(1).Type, rt.Field(2).Type}, true
		}
	}
	return nil, false
}

func altsFungible(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Fungible(a[i], b[i]) {
			return false
		}
	}
	return true
}

func isSignedInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsignedInt(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// containerElem unifies slices, fixed arrays, and LogicalBuffer[E] into a
// single "array-like of element type" shape, so all three are mutually
// fungible when their element types are (spec §4.F: "Logical buffers are
// fungible with other array-like types").
func containerElem(rt reflect.Type) (reflect.Type, bool) {
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return rt.Elem(), true
	case reflect.Struct:
		if et, ok := logicalBufferElem(rt); ok {
			return et, true
		}
	}
	return nil, false
}

// LogicalBufferElem reports whether rt is a schema.LogicalBuffer[E]
// instantiation and, if so, its element type E. Exported for codec's
// buildCodec, which needs the same shape test to dispatch to the
// logical-buffer codec before falling into the plain-struct path.
func LogicalBufferElem(rt reflect.Type) (reflect.Type, bool) { return logicalBufferElem(rt) }

func logicalBufferElem(rt reflect.Type) (reflect.Type, bool) {
	if rt.NumField() != 2 {
		return nil, false
	}
	bufField := rt.Field(0)
	sizeField := rt.Field(1)
	if bufField.Name != "Buffer" || bufField.Type.Kind() != reflect.Slice {
		return nil, false
	}
	if sizeField.Name != "Size" || sizeField.Type.Kind() != reflect.Int {
		return nil, false
	}
	return bufField.Type.Elem(), true
}

func structsFungible(a, b reflect.Type) bool {
	da, aok := Lookup(a)
	db, bok := Lookup(b)
	if !aok || !bok {
		return false
	}
	if da.NumMembers() != db.NumMembers() {
		return false
	}
	ma, mb := da.Members(), db.Members()
	for i := range ma {
		if !Fungible(ma[i].MemberField.Type, mb[i].MemberField.Type) {
			return false
		}
	}
	return true
}

package variant

import "reflect"

// Optional is the two-alternative façade over Variant<Empty, T> (spec
// §4.G): implemented directly as a tagged struct rather than wrapping a
// *Variant, giving the identical wire shape with no reflect overhead on the
// hot path. schema.Fungible compares two Optionals by their single
// alternative type T.
type Optional[T any] struct {
	has   bool
	value T
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{has: true, value: v} }

// None returns an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// IsPresent reports whether the Optional holds a value.
func (o Optional[T]) IsPresent() bool { return o.has }

// Get returns the held value and true, or the zero value and false when
// absent.
func (o Optional[T]) Get() (T, bool) { return o.value, o.has }

// Set stores v and marks the Optional present.
func (o *Optional[T]) Set(v T) { o.has = true; o.value = v }

// Clear marks the Optional absent.
func (o *Optional[T]) Clear() { o.has = false; var zero T; o.value = zero }

// OptionalReader is the read-only type-erased view of an Optional[T],
// satisfied by value receivers so it works on a non-addressable copy (the
// write path's case).
type OptionalReader interface {
	OptionalElemType() reflect.Type
	OptionalGet() (any, bool)
}

// AnyOptional additionally exposes mutators, satisfied only by *Optional[T]
// since Go excludes pointer-receiver methods from a value's method set;
// codec.buildCodec detects Optional[T] by probing for this on *T, and the
// read (decode) path requires an addressable Optional[T] to use it.
type AnyOptional interface {
	OptionalReader
	OptionalSet(v any)
	OptionalClear()
}

func (o Optional[T]) OptionalElemType() reflect.Type {
	var zero T
	return reflect.TypeOf(&zero).Elem()
}

func (o Optional[T]) OptionalGet() (any, bool) {
	if !o.has {
		return nil, false
	}
	return o.value, true
}

func (o *Optional[T]) OptionalSet(v any) {
	o.has = true
	o.value = v.(T)
}

func (o *Optional[T]) OptionalClear() {
	o.has = false
	var zero T
	o.value = zero
}

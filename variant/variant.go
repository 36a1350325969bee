// Package variant implements the closed tagged union family from spec §4.G:
// Variant itself, plus the Optional and Result façades over it. Ported in
// spirit from original_source/include/nop/types/variant.h, adapted to Go's
// lack of templates by resolving alternatives through reflect.Type at
// NewVariant time instead of at compile time.
package variant

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
)

// EmptyIndex is the index reported by an empty Variant.
const EmptyIndex = -1

// Variant is a dynamic, arbitrary-arity closed tagged union. The set of
// alternative types is fixed at construction and never changes afterward.
type Variant struct {
	types []reflect.Type
	index int
	value any
}

// NewVariant returns an empty Variant over the given alternative types. It
// panics if any two alternatives are identical, since EmplaceValue's
// direct-member lookup would then be ambiguous (spec §4.G: "ambiguity
// rejected at declaration time").
func NewVariant(types ...reflect.Type) *Variant {
	seen := make(map[reflect.Type]bool, len(types))
	for _, t := range types {
		if seen[t] {
			panic("variant: duplicate alternative type " + t.String())
		}
		seen[t] = true
	}
	return &Variant{types: types, index: EmptyIndex}
}

// Types returns the declared alternative list, in declared order.
func (v *Variant) Types() []reflect.Type { return v.types }

// Index returns the active alternative's index, or EmptyIndex if empty.
func (v *Variant) Index() int { return v.index }

// Empty reports whether no alternative is active.
func (v *Variant) Empty() bool { return v.index == EmptyIndex }

// Value returns the active value as any, or nil when empty.
func (v *Variant) Value() any { return v.value }

// Emplace sets the Variant to alternative i holding val, which must be
// assignable to that alternative's declared type.
func (v *Variant) Emplace(i int, val any) error {
	if i < 0 || i >= len(v.types) {
		return errors.New(errors.InvalidContainerLength, "variant: index %d out of range for %d alternatives", i, len(v.types))
	}
	rv := reflect.ValueOf(val)
	if !rv.IsValid() || !rv.Type().AssignableTo(v.types[i]) {
		return errors.New(errors.UnexpectedEncodingType, "variant: value of type %T is not assignable to alternative %d (%s)", val, i, v.types[i])
	}
	v.index = i
	v.value = val
	return nil
}

// EmplaceValue sets the Variant to whichever alternative val's dynamic type
// matches directly (spec §4.G: "direct member preferred over conversion").
// It returns UnexpectedEncodingType if val's type is not one of the
// declared alternatives.
func (v *Variant) EmplaceValue(val any) error {
	rt := reflect.TypeOf(val)
	for i, t := range v.types {
		if t == rt {
			v.index = i
			v.value = val
			return nil
		}
	}
	return errors.New(errors.UnexpectedEncodingType, "variant: type %T is not a declared alternative", val)
}

// Become sets the Variant to alternative i holding val. Unlike Emplace, a
// failure to construct the target alternative leaves the Variant silently
// empty rather than returning an error, preserved verbatim from the C++
// contract (spec §9, decision (c)).
func (v *Variant) Become(i int, val any) {
	if err := v.Emplace(i, val); err != nil {
		v.index = EmptyIndex
		v.value = nil
	}
}

// Get returns the active value as T and true if alternative T is active,
// else the zero value and false.
func Get[T any](v *Variant) (T, bool) {
	var zero T
	if v.Empty() {
		return zero, false
	}
	t, ok := v.value.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// EmptySentinel is passed to a Visit callback in place of a value when the
// Variant being visited is empty.
type EmptySentinel struct{}

// Visit invokes fn on the active value, or on EmptySentinel{} at index -1
// when the Variant is empty, and returns fn's result.
func (v *Variant) Visit(fn func(i int, val any) any) any {
	if v.Empty() {
		return fn(EmptyIndex, EmptySentinel{})
	}
	return fn(v.index, v.value)
}

// FungibleWith reports whether v's alternative list is covariant with
// other's: every one of v's alternatives has a fungible counterpart in
// other, under the given structural-equivalence predicate (spec §3:
// "variant.Variant fungible across fungible alternative lists
// (covariant)"). This is a runtime check because a Variant's alternative
// list lives in the value, not in its Go type, unlike Optional/Result.
func (v *Variant) FungibleWith(other *Variant, fungible func(a, b reflect.Type) bool) bool {
	for _, at := range v.types {
		ok := false
		for _, bt := range other.types {
			if fungible(at, bt) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// IfAnyOf calls fn with the active value and returns (result, true) when
// the active index is one of allowed; otherwise fn is not invoked and it
// returns (nil, false) (spec §4.G's IfAnyOf<S...> combinator).
func IfAnyOf(v *Variant, allowed []int, fn func(any) any) (any, bool) {
	for _, i := range allowed {
		if i == v.index {
			return fn(v.value), true
		}
	}
	return nil, false
}

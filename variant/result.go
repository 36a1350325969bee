package variant

import "reflect"

// ErrorValue is the constraint §3 places on Result's error alternative: "E
// must carry a distinguished 'no error' value".
type ErrorValue interface {
	None() bool
}

// Result is the three-alternative façade over Variant<Empty, E, T> (spec
// §4.G): a default Result is empty (E's zero value must report None()), Err
// sets the error alternative, Ok sets the value alternative. Like Optional,
// it is a tagged struct rather than a *Variant wrapper.
type Result[E ErrorValue, T any] struct {
	has   bool
	err   E
	value T
}

// Ok returns a Result holding the success value v.
func Ok[E ErrorValue, T any](v T) Result[E, T] {
	return Result[E, T]{has: true, value: v}
}

// Err returns a Result holding the error value e. A Result constructed with
// a "no error" e (e.None() == true) is an empty Result, neither an error nor
// a success one: callers that want a success Result must use Ok.
func Err[E ErrorValue, T any](e E) Result[E, T] {
	return Result[E, T]{has: false, err: e}
}

// IsOk reports whether the Result holds a success value.
func (r Result[E, T]) IsOk() bool { return r.has }

// IsEmpty reports whether the Result holds neither a value nor an error,
// i.e. e.None() on whatever was last assigned to the error alternative.
func (r Result[E, T]) IsEmpty() bool { return !r.has && r.err.None() }

// Value returns the success value and true, or the zero value and false.
func (r Result[E, T]) Value() (T, bool) { return r.value, r.has }

// Error returns the error value and true when the Result holds a non-empty
// error, or the zero E and false otherwise.
func (r Result[E, T]) Error() (E, bool) {
	if r.has || r.err.None() {
		var zero E
		return zero, false
	}
	return r.err, true
}

// ResultState enumerates the three Variant<empty, E, T> alternatives a
// Result can occupy.
type ResultState int

const (
	ResultEmpty ResultState = iota
	ResultErr
	ResultOk
)

// ResultReader is the read-only type-erased view of a Result[E, T],
// satisfied by value receivers so it works on a non-addressable copy.
type ResultReader interface {
	ResultTypes() (errType, valType reflect.Type)
	ResultState() (ResultState, any)
}

// AnyResult additionally exposes mutators, satisfied only by
// *Result[E, T]; see AnyOptional for why the split exists.
type AnyResult interface {
	ResultReader
	ResultSetOk(v any)
	ResultSetErr(e any)
	ResultSetEmpty()
}

func (r Result[E, T]) ResultTypes() (errType, valType reflect.Type) {
	var e E
	var t T
	return reflect.TypeOf(&e).Elem(), reflect.TypeOf(&t).Elem()
}

func (r Result[E, T]) ResultState() (ResultState, any) {
	if r.has {
		return ResultOk, r.value
	}
	if r.err.None() {
		return ResultEmpty, nil
	}
	return ResultErr, r.err
}

func (r *Result[E, T]) ResultSetOk(v any) {
	r.has = true
	r.value = v.(T)
}

func (r *Result[E, T]) ResultSetErr(e any) {
	r.has = false
	r.err = e.(E)
}

func (r *Result[E, T]) ResultSetEmpty() {
	r.has = false
	var zero E
	r.err = zero
}

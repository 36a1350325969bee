package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// Tuple is a fixed-arity heterogeneous sequence, the "tuples" built-in spec
// §4.E names without pinning a wire shape; it structurally matches the
// Array grammar, so that is what it uses. rpc's RequestFrame uses Tuple to
// carry a method's argument list without requiring every method signature
// to be a separately declared struct. The Array production carries no slot
// types, so a Tuple is read back only into a Tuple declared with them.
type Tuple struct {
	Types  []reflect.Type
	Values []any
}

// NewTuple returns a Tuple with arity len(types), every slot initially nil.
func NewTuple(types ...reflect.Type) *Tuple {
	return &Tuple{Types: types, Values: make([]any, len(types))}
}

// Set stores v in slot i.
func (t *Tuple) Set(i int, v any) { t.Values[i] = v }

// Get returns the value in slot i.
func (t *Tuple) Get(i int) any { return t.Values[i] }

// Len reports the tuple's declared arity.
func (t Tuple) Len() int { return len(t.Types) }

type tupleCodec struct{}

func (tupleCodec) Prefix(Tuple) wire.Byte { return wire.Array }

// slotValue returns the reflect.Value to encode for slot i: the stored
// value if Set was ever called, or the declared type's zero value for an
// untouched (nil) slot, so a tuple with unset slots encodes its declared
// shape instead of panicking on reflect.ValueOf(nil).
func (t Tuple) slotValue(i int) reflect.Value {
	if t.Values[i] == nil {
		return reflect.Zero(t.Types[i])
	}
	return reflect.ValueOf(t.Values[i])
}

func (tupleCodec) Size(t Tuple) int {
	total := varint.SizeUint(uint64(len(t.Types)))
	for i, typ := range t.Types {
		c, err := resolve(typ)
		if err != nil {
			continue
		}
		total += 1 + c.size(t.slotValue(i))
	}
	return total
}

func (tupleCodec) WritePayload(prefix wire.Byte, t Tuple, w streambuf.Writer) error {
	if err := varint.EncodeUint(w, uint64(len(t.Types))); err != nil {
		return err
	}
	for i, typ := range t.Types {
		c, err := resolve(typ)
		if err != nil {
			return err
		}
		if err := writeReflect(c, t.slotValue(i), w, 0); err != nil {
			return err
		}
	}
	return nil
}

func (tupleCodec) ReadPayload(prefix wire.Byte, t *Tuple, r streambuf.Reader) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	if int(n) != len(t.Types) {
		return errors.New(errors.InvalidMemberCount, "tuple has %d slots, got %d on the wire", len(t.Types), n)
	}
	t.Values = make([]any, n)
	for i := 0; i < int(n); i++ {
		c, err := resolve(t.Types[i])
		if err != nil {
			return err
		}
		out := reflect.New(t.Types[i]).Elem()
		if err := readReflect(c, out, r, 0); err != nil {
			return err
		}
		t.Values[i] = out.Interface()
	}
	return nil
}

func (tupleCodec) Match(prefix wire.Byte) bool { return prefix == wire.Array }

func init() {
	Register[Tuple](tupleCodec{})
}

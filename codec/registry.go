// Package codec implements the type-directed dispatch that drives NOP's
// wire encoding (spec §4.E) and the Serializer/Deserializer façade built on
// top of it (spec §4.J).
//
// Go has no ad-hoc template specialization, so the dispatch described in
// spec §9 ("model the Encoding<T> capability as a trait/interface
// implemented per type... for user records, generate the implementation
// from a declaration") is built as a registry keyed by reflect.Type,
// populated at init() and on each type's first resolve, and never mutated from
// decoded data (spec §9: "no runtime type map is required" on the wire;
// this table is a Go-side dispatch aid only, playing the same role the
// teacher's vReflectTypeCache/customTypeCache hash-consing tables play for
// vom.Type lookups).
package codec

import (
	"reflect"
	"sync"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/schema"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/variant"
	"github.com/vincentlao/libnop/wire"
)

// Codec is the four-operation-plus-Match capability spec §3/§4.E assigns to
// every type: Prefix picks the leading byte, Size reports the exact byte
// count WritePayload would emit after the prefix (the prefix byte itself is
// not counted), WritePayload/ReadPayload handle everything after
// the prefix, and Match tells the dispatcher whether a given prefix byte
// belongs to this codec at all.
type Codec[T any] interface {
	Prefix(v T) wire.Byte
	Size(v T) int
	WritePayload(prefix wire.Byte, v T, w streambuf.Writer) error
	ReadPayload(prefix wire.Byte, v *T, r streambuf.Reader) error
	Match(prefix wire.Byte) bool
}

// anyCodec is the type-erased, reflect.Value-based form every Codec[T] is
// adapted into so the registry can hold codecs for heterogeneous types in
// one map.
type anyCodec interface {
	prefix(v reflect.Value) wire.Byte
	size(v reflect.Value) int
	writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error
	readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error
	match(prefix wire.Byte) bool
}

type adapter[T any] struct{ c Codec[T] }

func (a adapter[T]) prefix(v reflect.Value) wire.Byte { return a.c.Prefix(v.Interface().(T)) }
func (a adapter[T]) size(v reflect.Value) int         { return a.c.Size(v.Interface().(T)) }
func (a adapter[T]) match(prefix wire.Byte) bool      { return a.c.Match(prefix) }

func (a adapter[T]) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	return a.c.WritePayload(prefix, v.Interface().(T), w)
}

func (a adapter[T]) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	// Decode starts from the target's current value, so a Variant's declared
	// alternatives and a Tuple's declared slot types reach ReadPayload.
	out := v.Interface().(T)
	if err := a.c.ReadPayload(prefix, &out, r); err != nil {
		return err
	}
	v.Set(reflect.ValueOf(out))
	return nil
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]anyCodec{}
)

// Register installs c as the codec for T, overwriting any previously
// registered codec. Built-ins call this from init(); codecs for declared
// user structs are built by resolve on first use, not registered here.
func Register[T any](c Codec[T]) {
	var zero T
	rt := reflect.TypeOf(zero)
	registryMu.Lock()
	registry[rt] = adapter[T]{c}
	registryMu.Unlock()
}

// registerDynamic installs a reflect-based anyCodec directly, used by the
// container/struct resolvers below which synthesize a codec per concrete
// reflect.Type rather than per Go-generic T.
func registerDynamic(rt reflect.Type, c anyCodec) {
	registryMu.Lock()
	registry[rt] = c
	registryMu.Unlock()
}

func lookup(rt reflect.Type) (anyCodec, bool) {
	registryMu.RLock()
	c, ok := registry[rt]
	registryMu.RUnlock()
	return c, ok
}

// resolve returns the codec for rt, synthesizing and memoizing one for
// slice/array/map/struct kinds and named basic kinds that have no
// explicitly registered codec.
// This mirrors newVReflectType's hash-consing: build once, cache forever.
func resolve(rt reflect.Type) (anyCodec, error) {
	if c, ok := lookup(rt); ok {
		return c, nil
	}
	c, err := buildCodec(rt)
	if err != nil {
		return nil, err
	}
	registerDynamic(rt, c)
	return c, nil
}

func buildCodec(rt reflect.Type) (anyCodec, error) {
	switch rt.Kind() {
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return bytesSliceCodec{}, nil
		}
		elemCodec, err := resolve(rt.Elem())
		if err != nil {
			return nil, err
		}
		return sliceCodec{elem: elemCodec, elemType: rt.Elem()}, nil
	case reflect.Array:
		elemCodec, err := resolve(rt.Elem())
		if err != nil {
			return nil, err
		}
		return arrayCodec{elem: elemCodec, elemType: rt.Elem(), length: rt.Len(), integral: isIntegral(rt.Elem())}, nil
	case reflect.Map:
		keyCodec, err := resolve(rt.Key())
		if err != nil {
			return nil, err
		}
		valCodec, err := resolve(rt.Elem())
		if err != nil {
			return nil, err
		}
		return mapCodec{key: keyCodec, keyType: rt.Key(), val: valCodec, valType: rt.Elem()}, nil
	case reflect.Struct:
		if elem, ok := schema.LogicalBufferElem(rt); ok {
			elemCodec, err := resolve(elem)
			if err != nil {
				return nil, err
			}
			return logicalBufferCodec{elem: elemCodec, elemType: elem, integral: isIntegral(elem)}, nil
		}
		if _, ok := reflect.New(rt).Interface().(variant.AnyOptional); ok {
			return optionalCodec{}, nil
		}
		if _, ok := reflect.New(rt).Interface().(variant.AnyResult); ok {
			return resultCodec{}, nil
		}
		return buildStructCodec(rt)
	case reflect.Bool:
		return namedBoolCodec{}, nil
	case reflect.String:
		return namedStringCodec{}, nil
	case reflect.Float32:
		return namedFloat32Codec{}, nil
	case reflect.Float64:
		return namedFloat64Codec{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if e, ok := schema.LookupEnum(rt); ok {
			return enumCodec{table: e}, nil
		}
		return namedIntCodec{width: intWidth(rt.Kind())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if e, ok := schema.LookupEnum(rt); ok {
			return enumCodec{table: e}, nil
		}
		return namedUintCodec{width: uintWidth(rt.Kind())}, nil
	default:
		return nil, errors.New(errors.UnexpectedEncodingType, "no codec registered for type %s", rt)
	}
}

func isIntegral(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Uint8:
		return true
	default:
		return false
	}
}

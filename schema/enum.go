package schema

import (
	"reflect"
	"sync"
)

// EnumTable is the declared name<->ordinal mapping for an enum-like integer
// type (SPEC_FULL §3.2/§3.6's "value/enum tables", ported in spirit from
// original_source's enum support, which spec.md names but never details).
// DeclareEnum assigns successive ordinals in declared order, the same way a
// C enum's first member defaults to 0 absent an explicit initializer.
type EnumTable struct {
	Type          reflect.Type
	names         []string
	nameToOrdinal map[string]int64
	ordinalToName map[int64]string
}

// NameOf returns the declared name for ordinal, if any.
func (e *EnumTable) NameOf(ordinal int64) (string, bool) {
	n, ok := e.ordinalToName[ordinal]
	return n, ok
}

// OrdinalOf returns the declared ordinal for name, if any.
func (e *EnumTable) OrdinalOf(name string) (int64, bool) {
	o, ok := e.nameToOrdinal[name]
	return o, ok
}

// Names returns the declared names in declared order.
func (e *EnumTable) Names() []string { return e.names }

var (
	enumMu    sync.RWMutex
	enumDecls = map[reflect.Type]*EnumTable{}
)

// DeclareEnum registers T (an integer-kind type) as an enum with the given
// names, ordinals 0..len(names)-1 in declared order. It panics if T is not
// an integer kind, the same declare-time contract Declare enforces on a bad
// field name.
func DeclareEnum[T any](names ...string) *EnumTable {
	var zero T
	rt := reflect.TypeOf(zero)
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		panic("schema: DeclareEnum requires an integer-kind type, got " + rt.String())
	}
	e := &EnumTable{
		Type:          rt,
		names:         names,
		nameToOrdinal: make(map[string]int64, len(names)),
		ordinalToName: make(map[int64]string, len(names)),
	}
	for i, n := range names {
		ord := int64(i)
		e.nameToOrdinal[n] = ord
		e.ordinalToName[ord] = n
	}
	enumMu.Lock()
	enumDecls[rt] = e
	enumMu.Unlock()
	return e
}

// LookupEnum returns the EnumTable registered for rt, if any.
func LookupEnum(rt reflect.Type) (*EnumTable, bool) {
	enumMu.RLock()
	e, ok := enumDecls[rt]
	enumMu.RUnlock()
	return e, ok
}

// Package rpc implements the interface/method declaration, request/response
// framing, and reflective dispatch described in spec §4.I, grounded on the
// teacher's ipc.ReflectInvoker/ipc.Dispatcher and rpc/model.go.
package rpc

import (
	"reflect"

	"github.com/dchest/siphash"
	"github.com/vincentlao/libnop/errors"
)

// Method is one entry in an Interface: a name plus its argument-tuple and
// return types, normally generated struct types via schema.Declare (spec
// §4.I: "a signature (return type, argument tuple)").
type Method struct {
	Name string
	In   reflect.Type
	Out  reflect.Type

	selector uint64
}

// Selector returns the method's computed selector, valid only after the
// Method has been passed to NewInterface.
func (m Method) Selector() uint64 { return m.selector }

// Interface is a compile-time record (id, methods), spec §4.I.
type Interface struct {
	ID      string
	Methods []Method

	bySelector map[uint64]int
}

// Selector computes the spec §6 method selector:
// sip24(key0=0, key1=0, message = interfaceID ++ 0x00 ++ methodName).
func Selector(interfaceID, methodName string) uint64 {
	msg := make([]byte, 0, len(interfaceID)+1+len(methodName))
	msg = append(msg, interfaceID...)
	msg = append(msg, 0x00)
	msg = append(msg, methodName...)
	return siphash.Hash(0, 0, msg)
}

// NewInterface computes every method's selector and rejects the
// declaration with DuplicateMethodHash on any collision (spec §4.I, §8
// property 8).
func NewInterface(id string, methods ...Method) (*Interface, error) {
	iface := &Interface{ID: id, Methods: make([]Method, len(methods)), bySelector: make(map[uint64]int, len(methods))}
	for i, m := range methods {
		m.selector = Selector(id, m.Name)
		if existing, dup := iface.bySelector[m.selector]; dup {
			return nil, errors.New(errors.DuplicateMethodHash, "methods %q and %q collide on selector %#x", methods[existing].Name, m.Name, m.selector)
		}
		iface.bySelector[m.selector] = i
		iface.Methods[i] = m
	}
	return iface, nil
}

// Lookup returns the Method registered for selector, if any.
func (iface *Interface) Lookup(selector uint64) (Method, bool) {
	i, ok := iface.bySelector[selector]
	if !ok {
		return Method{}, false
	}
	return iface.Methods[i], true
}

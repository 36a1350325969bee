package schema

import (
	"reflect"
	"sync"
)

// StructDecl is the precomputed member list a declared struct type encodes
// and decodes through; codec.buildStructCodec replays this list on every
// Write/Read instead of re-deriving field order from reflection each time.
type StructDecl struct {
	Type    reflect.Type
	members []ResolvedMember
}

// Members returns the declared members in declared order.
func (d *StructDecl) Members() []ResolvedMember { return d.members }

// NumMembers reports the declared arity, used by codec's InvalidMemberCount
// check and by Fungible.
func (d *StructDecl) NumMembers() int { return len(d.members) }

var (
	declMu sync.RWMutex
	decls  = map[reflect.Type]*StructDecl{}
)

// Declare registers T's wire shape as the given ordered member list (spec
// §4.F's extrinsic declaration path). It panics if a named field does not
// exist on T: a bad declaration is a programmer error caught at init time,
// the same contract vdl.Register enforces on a bad registration.
func Declare[T any](members ...Member) *StructDecl {
	var zero T
	rt := reflect.TypeOf(zero)
	d := &StructDecl{Type: rt}
	for _, m := range members {
		d.members = append(d.members, resolveMember(rt, m))
	}
	declMu.Lock()
	decls[rt] = d
	declMu.Unlock()
	return d
}

// NOPMembers is the intrusive declaration hook: a type implementing it
// supplies its own member list without a separate Declare call.
type NOPMembers interface {
	NOPMembers() []Member
}

// Intrusive declares T from its own NOPMembers method (spec §4.F's
// intrusive path). It panics if T does not implement NOPMembers.
func Intrusive[T any]() *StructDecl {
	var zero T
	nm, ok := any(zero).(NOPMembers)
	if !ok {
		panic("schema: type " + reflect.TypeOf(zero).String() + " does not implement NOPMembers")
	}
	return Declare[T](nm.NOPMembers()...)
}

// Lookup returns the declaration registered for rt, if any.
func Lookup(rt reflect.Type) (*StructDecl, bool) {
	declMu.RLock()
	d, ok := decls[rt]
	declMu.RUnlock()
	return d, ok
}

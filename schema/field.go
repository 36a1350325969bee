// Package schema implements record declaration, LogicalBuffer, and the
// Fungibility relation (spec §4.F). It mirrors the teacher's vdl type
// system and vom's struct_set.go in spirit: a type's wire shape is computed
// once from a declaration and reused on every encode/decode, rather than
// re-derived by reflection on every call.
package schema

import "reflect"

// Field names one member of a declared struct: either a plain value field,
// or (when part of a BufferField) the array half of an array/count pair.
type Field struct {
	Name  string
	Index int
	Type  reflect.Type
}

// BufferField pairs an array-like field with the count field that tracks
// how many of its elements are live, the "logical buffer" pattern from
// spec §4.F.
type BufferField struct {
	Field
	Count Field
}

// Member is the declaration-time description of one struct member, built
// with F or Buf and resolved against a concrete type by Declare.
type Member struct {
	name      string
	countName string // empty for a plain field
}

// F declares a plain field member named name.
func F(name string) Member { return Member{name: name} }

// Buf declares a logical-buffer member: arrayField holds the elements,
// countField holds the live count.
func Buf(arrayField, countField string) Member {
	return Member{name: arrayField, countName: countField}
}

// ResolvedMember is a Member resolved against a concrete struct type: field
// indices looked up once at Declare time instead of by name on every call.
type ResolvedMember struct {
	MemberField Field
	IsBuffer    bool
	CountField  Field
}

func resolveMember(rt reflect.Type, m Member) ResolvedMember {
	sf, ok := rt.FieldByName(m.name)
	if !ok {
		panic("schema: type " + rt.String() + " has no field named " + m.name)
	}
	rm := ResolvedMember{MemberField: Field{Name: sf.Name, Index: sf.Index[0], Type: sf.Type}}
	if m.countName != "" {
		cf, ok := rt.FieldByName(m.countName)
		if !ok {
			panic("schema: type " + rt.String() + " has no count field named " + m.countName)
		}
		rm.IsBuffer = true
		rm.CountField = Field{Name: cf.Name, Index: cf.Index[0], Type: cf.Type}
	}
	return rm
}

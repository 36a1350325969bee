package schema

import (
	"reflect"
	"testing"
)

type point struct {
	X int32
	Y int32
}

type point64 struct {
	X int64
	Y int64
}

type namedPoint struct {
	X int32
	Y int32
	Z int32
}

func TestDeclareAndLookup(t *testing.T) {
	d := Declare[point](F("X"), F("Y"))
	got, ok := Lookup(reflect.TypeOf(point{}))
	if !ok || got != d {
		t.Fatalf("Lookup did not return the declared StructDecl")
	}
	if got.NumMembers() != 2 {
		t.Fatalf("got %d members, want 2", got.NumMembers())
	}
}

func TestDeclarePanicsOnMissingField(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on bad field name")
		}
	}()
	Declare[point](F("DoesNotExist"))
}

type bufHolder struct {
	Items []int32
	Count int
}

func TestDeclareBufferMember(t *testing.T) {
	d := Declare[bufHolder](Buf("Items", "Count"))
	m := d.Members()[0]
	if !m.IsBuffer {
		t.Fatalf("expected IsBuffer true")
	}
	if m.CountField.Name != "Count" {
		t.Fatalf("got count field %q, want Count", m.CountField.Name)
	}
}

type intrusivePoint struct {
	X, Y int32
}

func (intrusivePoint) NOPMembers() []Member { return []Member{F("X"), F("Y")} }

func TestIntrusiveDeclaration(t *testing.T) {
	d := Intrusive[intrusivePoint]()
	if d.NumMembers() != 2 {
		t.Fatalf("got %d members, want 2", d.NumMembers())
	}
}

func TestIntrusivePanicsWithoutNOPMembers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Intrusive[point]()
}

func TestFungibleScalars(t *testing.T) {
	cases := []struct {
		a, b reflect.Type
		want bool
	}{
		{reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0)), true},
		{reflect.TypeOf(int32(0)), reflect.TypeOf(uint32(0)), false},
		{reflect.TypeOf(uint8(0)), reflect.TypeOf(uint64(0)), true},
		{reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)), false},
		{reflect.TypeOf(float32(0)), reflect.TypeOf(float32(0)), true},
		{reflect.TypeOf(""), reflect.TypeOf(int32(0)), false},
		{reflect.TypeOf(true), reflect.TypeOf(true), true},
	}
	for _, c := range cases {
		if got := Fungible(c.a, c.b); got != c.want {
			t.Errorf("Fungible(%s, %s) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestFungibleContainers(t *testing.T) {
	sliceType := reflect.TypeOf([]int32(nil))
	arrayType := reflect.TypeOf([3]int64{})
	bufType := reflect.TypeOf(LogicalBuffer[int32]{})
	if !Fungible(sliceType, arrayType) {
		t.Errorf("expected []int32 fungible with [3]int64")
	}
	if !Fungible(sliceType, bufType) {
		t.Errorf("expected []int32 fungible with LogicalBuffer[int32]")
	}
}

func TestFungibleStructsByArityAndMembers(t *testing.T) {
	Declare[point](F("X"), F("Y"))
	Declare[point64](F("X"), F("Y"))
	Declare[namedPoint](F("X"), F("Y"), F("Z"))

	if !Fungible(reflect.TypeOf(point{}), reflect.TypeOf(point64{})) {
		t.Errorf("expected point fungible with point64 (pairwise-fungible members)")
	}
	if Fungible(reflect.TypeOf(point{}), reflect.TypeOf(namedPoint{})) {
		t.Errorf("expected point NOT fungible with namedPoint (different arity)")
	}
}

func TestDeclareEnum(t *testing.T) {
	type status int32
	e := DeclareEnum[status]("pending", "done", "failed")
	if name, ok := e.NameOf(1); !ok || name != "done" {
		t.Fatalf("got %q, %v, want done, true", name, ok)
	}
	if ord, ok := e.OrdinalOf("failed"); !ok || ord != 2 {
		t.Fatalf("got %d, %v, want 2, true", ord, ok)
	}
	if _, ok := e.OrdinalOf("unknown"); ok {
		t.Fatalf("expected unknown name to miss")
	}
}

func TestDeclareEnumPanicsOnNonIntegerType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	DeclareEnum[string]("a", "b")
}

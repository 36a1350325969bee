package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/schema"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// enumCodec implements the Table production for a schema.DeclareEnum'd
// type: prefix, U64 pair count (always 1 — one value has one name), then
// the (name, ordinal) pair. Reading resolves the wire name back to this
// side's own declared ordinal when the name is recognized, so two
// processes built from EnumTable declarations that assign ordinals in a
// different order still interoperate; an unrecognized name falls back to
// the wire ordinal verbatim.
type enumCodec struct{ table *schema.EnumTable }

func (c enumCodec) prefix(reflect.Value) wire.Byte { return wire.Table }

func (c enumCodec) size(v reflect.Value) int {
	ord := intValueOf(v)
	name, _ := c.table.NameOf(ord)
	strCodec, _ := resolve(reflect.TypeOf(""))
	ordCodec, _ := resolve(reflect.TypeOf(int64(0)))
	total := varint.SizeUint(1)
	if strCodec != nil {
		total += 1 + strCodec.size(reflect.ValueOf(name))
	}
	if ordCodec != nil {
		total += 1 + ordCodec.size(reflect.ValueOf(ord))
	}
	return total
}

func (c enumCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	ord := intValueOf(v)
	name, ok := c.table.NameOf(ord)
	if !ok {
		return errors.New(errors.UnexpectedEncodingType, "enum: ordinal %d has no name declared for %s", ord, c.table.Type)
	}
	if err := varint.EncodeUint(w, 1); err != nil {
		return err
	}
	strCodec, err := resolve(reflect.TypeOf(""))
	if err != nil {
		return err
	}
	if err := writeReflect(strCodec, reflect.ValueOf(name), w, depth+1); err != nil {
		return err
	}
	ordCodec, err := resolve(reflect.TypeOf(int64(0)))
	if err != nil {
		return err
	}
	return writeReflect(ordCodec, reflect.ValueOf(ord), w, depth+1)
}

func (c enumCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	if n != 1 {
		return errors.New(errors.InvalidMemberCount, "enum table has %d pairs, want exactly 1", n)
	}
	strCodec, err := resolve(reflect.TypeOf(""))
	if err != nil {
		return err
	}
	var name string
	if err := readReflect(strCodec, reflect.ValueOf(&name).Elem(), r, depth+1); err != nil {
		return err
	}
	ordCodec, err := resolve(reflect.TypeOf(int64(0)))
	if err != nil {
		return err
	}
	var wireOrd int64
	if err := readReflect(ordCodec, reflect.ValueOf(&wireOrd).Elem(), r, depth+1); err != nil {
		return err
	}
	if ord, ok := c.table.OrdinalOf(name); ok {
		setIntValue(v, ord)
		return nil
	}
	setIntValue(v, wireOrd)
	return nil
}

func (c enumCodec) match(prefix wire.Byte) bool { return prefix == wire.Table }

func intValueOf(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	default:
		return int64(v.Uint())
	}
}

func setIntValue(v reflect.Value, n int64) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(n)
	default:
		v.SetUint(uint64(n))
	}
}

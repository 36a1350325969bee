package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/schema"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/wire"
)

// structMember is one declared member's precomputed codec plan. Plain
// members resolve straight to the field's own codec; Buf members (spec §3
// "Structure", §4.F's array/count pair) resolve to the *element* codec and
// carry the sibling count field, mirroring logicalBufferCodec but reading
// the live count from a sibling struct field instead of a Size field on the
// buffer's own value.
type structMember struct {
	field      schema.Field
	codec      anyCodec
	isBuffer   bool
	countField schema.Field
	integral   bool
}

// structCodec implements spec §4.C's Structure production: prefix, U64
// member count, then each declared member in order. A plain member is
// written through its own codec (prefix + payload); a Buf member is written
// as a Binary (integral elements) or Array (everything else) production
// covering only the first CountField elements, never the backing array's
// unused tail. Member order and arity come from the type's schema.Declare
// (or Intrusive) registration; buildStructCodec fails with
// UnexpectedEncodingType if the type was never declared.
type structCodec struct {
	decl    *schema.StructDecl
	members []structMember
}

func buildStructCodec(rt reflect.Type) (anyCodec, error) {
	decl, ok := schema.Lookup(rt)
	if !ok {
		return nil, errors.New(errors.UnexpectedEncodingType, "type %s was never declared via schema.Declare/Intrusive", rt)
	}
	members := make([]structMember, len(decl.Members()))
	for i, m := range decl.Members() {
		if m.IsBuffer {
			elemType := m.MemberField.Type.Elem()
			elemCodec, err := resolve(elemType)
			if err != nil {
				return nil, err
			}
			members[i] = structMember{
				field:      m.MemberField,
				codec:      elemCodec,
				isBuffer:   true,
				countField: m.CountField,
				integral:   isIntegral(elemType),
			}
			continue
		}
		c, err := resolve(m.MemberField.Type)
		if err != nil {
			return nil, err
		}
		members[i] = structMember{field: m.MemberField, codec: c}
	}
	return structCodec{decl: decl, members: members}, nil
}

func (c structCodec) prefix(reflect.Value) wire.Byte { return wire.Structure }

// bufferPrefix names the production a Buf member is written as: Binary for
// integral elements (byte count on the wire), Array otherwise (element
// count on the wire) — the same split logicalBufferCodec makes.
func bufferPrefix(integral bool) wire.Byte {
	if integral {
		return wire.Binary
	}
	return wire.Array
}

func (c structCodec) size(v reflect.Value) int {
	total := varint.SizeUint(uint64(len(c.members)))
	for _, m := range c.members {
		if !m.isBuffer {
			total += 1 + m.codec.size(v.Field(m.field.Index))
			continue
		}
		arr := v.Field(m.field.Index)
		n := int(intValueOf(v.Field(m.countField.Index)))
		total += 1 + varint.SizeUint(uint64(n))
		if m.integral {
			total += n
			continue
		}
		for i := 0; i < n; i++ {
			total += 1 + m.codec.size(arr.Index(i))
		}
	}
	return total
}

func (c structCodec) writePayload(prefix wire.Byte, v reflect.Value, w streambuf.Writer, depth int) error {
	if err := varint.EncodeUint(w, uint64(len(c.members))); err != nil {
		return err
	}
	for _, m := range c.members {
		if !m.isBuffer {
			if err := writeReflect(m.codec, v.Field(m.field.Index), w, depth+1); err != nil {
				return err
			}
			continue
		}
		if err := writeBufferMember(m, v, w, depth); err != nil {
			return err
		}
	}
	return nil
}

func writeBufferMember(m structMember, v reflect.Value, w streambuf.Writer, depth int) error {
	arr := v.Field(m.field.Index)
	n := int(intValueOf(v.Field(m.countField.Index)))
	if n > arr.Len() {
		return errors.New(errors.InvalidContainerLength, "buffer member %s count %d exceeds backing capacity %d", m.field.Name, n, arr.Len())
	}
	if err := w.WriteByte(byte(bufferPrefix(m.integral))); err != nil {
		return err
	}
	if err := varint.EncodeUint(w, uint64(n)); err != nil {
		return err
	}
	if m.integral {
		raw := make([]byte, n)
		for i := 0; i < n; i++ {
			raw[i] = byte(arr.Index(i).Uint())
		}
		return w.WriteRaw(raw)
	}
	for i := 0; i < n; i++ {
		if err := writeReflect(m.codec, arr.Index(i), w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c structCodec) readPayload(prefix wire.Byte, v reflect.Value, r streambuf.Reader, depth int) error {
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	if int(n) != len(c.members) {
		return errors.New(errors.InvalidMemberCount, "structure has %d members, got %d on the wire", len(c.members), n)
	}
	for _, m := range c.members {
		if !m.isBuffer {
			if err := readReflect(m.codec, v.Field(m.field.Index), r, depth+1); err != nil {
				return err
			}
			continue
		}
		if err := readBufferMember(m, v, r, depth); err != nil {
			return err
		}
	}
	return nil
}

func readBufferMember(m structMember, v reflect.Value, r streambuf.Reader, depth int) error {
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	prefix := wire.Byte(b)
	want := bufferPrefix(m.integral)
	if prefix != want {
		return errors.New(errors.UnexpectedEncodingType, "buffer member %s: prefix 0x%02x does not match wire byte 0x%02x", m.field.Name, b, byte(want))
	}
	n, _, err := varint.DecodeUint(r)
	if err != nil {
		return err
	}
	arr := v.Field(m.field.Index)
	if arr.Kind() == reflect.Slice {
		if int(n) > arr.Len() {
			arr.Set(reflect.MakeSlice(arr.Type(), int(n), int(n)))
		}
	} else if int(n) > arr.Len() {
		return errors.New(errors.InvalidContainerLength, "buffer member %s backing capacity %d too small for %d elements", m.field.Name, arr.Len(), n)
	}
	if m.integral {
		raw := make([]byte, n)
		if err := r.ReadRaw(raw); err != nil {
			return err
		}
		for i := 0; i < int(n); i++ {
			arr.Index(i).SetUint(uint64(raw[i]))
		}
	} else {
		for i := 0; i < int(n); i++ {
			if err := readReflect(m.codec, arr.Index(i), r, depth+1); err != nil {
				return err
			}
		}
	}
	setIntValue(v.Field(m.countField.Index), int64(n))
	return nil
}

func (c structCodec) match(prefix wire.Byte) bool { return prefix == wire.Structure }

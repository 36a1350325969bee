package codec

import (
	"reflect"

	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
	"github.com/vincentlao/libnop/varint"
	"github.com/vincentlao/libnop/variant"
	"github.com/vincentlao/libnop/wire"
)

// variantCodec implements spec's Variant grammar production (§4.C:
// "Variant := 0xE? SInt(index) Frame?", Frame absent iff index == -1):
// prefix, signed index, then the active alternative's own self-describing
// frame.
type variantCodec struct{}

func (variantCodec) Prefix(variant.Variant) wire.Byte { return wire.Variant }

func (variantCodec) Size(v variant.Variant) int {
	p := &v
	idx := p.Index()
	if idx == EmptyVariantIndex {
		return varint.SizeInt(-1)
	}
	val := p.Value()
	c, err := resolve(reflect.TypeOf(val))
	if err != nil {
		return varint.SizeInt(int64(idx))
	}
	return varint.SizeInt(int64(idx)) + 1 + c.size(reflect.ValueOf(val))
}

// EmptyVariantIndex mirrors variant.EmptyIndex, named locally so this file
// reads without a second import alias.
const EmptyVariantIndex = variant.EmptyIndex

func (variantCodec) WritePayload(prefix wire.Byte, v variant.Variant, w streambuf.Writer) error {
	p := &v
	idx := p.Index()
	if err := varint.EncodeInt(w, int64(idx)); err != nil {
		return err
	}
	if idx == EmptyVariantIndex {
		return nil
	}
	val := p.Value()
	c, err := resolve(reflect.TypeOf(val))
	if err != nil {
		return err
	}
	return writeReflect(c, reflect.ValueOf(val), w, 0)
}

// ReadPayload implements the "try alternative k+1 on UnexpectedEncodingType"
// local-recovery rule (spec's propagation policy, property 4's "the
// dispatcher may offer the prefix to an alternative codec"): the wire index
// names the writer's alternative position, but a fungible reader may
// declare its alternatives in a different order, so the frame's own prefix
// byte is read once and offered to each candidate alternative starting at
// the wire index, in turn, until one Matches; only that one alternative's
// ReadPayload is invoked, so a match failure never consumes payload bytes
// that would strand a later attempt mid-frame.
func (variantCodec) ReadPayload(prefix wire.Byte, v *variant.Variant, r streambuf.Reader) error {
	idx, _, err := varint.DecodeInt(r)
	if err != nil {
		return err
	}
	if idx == -1 {
		*v = *variant.NewVariant(v.Types()...)
		return nil
	}
	types := v.Types()
	if len(types) == 0 {
		return errors.New(errors.InvalidContainerLength, "variant: no alternatives declared")
	}
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	elemPrefix := wire.Byte(b)
	// The wire index names the writer's alternative position, which may
	// not be this reader's position for the same alternative if its
	// declaration orders them differently; start the search there as the
	// likely match, then sweep every other alternative before giving up.
	var firstErr error
	for offset := 0; offset < len(types); offset++ {
		i := (int(idx) + offset) % len(types)
		c, err := resolve(types[i])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !c.match(elemPrefix) {
			if firstErr == nil {
				firstErr = errors.New(errors.UnexpectedEncodingType, "variant: prefix 0x%02x does not match alternative %d (%s)", b, i, types[i])
			}
			continue
		}
		out := reflect.New(types[i]).Elem()
		if err := c.readPayload(elemPrefix, out, r, 0); err != nil {
			return err
		}
		return v.Emplace(i, out.Interface())
	}
	return firstErr
}

func (variantCodec) Match(prefix wire.Byte) bool { return prefix == wire.Variant }

func init() {
	Register[variant.Variant](variantCodec{})
}

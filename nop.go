// Package nop is the top-level façade over NOP's subpackages (spec §4.J):
// a typical caller only needs Marshal/Unmarshal and this one import,
// mirroring how v23 is the root package Vanadium client code actually
// imports rather than reaching into ipc/vom/vdl directly.
package nop

import (
	"github.com/vincentlao/libnop/codec"
	"github.com/vincentlao/libnop/errors"
	"github.com/vincentlao/libnop/streambuf"
)

// Marshal encodes v to a new byte slice using its registered (or
// synthesized) codec.
func Marshal[T any](v T) ([]byte, error) {
	w := streambuf.NewByteWriter()
	if err := codec.Write(v, w); err != nil {
		return nil, err
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// Unmarshal decodes data into *v.
func Unmarshal[T any](data []byte, v *T) error {
	r := streambuf.NewByteReader(data, nil)
	return codec.Read(v, r)
}

// Kind is the closed error taxonomy from spec §7, re-exported so callers
// of the façade rarely need to import the errors subpackage directly.
type Kind = errors.Kind

const (
	Unknown                = errors.Unknown
	IoError                = errors.IoError
	NoBuffer               = errors.NoBuffer
	UnexpectedEncodingType = errors.UnexpectedEncodingType
	InvalidIntegerClass    = errors.InvalidIntegerClass
	InvalidContainerLength = errors.InvalidContainerLength
	InvalidMemberCount     = errors.InvalidMemberCount
	InvalidInterfaceMethod = errors.InvalidInterfaceMethod
	DuplicateMethodHash    = errors.DuplicateMethodHash
	SystemError            = errors.SystemError
)

// Error is the concrete error type every fallible operation in this module
// returns (spec §4.A/§7).
type Error = errors.Error

// KindOf and Is are re-exported for convenience.
func KindOf(err error) Kind        { return errors.KindOf(err) }
func Is(err error, kind Kind) bool { return errors.Is(err, kind) }

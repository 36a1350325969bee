// Package errors defines the closed error taxonomy shared by every codec,
// schema, and RPC operation in this module. It plays the role the teacher
// corpus gives to verror: a stable, branch-on-me identifier paired with a
// human string that exists for diagnostics only.
package errors

import "fmt"

// Kind identifies the closed set of ways a NOP operation can fail. Callers
// must branch on Kind, never on Error.Error()'s text.
type Kind int

const (
	// Unknown is the zero Kind. KindOf returns it for any error that did
	// not originate in this package.
	Unknown Kind = iota

	// IoError means the underlying Reader/Writer failed.
	IoError
	// NoBuffer means a BoundedReader (or BoundedWriter) would exceed its
	// byte budget.
	NoBuffer
	// UnexpectedEncodingType means a read prefix byte did not Match the
	// target codec.
	UnexpectedEncodingType
	// InvalidIntegerClass means an integer size class is too wide for the
	// target type.
	InvalidIntegerClass
	// InvalidContainerLength means a declared length exceeds capacity or
	// is otherwise malformed.
	InvalidContainerLength
	// InvalidMemberCount means a structure's member count does not match
	// its declaration.
	InvalidMemberCount
	// InvalidInterfaceMethod means a dispatcher received an unknown
	// selector.
	InvalidInterfaceMethod
	// DuplicateMethodHash means two methods collided on their SipHash
	// selector at declaration time.
	DuplicateMethodHash
	// SystemError means transport setup (pipes, sockets) failed. This
	// module never opens a transport itself; the Kind exists so callers
	// wrapping transport errors can report them in the same taxonomy.
	SystemError
)

var kindNames = map[Kind]string{
	Unknown:                "Unknown",
	IoError:                "IoError",
	NoBuffer:               "NoBuffer",
	UnexpectedEncodingType: "UnexpectedEncodingType",
	InvalidIntegerClass:    "InvalidIntegerClass",
	InvalidContainerLength: "InvalidContainerLength",
	InvalidMemberCount:     "InvalidMemberCount",
	InvalidInterfaceMethod: "InvalidInterfaceMethod",
	DuplicateMethodHash:    "DuplicateMethodHash",
	SystemError:            "SystemError",
}

// String renders a diagnostic name for k. This is for logs and test
// failures only; program logic must use Is/KindOf instead.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error type returned by every fallible operation in
// this module. It is immutable once constructed.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

// New returns an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error of the given kind that carries cause as its
// Unwrap() target, mirroring verror.Convert's role of attaching a stable
// identifier to an error that arrived without one.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("nop: %s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("nop: %s: %s", e.kind, e.msg)
}

// Kind returns e's error kind.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// KindOf returns err's Kind if err is (or wraps) an *Error, else Unknown.
// This mirrors verror.ErrorID.
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.kind
	}
	return Unknown
}

// Is reports whether err is (or wraps) an *Error of the given kind. This
// mirrors verror.Is.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// As walks err's Unwrap chain looking for an *Error, writing it to target
// on success. It exists so this package doesn't need to import the
// standard errors package under the same name as itself.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

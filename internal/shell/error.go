package shell

import "github.com/pkg/errors"

// Code classifies a shell failure (spec §7).
type Code int

const (
	OK Code = iota
	OOM
	IOError
	AssertionError
	UnimplementedError
	ValueError
	EOF
	NotFound
	Exit
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case OOM:
		return "OOM"
	case IOError:
		return "IO_ERROR"
	case AssertionError:
		return "ASSERTION_ERROR"
	case UnimplementedError:
		return "UNIMPLEMENTED_ERROR"
	case ValueError:
		return "VALUE_ERROR"
	case EOF:
		return "EOF"
	case NotFound:
		return "NOT_FOUND"
	case Exit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

// Error pairs a Code with the underlying cause, so callers can branch
// on Code (per the policy table in spec §7) while still carrying a
// wrapped, inspectable error chain.
type Error struct {
	Code  Code
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrapf builds an *Error from a cause and a formatted message, in the
// same style the rest of the codebase uses pkg/errors for context.
func Wrapf(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Cause: errors.Wrapf(cause, format, args...)}
}

// Newf builds an *Error with a fresh message and no wrapped cause.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Cause: errors.Errorf(format, args...)}
}

// CodeOf extracts the Code from err if it (or something it wraps) is
// an *Error; otherwise it returns AssertionError, since every path that
// can fail is expected to report through *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return AssertionError
}

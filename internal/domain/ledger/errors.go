package ledger

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes the accounting ledger
// service can report. The RPC client maps transport codes onto this enum so
// that nothing downstream ever matches on message text.
type ErrorKind int

const (
	// KindInternal covers every failure that has no distinguished handling
	KindInternal ErrorKind = iota
	// KindInvalidArgument maps RPC code 3
	KindInvalidArgument
	// KindNotFound maps RPC code 5
	KindNotFound
	// KindFailedPrecondition maps RPC code 9
	KindFailedPrecondition
	// KindUnimplemented maps RPC code 12
	KindUnimplemented
	// KindUnavailable maps RPC code 14 and any transport-level failure
	KindUnavailable
)

// String returns the kind name for logging
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindFailedPrecondition:
		return "FAILED_PRECONDITION"
	case KindUnimplemented:
		return "UNIMPLEMENTED"
	case KindUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// Error is a classified failure from the ledger service
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("ledger: %s: %s", e.Kind, e.Message)
}

// NewError creates a classified ledger error
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the error kind from err. Non-ledger errors are treated as
// KindUnavailable when they wrap a transport failure is not knowable here, so
// they classify as KindInternal.
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a ledger NOT_FOUND failure
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsUnavailable reports whether err is a ledger UNAVAILABLE failure
func IsUnavailable(err error) bool {
	return KindOf(err) == KindUnavailable
}

// IsUnimplemented reports whether err is a ledger UNIMPLEMENTED failure
func IsUnimplemented(err error) bool {
	return KindOf(err) == KindUnimplemented
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of catalog operations
type ErrorKind int

const (
	KindUnknown    ErrorKind = iota
	KindNetwork              // transport failure, no usable response
	KindServer               // non-success status from the API
	KindValidation           // client-side precondition violated, no request made
	KindNotFound             // referenced id absent server-side
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind. errors.Is(err, ErrNotFound) matches any
// *Error of that kind.
var (
	ErrNetwork    = &Error{Kind: KindNetwork, Message: "api is unreachable"}
	ErrServer     = &Error{Kind: KindServer, Message: "api returned an error"}
	ErrValidation = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "video not found"}
)

// Error is the typed failure returned by every catalog operation
type Error struct {
	Op         string    // operation name, e.g. "like video"
	Kind       ErrorKind // failure class
	StatusCode int       // HTTP status for server/not-found errors
	Message    string    // server or validation message
	Err        error     // underlying cause
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.StatusCode == 0
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NewValidationError reports a client-side precondition violation
func NewValidationError(op, message string) *Error {
	return &Error{Op: op, Kind: KindValidation, Message: message}
}

package backend

import (
	"errors"
	"fmt"
)

// Kind classifies a failed gateway call.
type Kind int

const (
	// KindUnauthenticated means the call needs a session and none was present. No
	// request was sent.
	KindUnauthenticated Kind = iota + 1
	// KindBackend means the backend answered with a non-2xx status.
	KindBackend
	// KindNetwork means the request never completed or the reply could not be read.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindBackend:
		return "backend"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgNotAuthenticated = "Not authenticated"
	MsgRequestFailed    = "Request failed"
	MsgNetwork          = "Network error"
)

// Error is the uniform failure value returned by every gateway call.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the text to show the user for err, or "" for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Message
	}
	return MsgNetwork
}

// KindOf returns the Kind of err, or 0 when err is not a gateway error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

// IsUnauthenticated reports whether err is a fail-fast missing-session error or a 401
// from the backend.
func IsUnauthenticated(err error) bool {
	var be *Error
	if !errors.As(err, &be) {
		return false
	}
	return be.Kind == KindUnauthenticated || (be.Kind == KindBackend && be.Status == 401)
}

var errNotAuthenticated = &Error{Kind: KindUnauthenticated, Message: MsgNotAuthenticated}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
}

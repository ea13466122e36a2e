package remotestore

import (
	"errors"
	"fmt"
)

// FailureKind distinguishes the ways an upstream call can fail.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureParse     FailureKind = "parse"
)

// Failure is the typed error for every upstream problem. Nothing past
// the client boundary ever sees a raw transport or JSON error.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Endpoint   string
	Err        error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureStatus:
		return fmt.Sprintf("status:%d from %q", f.StatusCode, f.Endpoint)
	case FailureParse:
		return fmt.Sprintf("parse failure from %q: %v", f.Endpoint, f.Err)
	default:
		return fmt.Sprintf("transport failure on %q: %v", f.Endpoint, f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Message is the single user-visible line for this failure.
func (f *Failure) Message() string {
	switch f.Kind {
	case FailureStatus:
		return fmt.Sprintf("Server responded with code %d", f.StatusCode)
	case FailureParse:
		return "Received malformed data from the server"
	default:
		return "Network error: could not reach the server"
	}
}

// AsFailure unwraps err into a *Failure when possible.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}

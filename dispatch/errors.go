package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotFound is recorded on a Match when no registered pattern matches the
// request path. Triggers 404 Not Found per RFC 7231 Section 6.5.4.
var ErrNotFound = errors.New("dispatch: no matching route was found")

// ErrMethodMismatch is recorded on a Match when at least one pattern matches
// the request path but none matches the request method. Triggers
// 405 Method Not Allowed per RFC 7231 Section 6.5.5.
var ErrMethodMismatch = errors.New("dispatch: method is not allowed")

// ErrDuplicateRoute is returned by Register when a route with the same
// method and the same raw path template is already registered.
var ErrDuplicateRoute = errors.New("dispatch: duplicate route")

// ErrAmbiguousRoute is returned by Register when a route for the same method
// structurally overlaps an already registered pattern, i.e. some concrete
// path would match both. Detected at registration so resolution never has
// to tie-break at request time.
var ErrAmbiguousRoute = errors.New("dispatch: ambiguous route")

// ErrTableFrozen is returned by Register after the table has served its
// first request. The table is read-only from that point on, so concurrent
// resolution needs no locking.
var ErrTableFrozen = errors.New("dispatch: route table is frozen")

// Reason classifies why a parameter failed to bind.
type Reason string

const (
	// ReasonMissing means a required parameter was absent from its source.
	ReasonMissing Reason = "missing"

	// ReasonMalformed means the raw value could not be coerced to the
	// parameter's declared type.
	ReasonMalformed Reason = "malformed"
)

// BindError reports the first parameter that failed to bind. Binding is
// all-or-nothing: parameters are checked in declaration order and the first
// failure aborts the request, so the reported parameter is deterministic
// for a given handler signature and request.
type BindError struct {
	// Param is the name of the offending parameter.
	Param string

	// Reason is either ReasonMissing or ReasonMalformed.
	Reason Reason

	// cause holds the underlying coercion error, if any.
	cause error
}

func (e *BindError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("dispatch: parameter %q is %s: %v", e.Param, e.Reason, e.cause)
	}
	return fmt.Sprintf("dispatch: parameter %q is %s", e.Param, e.Reason)
}

func (e *BindError) Unwrap() error {
	return e.cause
}

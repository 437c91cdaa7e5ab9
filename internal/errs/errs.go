// Package errs defines the closed set of error kinds shared across the
// XML access layer, ID normalizer, parser, and batch orchestrator.
package errs

import "fmt"

// Kind is a closed enum of the error categories the pipeline can produce.
// Extractors never produce a Kind themselves; only acquisition, parsing,
// and I/O stages do.
type Kind string

const (
	UnsupportedInput Kind = "UnsupportedInput"
	NotFound         Kind = "NotFound"
	NetworkError     Kind = "NetworkError"
	ValidationError  Kind = "ValidationError"
	ParseError       Kind = "ParseError"
	IOFailed         Kind = "IOFailed"
	Cancelled        Kind = "Cancelled"
	ConfigError      Kind = "ConfigError"
)

// Error wraps a Kind with the failing operation and, optionally, a cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, errs.NotFound) style comparisons by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind from err, defaulting to ConfigError if err does
// not carry one (a programmer error — every path that can fail should wrap
// its error with a Kind before it escapes the package boundary).
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return ConfigError
}

func as(err error, target **Error) bool {
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

// Retriable reports whether a failure of this kind should be retried by C3.
func (k Kind) Retriable() bool {
	switch k {
	case NetworkError:
		return true
	default:
		return false
	}
}

// FatalForBatch reports whether this kind should halt the whole batch
// rather than just the item that produced it.
func (k Kind) FatalForBatch() bool {
	return k == ConfigError
}

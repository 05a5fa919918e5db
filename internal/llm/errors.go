package llm

import (
	"errors"
	"fmt"
)

// Kind classifies why the oracle produced no usable text.
type Kind int

const (
	// KindTransport covers network failures, non-200 replies and cancelled requests.
	KindTransport Kind = iota + 1
	// KindParse covers replies that do not have the expected shape.
	KindParse
	// KindEmpty covers well-formed replies without any text.
	KindEmpty
)

// Sentinels for errors.Is checks against an *Error.
var (
	ErrTransport = errors.New("oracle transport error")
	ErrParse     = errors.New("oracle parse error")
	ErrEmpty     = errors.New("oracle returned no text")
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindParse:
		return ErrParse
	default:
		return ErrEmpty
	}
}

// Error is the only failure a Client returns.
type Error struct {
	Kind     Kind
	Provider Provider
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func newError(p Provider, kind Kind, err error) *Error {
	return &Error{Kind: kind, Provider: p, Err: err}
}

// KindOf returns the failure kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

package parser

import (
	"errors"
	"fmt"
)

// FailureKind identifies why a line was rejected.
type FailureKind int

const (
	// UnsupportedTopLevel means the line does not start with the git keyword.
	UnsupportedTopLevel FailureKind = iota + 1
	// UnsupportedMethod means no configured method matched after the keyword.
	UnsupportedMethod
	// UnsupportedOption means a flag is not in the method's supported set.
	UnsupportedOption
)

// String returns the kind name used in logs and serialized output.
func (k FailureKind) String() string {
	switch k {
	case UnsupportedTopLevel:
		return "unsupported_top_level"
	case UnsupportedMethod:
		return "unsupported_method"
	case UnsupportedOption:
		return "unsupported_option"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseError is a user-facing rejection of a line.
// Only the fields relevant to Kind are set: Attempted for UnsupportedMethod,
// Method and Option for UnsupportedOption.
type ParseError struct {
	Kind      FailureKind `json:"kind" yaml:"kind"`
	Attempted string      `json:"attempted,omitempty" yaml:"attempted,omitempty"`
	Method    string      `json:"method,omitempty" yaml:"method,omitempty"`
	Option    string      `json:"option,omitempty" yaml:"option,omitempty"`
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnsupportedTopLevel:
		return "unsupported top-level command"
	case UnsupportedMethod:
		return fmt.Sprintf("unsupported git method %q", e.Attempted)
	case UnsupportedOption:
		return fmt.Sprintf("option %q is not supported by %s", e.Option, e.Method)
	default:
		return "parse failure"
	}
}

// Is matches another *ParseError of the same kind, so callers can test
// errors.Is(err, &ParseError{Kind: UnsupportedMethod}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func errUnsupportedTopLevel() *ParseError {
	return &ParseError{Kind: UnsupportedTopLevel}
}

func errUnsupportedMethod(attempted string) *ParseError {
	return &ParseError{Kind: UnsupportedMethod, Attempted: attempted}
}

func errUnsupportedOption(method, option string) *ParseError {
	return &ParseError{Kind: UnsupportedOption, Method: method, Option: option}
}

// AsParseError extracts a *ParseError from err.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

var (
	// ErrInvalidTable is returned when a command table definition cannot be compiled.
	ErrInvalidTable = errors.New("invalid command table")

	// ErrMissingOptionTable is returned when a method has no supported-option entry.
	// It is an internal consistency fault, never a user-facing parse failure.
	ErrMissingOptionTable = errors.New("method has no option table")
)

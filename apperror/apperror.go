// Package apperror provides the error type used across the bump tool.
//
// It enhances standard Go errors with a lightweight stack trace, support
// for nested errors, and a closed Kind taxonomy that makes every failure
// distinguishable without parsing messages. The core packages return
// kind-tagged errors and never print anything themselves; the command
// layer maps each Kind to an exit code and a user-facing message.
//
// Kinds:
//   - KindParse: malformed bumpfile bytes (carries a line location detail)
//   - KindSchema: missing or mistyped required keys for the declared scheme
//   - KindInvalidState: a version value violates its own invariants
//   - KindUnsupportedScheme: operation requested against the wrong scheme
//   - KindNotACandidate: release requested without an active candidate
//   - KindOverflow: a numeric increment would exceed the representable range
//   - KindGit: a git subprocess failed or is unavailable
//   - KindIO: reading or writing a file failed
//   - KindUsage: invalid invocation (unknown language, unsupported target)
//
// Usage:
//
//	err := apperror.NewKind(apperror.KindNotACandidate, "no active candidate")
//	if apperror.KindOf(err) == apperror.KindNotACandidate { ... }
//
// To enable debug output (stack traces), set `flag.Debug = true` before
// printing errors.
package apperror

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/valentin-kaiser/go-bump/flag"
)

// Kind classifies an error so callers can react without string matching
type Kind uint8

// The closed set of error kinds the tool produces
const (
	KindUnknown Kind = iota
	KindParse
	KindSchema
	KindInvalidState
	KindUnsupportedScheme
	KindNotACandidate
	KindOverflow
	KindGit
	KindIO
	KindUsage
)

// String returns a stable identifier for the kind
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindSchema:
		return "schema"
	case KindInvalidState:
		return "invalid-state"
	case KindUnsupportedScheme:
		return "unsupported-scheme"
	case KindNotACandidate:
		return "not-a-candidate"
	case KindOverflow:
		return "overflow"
	case KindGit:
		return "git"
	case KindIO:
		return "io"
	case KindUsage:
		return "usage"
	default:
		return "unknown"
	}
}

var (
	// TraceDelimiter is used to separate trace entries
	TraceDelimiter = " -> "
	// ErrorDelimiter is used to separate multiple errors
	ErrorDelimiter = " => "
)

// Error represents an application error with a kind, a stack trace and
// optional nested errors. It implements the error interface.
type Error struct {
	Kind    Kind
	Trace   []string
	Errors  []error
	Context map[string]interface{}
	Message string
}

// NewError creates a new Error instance with the given message
// If the error is already of type Error you should use Wrap instead
func NewError(msg string) Error {
	e := Error{Message: msg}
	e.Trace = trace(e)
	return e
}

// NewErrorf creates a new Error instance with the formatted message
func NewErrorf(format string, a ...interface{}) Error {
	e := Error{Message: fmt.Sprintf(format, a...)}
	e.Trace = trace(e)
	return e
}

// NewKind creates a new Error tagged with the given kind
func NewKind(kind Kind, msg string) Error {
	e := Error{Kind: kind, Message: msg}
	e.Trace = trace(e)
	return e
}

// NewKindf creates a new kind-tagged Error with a formatted message
func NewKindf(kind Kind, format string, a ...interface{}) Error {
	e := Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
	e.Trace = trace(e)
	return e
}

// Wrap wraps an error and adds a stack trace point to it
// An existing Error keeps its kind and trace history
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Trace = trace(e)
		return e
	}
	e := Error{Message: err.Error()}
	e.Trace = trace(e)
	return e
}

// WrapKind wraps an error and tags it with the given kind
// The original error is preserved as a nested error
func WrapKind(kind Kind, err error, msg string) Error {
	e := Error{Kind: kind, Message: msg}
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
	e.Trace = trace(e)
	return e
}

// KindOf returns the kind of an error, walking the wrapped chain until a
// kind-tagged Error is found. Untagged errors report KindUnknown.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(Error); ok && e.Kind != KindUnknown {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// IsKind reports whether the error chain carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// AddError adds an additional error to the Error instance context
func (e Error) AddError(err error) Error {
	e.Errors = append(e.Errors, err)
	return e
}

// AddDetail adds a key-value pair to the error context
// Used to attach locations (line numbers, key paths) to parse and schema
// errors without embedding them in the message
func (e Error) AddDetail(key string, value interface{}) Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetDetail retrieves a value from the error context by key
// If the key does not exist, it returns nil
func (e Error) GetDetail(key string) interface{} {
	if e.Context == nil {
		return nil
	}
	value, exists := e.Context[key]
	if !exists {
		return nil
	}
	return value
}

// Is implements the error matching interface for errors.Is()
// Two Errors match when their kinds match and either is message-less,
// or when their messages are equal
func (e Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(Error); ok {
		if e.Kind != KindUnknown && e.Kind == t.Kind && (t.Message == "" || e.Message == t.Message) {
			return true
		}
		return e.Message == t.Message
	}

	return e.Message == target.Error()
}

// Unwrap implements the error unwrapping interface for errors.Is() and errors.As()
// It returns the first additional error if any exist
func (e Error) Unwrap() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// Error implements the error interface and returns the error message
// If debug mode is enabled, it includes the stack trace and additional errors
func (e Error) Error() string {
	nested := ""
	for _, d := range e.Errors {
		if d == nil {
			continue
		}
		if nested != "" {
			nested += ErrorDelimiter
		}
		nested += d.Error()
	}

	if flag.Debug && len(e.Trace) > 0 {
		trace := ""
		for i := len(e.Trace) - 1; i >= 0; i-- {
			trace += e.Trace[i]
			if i > 0 {
				trace += TraceDelimiter
			}
		}

		if nested != "" {
			return fmt.Sprintf("%s | %s [%s]", trace, e.Message, nested)
		}
		return fmt.Sprintf("%s | %s", trace, e.Message)
	}

	if nested != "" {
		return fmt.Sprintf("%s [%s]", e.Message, nested)
	}
	return e.Message
}

// trace generates a stack trace entry for the error
// It uses runtime.Caller to get the file name and line number
func trace(e Error) []string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return e.Trace
	}

	// Keep the package-relative tail of the path to reduce noise
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		if idx2 := strings.LastIndex(file[:idx], "/"); idx2 >= 0 {
			file = file[idx2+1:]
		}
	}

	e.Trace = append(e.Trace, fmt.Sprintf("%s:%d", file, line))
	return e.Trace
}

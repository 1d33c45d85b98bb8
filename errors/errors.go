package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegistry Phase = "registry" // value type definition
	PhaseConvert  Phase = "convert"  // raw ABI storage to typed values and back
	PhaseCall     Phase = "call"     // vtable dispatch
	PhaseAsync    Phase = "async"    // completion bridge
	PhaseActivate Phase = "activate" // activation factory lookup
	PhaseParse    Phase = "parse"    // type expression parsing
	PhaseRuntime  Phase = "runtime"  // facade lifecycle
)

// Kind categorizes the error
type Kind string

const (
	KindExpectObject     Kind = "expect_object"
	KindTypeMismatch     Kind = "type_mismatch"
	KindInvalidNestedOut Kind = "invalid_nested_out"
	KindAbiMismatch      Kind = "abi_mismatch"
	KindCallFailed       Kind = "call_failed"
	KindInvalidInput     Kind = "invalid_input"
	KindUnsupported      Kind = "unsupported"
	KindNotFound         Kind = "not_found"
	KindNotInitialized   Kind = "not_initialized"
	KindInvalidData      Kind = "invalid_data"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Type     string
	Expected string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" || e.Expected != "" {
		b.WriteString(": ")
		if e.Type != "" && e.Expected != "" {
			b.WriteString("got ")
			b.WriteString(e.Type)
			b.WriteString(", expected ")
			b.WriteString(e.Expected)
		} else if e.Type != "" {
			b.WriteString("type ")
			b.WriteString(e.Type)
		} else {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
		}
	}

	if e.Detail != "" {
		if e.Type != "" || e.Expected != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the parameter path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the actual type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Expected sets the expected type name
func (b *Builder) Expected(t string) *Builder {
	b.err.Expected = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ExpectObject reports a non-reference value used where an interface reference is required
func ExpectObject(phase Phase, actual string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindExpectObject,
		Type:     actual,
		Expected: "interface reference",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, actual, expected string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		Type:     actual,
		Expected: expected,
	}
}

// InvalidNestedOut reports an out slot that was asked to be treated as another out value
func InvalidNestedOut(typ string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindInvalidNestedOut,
		Type:   typ,
		Detail: "out value cannot be produced from an out slot",
	}
}

// AbiMismatch reports a raw ABI value whose shape does not fit the requested type
func AbiMismatch(typ, abiShape string) *Error {
	return &Error{
		Phase:    PhaseConvert,
		Kind:     KindAbiMismatch,
		Type:     abiShape,
		Expected: typ,
	}
}

// CallFailed wraps a failing status code returned by a dispatched method
func CallFailed(slot int, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindCallFailed,
		Detail: fmt.Sprintf("vtable slot %d", slot),
		Value:  slot,
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(input string, pos int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("%s at offset %d in %q", detail, pos, input),
		Value:  pos,
	}
}

// coder is implemented by platform status codes.
type coder interface {
	Code() int32
}

// StatusOf returns the platform status code carried anywhere in err's chain.
func StatusOf(err error) (int32, bool) {
	var c coder
	if stderrors.As(err, &c) {
		return c.Code(), true
	}
	return 0, false
}

package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema Phase = "schema" // layout definition and compilation
	PhaseBind   Phase = "bind"   // attaching a layout to a region
	PhaseEncode Phase = "encode" // Go value to bytes
	PhaseDecode Phase = "decode" // bytes to Go value
	PhaseAccess Phase = "access" // field lookup on a bound instance
	PhaseImport Phase = "import" // schema import (WIT)
	PhaseMemory Phase = "memory" // memory adapters
)

// Kind categorizes the error
type Kind string

const (
	KindDuplicateField  Kind = "duplicate_field"
	KindInvalidName     Kind = "invalid_name"
	KindInvalidSize     Kind = "invalid_size"
	KindSizeMismatch    Kind = "size_mismatch"
	KindStringOverflow  Kind = "string_overflow"
	KindUnrepresentable Kind = "unrepresentable"
	KindOverflow        Kind = "overflow"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindTypeMismatch    Kind = "type_mismatch"
	KindFieldUnknown    Kind = "field_unknown"
	KindInvalidPath     Kind = "invalid_path"
	KindReleased        Kind = "released"
	KindUnsupported     Kind = "unsupported"
	KindNotFound        Kind = "not_found"
	KindInvalidData     Kind = "invalid_data"
	KindNilPointer      Kind = "nil_pointer"
	KindInvalidInput    Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	FieldKind string
	Detail    string
	Path      []string
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
		b.WriteString(JoinPath(e.Path))
	}

	if e.FieldKind != "" {
		b.WriteString(": field type ")
		b.WriteString(e.FieldKind)
	}

	if e.Detail != "" {
		if e.FieldKind != "" {
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

// WithPath returns a copy of e with prefix prepended to its path.
func (e *Error) WithPath(prefix ...string) *Error {
	cp := *e
	cp.Path = append(append([]string(nil), prefix...), e.Path...)
	return &cp
}

// JoinPath renders path segments, attaching index segments ("[3]") without a dot.
func JoinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// FieldKind sets the field type name
func (b *Builder) FieldKind(k string) *Builder {
	b.err.FieldKind = k
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

// DuplicateField creates a schema error for a name declared twice in one layout
func DuplicateField(name string) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindDuplicateField,
		Path:   []string{name},
		Detail: fmt.Sprintf("field %q already declared", name),
	}
}

// InvalidSize creates a schema error for a zero, negative or inconsistent size
func InvalidSize(path []string, what string, size int) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindInvalidSize,
		Path:   path,
		Detail: fmt.Sprintf("invalid %s %d", what, size),
		Value:  size,
	}
}

// SizeMismatch creates a bind error for a region whose length differs from the layout size
func SizeMismatch(want, got int) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindSizeMismatch,
		Detail: fmt.Sprintf("region is %d bytes, layout requires %d", got, want),
		Value:  got,
	}
}

// StringOverflow creates an encoding error for a string longer than its field
func StringOverflow(path []string, length, limit int) *Error {
	return &Error{
		Phase:     PhaseEncode,
		Kind:      KindStringOverflow,
		Path:      path,
		FieldKind: fmt.Sprintf("string(%d)", limit),
		Detail:    fmt.Sprintf("encoded length %d exceeds %d", length, limit),
		Value:     length,
	}
}

// Unrepresentable creates an encoding error for a rune outside the field charset
func Unrepresentable(path []string, r rune) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnrepresentable,
		Path:   path,
		Detail: fmt.Sprintf("rune %U has no single-byte encoding", r),
		Value:  r,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindOverflow,
		Path:      path,
		FieldKind: target,
		Detail:    fmt.Sprintf("value %v overflows %s", value, target),
		Value:     value,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, fieldKind, requested string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTypeMismatch,
		Path:      path,
		FieldKind: fieldKind,
		Detail:    fmt.Sprintf("requested %s", requested),
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(path []string, fieldName string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// Released creates an error for access through a view whose instance was released
func Released(path []string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindReleased,
		Path:   path,
		Detail: "instance released",
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

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Detail: fmt.Sprintf("nil %s", what),
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

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
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

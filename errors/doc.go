// Package errors provides structured error types for the bufstruct module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, field type, offending value and cause chain.
//
// Phases and the kinds they usually carry:
//
//	schema   duplicate_field, invalid_name, invalid_size, nil_pointer
//	bind     size_mismatch, out_of_bounds, nil_pointer
//	encode   string_overflow, unrepresentable, overflow (strict layouts only)
//	access   field_unknown, type_mismatch, out_of_bounds, invalid_path, released
//	import   unsupported, not_found, invalid_data (WIT schemas)
//	memory   out_of_bounds (memory adapters)
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSchema, errors.KindInvalidSize).
//		Path("header", "name").
//		FieldKind("string(0)").
//		Detail("string length must be positive").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DuplicateField("id")
//	err := errors.SizeMismatch(46, 40)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two errors match under errors.Is when their Phase and Kind are equal.
package errors

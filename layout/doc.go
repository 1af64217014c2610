// Package layout builds fixed-size binary record layouts and binds them onto
// byte regions as live views.
//
// # Lifecycle
//
//	Builder ──Build()──▶ *Layout ──New()/Bind()──▶ *Instance
//	(unbuilt)             (compiled)                (bound)
//
// A Builder is an immutable value. Every field method returns a new Builder
// whose size is the previous size plus the field width; the new field sits at
// the previous size. Branching from an intermediate Builder is safe:
//
//	base := layout.New().Uint32("id")
//	a := base.Uint16("port").MustBuild() // id, port
//	b := base.String("host", 8).MustBuild() // id, host
//
// Build returns the first schema error (duplicate or invalid name, non-positive
// size, nil nested layout) and no Layout.
//
// # Field Types
//
//	Int8..Uint64    little-endian integers, 1/2/4/8 bytes
//	String(n)       n ISO-8859-1 bytes, zero padded
//	Record(l)       a nested compiled layout, l.Size() bytes
//	Array(n, fn)    n elements of the type fn selects, possibly arrays again
//	Reserve(n)      n bytes of explicit padding, no field
//
// # Binding
//
// New allocates a zeroed region of exactly Size bytes. Bind adopts a caller
// region without copying and rejects any region whose length differs from
// Size, unless Unchecked is passed. Under Unchecked a short region is legal;
// fields beyond its end fail with out_of_bounds when accessed.
//
// Nested records and array elements are views over sub-slices of the same
// region. Only the top-level Instance exposes Buffer.
//
// # Access
//
// Record.Get and Record.Set work on the tagged Value type and return errors.
// The typed helpers (Int8, SetUint32, Str, Record, Array, ...) panic with an
// *errors.Error on an unknown field or a kind mismatch, in the manner of
// reflect.Value. Lookup and Assign address nested fields by path:
//
//	inst.Assign("frames[2].header.seq", layout.Uint(9))
//
// # Encoding Rules
//
// Integer writes wrap to the field width by default; WithStrictIntegers
// rejects out-of-range values instead. String writes truncate to the field
// length and replace runes outside ISO-8859-1 with '?'; WithStrictStrings
// rejects both. String reads strip every NUL byte unless the layout uses
// WithNullPolicy(codec.TrimTrailingNulls).
package layout

// Package witlayout compiles WIT record types into bufstruct layouts.
//
// Only fixed-size types have a layout: integers, bool (one byte), enum and
// flags (their canonical-ABI integer width), records, and tuples. A tuple of
// a single repeated element type becomes a fixed array; any other tuple
// becomes a nested record with fields named "0", "1", and so on. Strings,
// lists, variants, options, results, resources, floats and chars are
// rejected with an unsupported import error.
//
// By default fields are packed back to back. Aligned inserts the padding the
// canonical ABI places between fields and at the end of records, so the
// compiled layout can be bound directly onto a record stored in guest
// memory:
//
//	res, err := witlayout.DecodeJSON(f) // wasm-tools component wit --json
//	td, err := witlayout.Lookup(res, "types.header")
//	hdr, err := witlayout.FromType(td, witlayout.Aligned())
package witlayout

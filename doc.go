// Package bufstruct binds declarative fixed-size record layouts onto byte
// regions.
//
// A layout is described once, field by field, and compiled into an immutable
// Layout. Binding the Layout to a byte region yields an Instance whose fields
// are live views: every read decodes the current bytes and every write goes
// straight into the region. Nothing is copied or cached.
//
// # Architecture Overview
//
//	bufstruct/           Root package with the Memory interface
//	├── codec/           Little-endian integer and fixed string codecs
//	├── layout/          Builder, arrays, compiled Layout and bound views
//	├── memory/          Memory adapters for byte slices and wazero linear memory
//	├── witlayout/       Layouts compiled from WIT record definitions
//	├── errors/          Structured error types
//	└── cmd/structview/  Inspect and edit binary files with a layout
//
// # Quick Start
//
//	header := layout.New().
//		String("name", 16).
//		Uint16("version").
//		Reserve(2).
//		Array("counts", 4, func(a layout.ArrayBuilder) layout.ArraySpec { return a.Uint32() }).
//		MustBuild()
//
//	inst := header.New() // 36 zero bytes
//	inst.SetStr("name", "ABCDEF")
//	inst.Array("counts").SetUint(2, 7)
//
//	same, err := header.Bind(inst.Buffer()) // second view, same bytes
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(same.Str("name")) // "ABCDEF"
//
// # Wire Format
//
// Fields are packed in declaration order with no implicit padding. Integers
// are little-endian. Strings are ISO-8859-1, zero padded. Reserve inserts an
// explicit gap.
//
// # Lifetimes
//
// Nested record and array views alias the Instance's region. Release marks
// the Instance and all of its views invalid; any later access fails with a
// released error. Release before handing storage to another owner or before
// WebAssembly memory can grow.
//
// # Thread Safety
//
// Layout is safe for concurrent use. Instances are plain views over shared
// bytes: concurrent writers to the same region must synchronize externally.
package bufstruct

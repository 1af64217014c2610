// Package codec provides the byte-level read/write rules for bufstruct fields.
//
// Every codec is a pure function over a byte slice and a fixed offset. No
// codec allocates backing storage or retains the slice it is given.
//
// # Primitive Encoding
//
// All integers are little-endian, two's complement when signed:
//
//	Kind    Width   Go type
//	────────────────────────
//	s8      1       int8
//	u8      1       uint8
//	s16     2       int16
//	u16     2       uint16
//	s32     4       int32
//	u32     4       uint32
//	s64     8       int64
//	u64     8       uint64
//
// Writes truncate to the field width the same way a Go conversion does, so
// writing 300 to a u8 stores 44. Range checks are the caller's business; see
// Kind.FitsInt and Kind.FitsUint.
//
// # Strings
//
// StringCodec stores a fixed number of ISO-8859-1 bytes. Writing zero-fills
// the whole field first and then stores the value truncated to the field
// length. Reading decodes every byte and removes NUL bytes according to the
// codec's NullPolicy.
package codec

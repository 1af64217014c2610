package codec

import "math"

// Kind identifies the wire type of a field.
type Kind uint8

const (
	KindS8 Kind = iota
	KindU8
	KindS16
	KindU16
	KindS32
	KindU32
	KindS64
	KindU64
	KindString
	KindRecord
	KindArray
)

var kindNames = [...]string{
	KindS8:     "s8",
	KindU8:     "u8",
	KindS16:    "s16",
	KindU16:    "u16",
	KindS32:    "s32",
	KindU32:    "u32",
	KindS64:    "s64",
	KindU64:    "u64",
	KindString: "string",
	KindRecord: "record",
	KindArray:  "array",
}

var kindWidths = [...]int{
	KindS8:  1,
	KindU8:  1,
	KindS16: 2,
	KindU16: 2,
	KindS32: 4,
	KindU32: 4,
	KindS64: 8,
	KindU64: 8,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is one of the eight integer kinds.
func (k Kind) IsPrimitive() bool {
	return k <= KindU64
}

// Width returns the encoded size of a primitive kind, or 0 for composite kinds.
func (k Kind) Width() int {
	if k.IsPrimitive() {
		return kindWidths[k]
	}
	return 0
}

// Signed reports whether k is a two's-complement integer kind.
func (k Kind) Signed() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64:
		return true
	}
	return false
}

// FitsInt reports whether v is representable by k without wrapping.
func (k Kind) FitsInt(v int64) bool {
	switch k {
	case KindS8:
		return v >= math.MinInt8 && v <= math.MaxInt8
	case KindS16:
		return v >= math.MinInt16 && v <= math.MaxInt16
	case KindS32:
		return v >= math.MinInt32 && v <= math.MaxInt32
	case KindS64:
		return true
	case KindU8, KindU16, KindU32, KindU64:
		return v >= 0 && k.FitsUint(uint64(v))
	}
	return false
}

// FitsUint reports whether v is representable by k without wrapping.
func (k Kind) FitsUint(v uint64) bool {
	switch k {
	case KindU8:
		return v <= math.MaxUint8
	case KindU16:
		return v <= math.MaxUint16
	case KindU32:
		return v <= math.MaxUint32
	case KindU64:
		return true
	case KindS8, KindS16, KindS32, KindS64:
		return v <= math.MaxInt64 && k.FitsInt(int64(v))
	}
	return false
}

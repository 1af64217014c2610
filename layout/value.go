package layout

import (
	"strconv"
	"strings"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

// Value is a tagged union over every field type a layout can hold.
// Integer payloads are kept as 64 raw bits; signed kinds are sign-extended.
type Value struct {
	rec  *Record
	arr  *Array
	str  string
	bits uint64
	kind codec.Kind
}

// Int returns a signed integer value, assignable to any integer field.
func Int(v int64) Value {
	return Value{kind: codec.KindS64, bits: uint64(v)}
}

// Uint returns an unsigned integer value, assignable to any integer field.
func Uint(v uint64) Value {
	return Value{kind: codec.KindU64, bits: v}
}

// Str returns a string value.
func Str(s string) Value {
	return Value{kind: codec.KindString, str: s}
}

// RecordOf wraps a bound record so it can be copied into a record field.
func RecordOf(r *Record) Value {
	return Value{kind: codec.KindRecord, rec: r}
}

// ArrayOf wraps a bound array so it can be copied into an array field.
func ArrayOf(a *Array) Value {
	return Value{kind: codec.KindArray, arr: a}
}

// Kind returns the kind the value was read from or built as.
func (v Value) Kind() codec.Kind { return v.kind }

// Int returns the integer payload as int64. A u64 above MaxInt64 wraps.
func (v Value) Int() int64 { return int64(v.bits) }

// Uint returns the integer payload as uint64. Negative values wrap.
func (v Value) Uint() uint64 { return v.bits }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Record returns the nested view of a record value.
func (v Value) Record() *Record { return v.rec }

// Array returns the view of an array value.
func (v Value) Array() *Array { return v.arr }

// String formats the value for display.
func (v Value) String() string {
	switch {
	case v.kind.IsPrimitive() && v.kind.Signed():
		return strconv.FormatInt(int64(v.bits), 10)
	case v.kind.IsPrimitive():
		return strconv.FormatUint(v.bits, 10)
	case v.kind == codec.KindString:
		return strconv.Quote(v.str)
	case v.kind == codec.KindRecord && v.rec != nil:
		return "record(" + strconv.Itoa(v.rec.layout.size) + ")"
	case v.kind == codec.KindArray && v.arr != nil:
		return "array[" + strconv.Itoa(v.arr.Len()) + "]"
	}
	return "<invalid>"
}

func fromInt(k codec.Kind, v int64) Value {
	return Value{kind: k, bits: uint64(v)}
}

func fromUint(k codec.Kind, v uint64) Value {
	return Value{kind: k, bits: v}
}

// fits reports whether v can be stored in a field of kind k without wrapping.
func (v Value) fits(k codec.Kind) bool {
	if v.kind.Signed() {
		return k.FitsInt(int64(v.bits))
	}
	return k.FitsUint(v.bits)
}

// ParseValue converts text into a Value suitable for a field of kind k.
// Integers accept the prefixes understood by strconv with base 0.
func ParseValue(k codec.Kind, s string) (Value, error) {
	switch {
	case k == codec.KindString:
		return Str(s), nil
	case k.IsPrimitive() && k.Signed():
		n, err := strconv.ParseInt(strings.TrimSpace(s), 0, k.Width()*8)
		if err != nil {
			return Value{}, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				FieldKind(k.String()).
				Value(s).
				Cause(err).
				Build()
		}
		return fromInt(k, n), nil
	case k.IsPrimitive():
		n, err := strconv.ParseUint(strings.TrimSpace(s), 0, k.Width()*8)
		if err != nil {
			return Value{}, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				FieldKind(k.String()).
				Value(s).
				Cause(err).
				Build()
		}
		return fromUint(k, n), nil
	}
	return Value{}, errors.Unsupported(errors.PhaseEncode, "parse "+k.String()+" from text")
}

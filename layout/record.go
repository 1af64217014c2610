package layout

import (
	"slices"
	"sync/atomic"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

// lease is shared by an Instance and every view derived from it.
type lease struct {
	released atomic.Bool
}

// Record is a layout bound to a byte region. Nested record fields and record
// array elements are Records over a sub-slice of the same storage.
type Record struct {
	layout *Layout
	lease  *lease
	buf    []byte
	fields []accessor
	path   []string
}

// Layout returns the layout the record was bound with.
func (r *Record) Layout() *Layout { return r.layout }

// Fields returns the field descriptors in declaration order.
func (r *Record) Fields() []Field { return r.layout.Fields() }

// Get reads a field.
func (r *Record) Get(name string) (Value, error) {
	a, err := r.accessor(name)
	if err != nil {
		return Value{}, err
	}
	v, err := a.get()
	if err != nil {
		return Value{}, annotate(err, r.pathTo(name))
	}
	return v, nil
}

// Set writes a field. Integer fields accept any integer Value and wrap to the
// field width unless the layout was built WithStrictIntegers.
func (r *Record) Set(name string, v Value) error {
	a, err := r.accessor(name)
	if err != nil {
		return err
	}
	if err := a.set(v); err != nil {
		return annotate(err, r.pathTo(name))
	}
	return nil
}

func (r *Record) accessor(name string) (accessor, error) {
	if r.lease.released.Load() {
		return nil, errors.Released(r.pathTo(name))
	}
	i, ok := r.layout.index[name]
	if !ok {
		return nil, errors.FieldUnknown(r.pathTo(name), name)
	}
	return r.fields[i], nil
}

func (r *Record) pathTo(seg ...string) []string {
	return append(slices.Clip(r.path), seg...)
}

func (r *Record) must(name string, k codec.Kind) Value {
	v, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	if v.kind != k {
		panic(errors.TypeMismatch(errors.PhaseAccess, r.pathTo(name), v.kind.String(), k.String()))
	}
	return v
}

func (r *Record) mustSet(name string, k codec.Kind, v Value) {
	if f, ok := r.layout.Field(name); ok && f.Kind != k {
		panic(errors.TypeMismatch(errors.PhaseAccess, r.pathTo(name), f.Kind.String(), k.String()))
	}
	if err := r.Set(name, v); err != nil {
		panic(err)
	}
}

// The typed accessors below panic with an *errors.Error when the field is
// missing or has a different kind, in the manner of reflect.Value.

func (r *Record) Int8(name string) int8     { return int8(r.must(name, codec.KindS8).Int()) }
func (r *Record) Uint8(name string) uint8   { return uint8(r.must(name, codec.KindU8).Uint()) }
func (r *Record) Int16(name string) int16   { return int16(r.must(name, codec.KindS16).Int()) }
func (r *Record) Uint16(name string) uint16 { return uint16(r.must(name, codec.KindU16).Uint()) }
func (r *Record) Int32(name string) int32   { return int32(r.must(name, codec.KindS32).Int()) }
func (r *Record) Uint32(name string) uint32 { return uint32(r.must(name, codec.KindU32).Uint()) }
func (r *Record) Int64(name string) int64   { return r.must(name, codec.KindS64).Int() }
func (r *Record) Uint64(name string) uint64 { return r.must(name, codec.KindU64).Uint() }
func (r *Record) Str(name string) string    { return r.must(name, codec.KindString).Str() }

func (r *Record) SetInt8(name string, v int8) {
	r.mustSet(name, codec.KindS8, fromInt(codec.KindS8, int64(v)))
}

func (r *Record) SetUint8(name string, v uint8) {
	r.mustSet(name, codec.KindU8, fromUint(codec.KindU8, uint64(v)))
}

func (r *Record) SetInt16(name string, v int16) {
	r.mustSet(name, codec.KindS16, fromInt(codec.KindS16, int64(v)))
}

func (r *Record) SetUint16(name string, v uint16) {
	r.mustSet(name, codec.KindU16, fromUint(codec.KindU16, uint64(v)))
}

func (r *Record) SetInt32(name string, v int32) {
	r.mustSet(name, codec.KindS32, fromInt(codec.KindS32, int64(v)))
}

func (r *Record) SetUint32(name string, v uint32) {
	r.mustSet(name, codec.KindU32, fromUint(codec.KindU32, uint64(v)))
}

func (r *Record) SetInt64(name string, v int64) {
	r.mustSet(name, codec.KindS64, fromInt(codec.KindS64, v))
}

func (r *Record) SetUint64(name string, v uint64) {
	r.mustSet(name, codec.KindU64, fromUint(codec.KindU64, v))
}

func (r *Record) SetStr(name string, v string) {
	r.mustSet(name, codec.KindString, Str(v))
}

// Record returns the nested record view of a record field.
func (r *Record) Record(name string) *Record { return r.must(name, codec.KindRecord).Record() }

// Array returns the live view of an array field.
func (r *Record) Array(name string) *Array { return r.must(name, codec.KindArray).Array() }

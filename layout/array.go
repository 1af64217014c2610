package layout

import (
	"math"
	"slices"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

// ArrayBuilder chooses the element type of an array of a fixed length.
type ArrayBuilder struct {
	cfg config
	n   int
}

// Len returns the element count this builder was created for.
func (a ArrayBuilder) Len() int { return a.n }

// The scalar element constructors use the little-endian codec of their kind.

func (a ArrayBuilder) Int8() ArraySpec   { return a.primitive(codec.KindS8) }
func (a ArrayBuilder) Uint8() ArraySpec  { return a.primitive(codec.KindU8) }
func (a ArrayBuilder) Int16() ArraySpec  { return a.primitive(codec.KindS16) }
func (a ArrayBuilder) Uint16() ArraySpec { return a.primitive(codec.KindU16) }
func (a ArrayBuilder) Int32() ArraySpec  { return a.primitive(codec.KindS32) }
func (a ArrayBuilder) Uint32() ArraySpec { return a.primitive(codec.KindU32) }
func (a ArrayBuilder) Int64() ArraySpec  { return a.primitive(codec.KindS64) }
func (a ArrayBuilder) Uint64() ArraySpec { return a.primitive(codec.KindU64) }

func (a ArrayBuilder) primitive(k codec.Kind) ArraySpec {
	return a.spec(ArraySpec{kind: k, width: k.Width()})
}

// String declares elements that are fixed-length strings of length bytes.
func (a ArrayBuilder) String(length int) ArraySpec {
	s := ArraySpec{kind: codec.KindString, width: length, strLen: length}
	if length <= 0 {
		s.err = errors.InvalidSize(nil, "string length", length)
	}
	return a.spec(s)
}

// Record declares elements laid out by l. The layout is compiled once and
// bound separately to every element's slice.
func (a ArrayBuilder) Record(l *Layout) ArraySpec {
	s := ArraySpec{kind: codec.KindRecord, elem: l}
	switch {
	case l == nil:
		s.err = errors.NilPointer(errors.PhaseSchema, nil, "element layout")
	case l.size == 0:
		s.err = errors.InvalidSize(nil, "element size", 0)
	default:
		s.width = l.size
	}
	return a.spec(s)
}

// Array declares elements that are themselves arrays of n elements.
func (a ArrayBuilder) Array(n int, fn func(ArrayBuilder) ArraySpec) ArraySpec {
	s := ArraySpec{kind: codec.KindArray}
	if fn == nil {
		s.err = errors.NilPointer(errors.PhaseSchema, nil, "array element function")
		return a.spec(s)
	}
	inner := fn(ArrayBuilder{n: n, cfg: a.cfg})
	switch {
	case inner.err != nil:
		s.err = prefix(inner.err, "[]")
	case inner.n != n:
		s.err = errors.InvalidSize([]string{"[]"}, "inner array length", inner.n)
	default:
		s.inner = &inner
		s.width = inner.Size()
	}
	return a.spec(s)
}

func (a ArrayBuilder) spec(s ArraySpec) ArraySpec {
	s.n = a.n
	s.cfg = a.cfg
	switch {
	case s.err != nil:
	case a.n <= 0:
		s.err = errors.InvalidSize(nil, "array length", a.n)
	case s.width > 0 && a.n > math.MaxInt/s.width:
		// n*width must stay representable for Size and element offsets.
		s.err = errors.InvalidSize(nil, "array length for element width", a.n)
	}
	return s
}

// ArraySpec is the compiled shape of an array: element count, element type
// and element width.
type ArraySpec struct {
	elem   *Layout
	inner  *ArraySpec
	err    error
	cfg    config
	n      int
	width  int
	strLen int
	kind   codec.Kind
}

// Len returns the element count.
func (s ArraySpec) Len() int { return s.n }

// ElemWidth returns the byte width of one element.
func (s ArraySpec) ElemWidth() int { return s.width }

// Size returns the total byte width, Len()*ElemWidth().
func (s ArraySpec) Size() int { return s.n * s.width }

// Elem returns the element kind.
func (s ArraySpec) Elem() codec.Kind { return s.kind }

// ElemLayout returns the element layout of a record array.
func (s ArraySpec) ElemLayout() *Layout { return s.elem }

// ElemArray returns the element shape of an array of arrays.
func (s ArraySpec) ElemArray() *ArraySpec { return s.inner }

// StringLen returns the element length of a string array.
func (s ArraySpec) StringLen() int { return s.strLen }

func (s *ArraySpec) bind(buf []byte, ls *lease, path []string) *Array {
	arr := &Array{spec: s, buf: buf, lease: ls, path: path, elems: make([]accessor, s.n)}
	for i := range s.n {
		arr.elems[i] = s.install(buf, i*s.width, ls, append(slices.Clip(path), indexSegment(i)))
	}
	return arr
}

func (s *ArraySpec) install(buf []byte, off int, ls *lease, path []string) accessor {
	switch s.kind {
	case codec.KindString:
		return &text{buf: buf, off: off, c: s.cfg.stringCodec(s.strLen)}
	case codec.KindRecord:
		return &nested{rec: s.elem.bindRecord(window(buf, off, s.width), ls, path)}
	case codec.KindArray:
		return &sub{arr: s.inner.bind(window(buf, off, s.width), ls, path)}
	default:
		return &scalar{buf: buf, off: off, kind: s.kind, strict: s.cfg.strictInts}
	}
}

func sameShape(a, b *ArraySpec) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.n == b.n && a.width == b.width && a.kind == b.kind &&
		a.strLen == b.strLen && a.elem == b.elem && sameShape(a.inner, b.inner)
}

// Array is a live view of an array field. Record and array elements are views
// over their own slice of the same storage.
type Array struct {
	spec  *ArraySpec
	lease *lease
	buf   []byte
	elems []accessor
	path  []string
}

// Len returns the element count.
func (a *Array) Len() int { return a.spec.n }

// Spec returns the compiled shape the view was bound from.
func (a *Array) Spec() *ArraySpec { return a.spec }

// Kind returns the element kind.
func (a *Array) Kind() codec.Kind { return a.spec.kind }

// Get reads element i.
func (a *Array) Get(i int) (Value, error) {
	e, err := a.elem(i)
	if err != nil {
		return Value{}, err
	}
	v, err := e.get()
	if err != nil {
		return Value{}, annotate(err, a.pathTo(i))
	}
	return v, nil
}

// Set writes element i, with the same conversion rules as Record.Set.
func (a *Array) Set(i int, v Value) error {
	e, err := a.elem(i)
	if err != nil {
		return err
	}
	if err := e.set(v); err != nil {
		return annotate(err, a.pathTo(i))
	}
	return nil
}

// Values reads every element in index order.
func (a *Array) Values() ([]Value, error) {
	out := make([]Value, a.Len())
	for i := range out {
		v, err := a.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (a *Array) elem(i int) (accessor, error) {
	if a.lease.released.Load() {
		return nil, errors.Released(a.pathTo(i))
	}
	if i < 0 || i >= len(a.elems) {
		return nil, errors.OutOfBounds(errors.PhaseAccess, a.path, i, len(a.elems))
	}
	return a.elems[i], nil
}

func (a *Array) pathTo(i int) []string {
	return append(slices.Clip(a.path), indexSegment(i))
}

func (a *Array) must(i int, ok func(codec.Kind) bool, want string) Value {
	v, err := a.Get(i)
	if err != nil {
		panic(err)
	}
	if !ok(v.kind) {
		panic(errors.TypeMismatch(errors.PhaseAccess, a.pathTo(i), v.kind.String(), want))
	}
	return v
}

func (a *Array) mustSet(i int, v Value) {
	if err := a.Set(i, v); err != nil {
		panic(err)
	}
}

func isKind(k codec.Kind) func(codec.Kind) bool {
	return func(got codec.Kind) bool { return got == k }
}

// The element accessors below panic with an *errors.Error on a bad index or
// element kind.

func (a *Array) Int(i int) int64 { return a.must(i, codec.Kind.IsPrimitive, "integer").Int() }

func (a *Array) Uint(i int) uint64 { return a.must(i, codec.Kind.IsPrimitive, "integer").Uint() }

func (a *Array) Str(i int) string { return a.must(i, isKind(codec.KindString), "string").Str() }

// Record returns the view of record element i.
func (a *Array) Record(i int) *Record {
	return a.must(i, isKind(codec.KindRecord), "record").Record()
}

// Array returns the view of array element i.
func (a *Array) Array(i int) *Array {
	return a.must(i, isKind(codec.KindArray), "array").Array()
}

func (a *Array) SetInt(i int, v int64) { a.mustSet(i, Int(v)) }

func (a *Array) SetUint(i int, v uint64) { a.mustSet(i, Uint(v)) }

func (a *Array) SetStr(i int, v string) { a.mustSet(i, Str(v)) }

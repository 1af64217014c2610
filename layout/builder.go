package layout

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

// Field describes one declared field of a layout.
type Field struct {
	Layout *Layout    // element layout of a record field
	Array  *ArraySpec // shape of an array field
	Name   string
	Offset int
	Width  int
	Length int // byte length of a string field
	Kind   codec.Kind
}

type step struct {
	prev    *step
	install installer
	field   Field
}

// Builder accumulates fields in declaration order. It is an immutable value:
// every method returns a new Builder and leaves the receiver untouched, so an
// intermediate builder can be extended along several branches.
//
// The first schema error sticks; later calls are no-ops and Build reports it.
type Builder struct {
	tail *step
	err  error
	cfg  config
	size int
	n    int
}

// New returns an empty, zero-size builder.
func New(opts ...Option) Builder {
	var b Builder
	for _, opt := range opts {
		opt(&b.cfg)
	}
	return b
}

// Size returns the number of bytes declared so far, gaps included.
func (b Builder) Size() int { return b.size }

// Err returns the first schema error, if any.
func (b Builder) Err() error { return b.err }

// The scalar field declarations append a little-endian integer of the kind's
// width.

func (b Builder) Int8(name string) Builder   { return b.primitive(name, codec.KindS8) }
func (b Builder) Uint8(name string) Builder  { return b.primitive(name, codec.KindU8) }
func (b Builder) Int16(name string) Builder  { return b.primitive(name, codec.KindS16) }
func (b Builder) Uint16(name string) Builder { return b.primitive(name, codec.KindU16) }
func (b Builder) Int32(name string) Builder  { return b.primitive(name, codec.KindS32) }
func (b Builder) Uint32(name string) Builder { return b.primitive(name, codec.KindU32) }
func (b Builder) Int64(name string) Builder  { return b.primitive(name, codec.KindS64) }
func (b Builder) Uint64(name string) Builder { return b.primitive(name, codec.KindU64) }

func (b Builder) primitive(name string, k codec.Kind) Builder {
	strict := b.cfg.strictInts
	return b.add(Field{Name: name, Kind: k, Width: k.Width()},
		func(buf []byte, off int, _ *lease, _ []string) accessor {
			return &scalar{buf: buf, off: off, kind: k, strict: strict}
		})
}

// String declares a fixed-length single-byte string of length bytes.
func (b Builder) String(name string, length int) Builder {
	if b.err == nil && length <= 0 {
		return b.fail(errors.InvalidSize([]string{name}, "string length", length))
	}
	sc := b.cfg.stringCodec(length)
	return b.add(Field{Name: name, Kind: codec.KindString, Width: length, Length: length},
		func(buf []byte, off int, _ *lease, _ []string) accessor {
			return &text{buf: buf, off: off, c: sc}
		})
}

// Record embeds a compiled layout. The nested view aliases the parent region.
func (b Builder) Record(name string, l *Layout) Builder {
	if b.err != nil {
		return b
	}
	if l == nil {
		return b.fail(errors.NilPointer(errors.PhaseSchema, []string{name}, "record layout"))
	}
	if l.size == 0 {
		return b.fail(errors.InvalidSize([]string{name}, "record size", 0))
	}
	return b.add(Field{Name: name, Kind: codec.KindRecord, Width: l.size, Layout: l},
		func(buf []byte, off int, ls *lease, path []string) accessor {
			return &nested{rec: l.bindRecord(window(buf, off, l.size), ls, path)}
		})
}

// Array declares n elements whose type is chosen by fn.
//
//	layout.New().Array("grid", 4, func(a layout.ArrayBuilder) layout.ArraySpec {
//		return a.Array(10, func(a layout.ArrayBuilder) layout.ArraySpec { return a.Uint32() })
//	})
func (b Builder) Array(name string, n int, fn func(ArrayBuilder) ArraySpec) Builder {
	if b.err != nil {
		return b
	}
	if fn == nil {
		return b.fail(errors.NilPointer(errors.PhaseSchema, []string{name}, "array element function"))
	}
	spec := fn(ArrayBuilder{n: n, cfg: b.cfg})
	if spec.err != nil {
		return b.fail(prefix(spec.err, name))
	}
	if spec.n != n {
		return b.fail(errors.InvalidSize([]string{name}, "array length", spec.n))
	}
	s := &spec
	return b.add(Field{Name: name, Kind: codec.KindArray, Width: s.Size(), Array: s},
		func(buf []byte, off int, ls *lease, path []string) accessor {
			return &sub{arr: s.bind(window(buf, off, s.Size()), ls, path)}
		})
}

// Reserve advances the offset by n bytes without declaring a field.
func (b Builder) Reserve(n int) Builder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		return b.fail(errors.InvalidSize(nil, "reserve", n))
	}
	if n > math.MaxInt-b.size {
		return b.fail(errors.InvalidSize(nil, "reserve past layout size", n))
	}
	b.size += n
	return b
}

func (b Builder) fail(err error) Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b Builder) add(f Field, install installer) Builder {
	if b.err != nil {
		return b
	}
	if err := validName(f.Name); err != nil {
		return b.fail(err)
	}
	if f.Width <= 0 {
		return b.fail(errors.InvalidSize([]string{f.Name}, f.Kind.String()+" width", f.Width))
	}
	for s := b.tail; s != nil; s = s.prev {
		if s.field.Name == f.Name {
			return b.fail(errors.DuplicateField(f.Name))
		}
	}
	if f.Width > math.MaxInt-b.size {
		return b.fail(errors.InvalidSize([]string{f.Name}, "offset past layout size", b.size))
	}

	f.Offset = b.size
	b.tail = &step{prev: b.tail, field: f, install: install}
	b.size += f.Width
	b.n++
	return b
}

// validName rejects names that the path syntax could not address.
func validName(name string) error {
	if name == "" || strings.ContainsAny(name, ".[]") {
		return errors.New(errors.PhaseSchema, errors.KindInvalidName).
			Value(name).
			Detail("field name %q must be non-empty and must not contain '.', '[' or ']'", name).
			Build()
	}
	return nil
}

// Build freezes the builder into a Layout. No layout is returned when any
// field operation failed.
func (b Builder) Build() (*Layout, error) {
	if b.err != nil {
		return nil, b.err
	}

	l := &Layout{
		size:    b.size,
		fields:  make([]Field, b.n),
		install: make([]installer, b.n),
		index:   make(map[string]int, b.n),
	}
	i := b.n - 1
	for s := b.tail; s != nil; s = s.prev {
		l.fields[i] = s.field
		l.install[i] = s.install
		i--
	}
	for i, f := range l.fields {
		l.index[f.Name] = i
	}

	Logger().Debug("layout compiled",
		zap.Int("size", l.size),
		zap.Int("fields", len(l.fields)))
	return l, nil
}

// MustBuild is like Build but panics on a schema error.
func (b Builder) MustBuild() *Layout {
	l, err := b.Build()
	if err != nil {
		panic(err)
	}
	return l
}

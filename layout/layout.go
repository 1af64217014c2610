package layout

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	bufstruct "github.com/wippyai/bufstruct"
	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

// Layout is a compiled, immutable record description. It is safe for
// concurrent use; the Instances it produces are not.
type Layout struct {
	index   map[string]int
	fields  []Field
	install []installer
	size    int
}

// Size returns the total byte size of the layout.
func (l *Layout) Size() int { return l.size }

// CheckSize reports whether region is exactly Size bytes long.
func (l *Layout) CheckSize(region []byte) bool {
	return len(region) == l.size
}

// Validate is CheckSize returning a size_mismatch error.
func (l *Layout) Validate(region []byte) error {
	if !l.CheckSize(region) {
		return errors.SizeMismatch(l.size, len(region))
	}
	return nil
}

// Fields returns the field descriptors in declaration order.
func (l *Layout) Fields() []Field {
	return slices.Clone(l.fields)
}

// Field returns the descriptor of the named field.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// New binds the layout to a freshly allocated, zero-filled region of exactly
// Size bytes.
func (l *Layout) New() *Instance {
	Logger().Debug("layout allocated", zap.Int("size", l.size))
	return l.instance(make([]byte, l.size))
}

// Bind binds the layout to region without copying it. The region length must
// equal Size unless Unchecked is given.
func (l *Layout) Bind(region []byte, opts ...BindOption) (*Instance, error) {
	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.unchecked {
		if err := l.Validate(region); err != nil {
			return nil, err
		}
	}

	Logger().Debug("layout bound",
		zap.Int("size", l.size),
		zap.Int("region", len(region)),
		zap.Bool("unchecked", cfg.unchecked))
	return l.instance(region), nil
}

// BindAt binds the layout to Size bytes of mem starting at offset.
func (l *Layout) BindAt(mem bufstruct.Memory, offset uint32, opts ...BindOption) (*Instance, error) {
	if mem == nil {
		return nil, errors.NilPointer(errors.PhaseBind, nil, "memory")
	}
	view, err := mem.View(offset, uint32(l.size))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBind, errors.KindOutOfBounds, err,
			fmt.Sprintf("view %d bytes at offset %d", l.size, offset))
	}
	return l.Bind(view, opts...)
}

func (l *Layout) instance(buf []byte) *Instance {
	return &Instance{record: l.bindRecord(buf, &lease{}, nil)}
}

func (l *Layout) bindRecord(buf []byte, ls *lease, path []string) *Record {
	r := &Record{
		layout: l,
		lease:  ls,
		buf:    buf,
		fields: make([]accessor, len(l.fields)),
		path:   path,
	}
	for i, f := range l.fields {
		r.fields[i] = l.install[i](buf, f.Offset, ls, append(slices.Clip(path), f.Name))
	}
	return r
}

// String renders the layout as an offset table.
func (l *Layout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "layout %d bytes\n", l.size)
	end := 0
	for _, f := range l.fields {
		if f.Offset > end {
			fmt.Fprintf(&b, "  %4d  %-16s %d bytes\n", end, "(reserved)", f.Offset-end)
		}
		fmt.Fprintf(&b, "  %4d  %-16s %s\n", f.Offset, f.Name, describe(f))
		end = f.Offset + f.Width
	}
	if l.size > end {
		fmt.Fprintf(&b, "  %4d  %-16s %d bytes\n", end, "(reserved)", l.size-end)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func describe(f Field) string {
	switch f.Kind {
	case codec.KindString:
		return fmt.Sprintf("string(%d)", f.Length)
	case codec.KindRecord:
		return fmt.Sprintf("record(%d)", f.Width)
	case codec.KindArray:
		return describeArray(f.Array)
	}
	return f.Kind.String()
}

func describeArray(s *ArraySpec) string {
	var elem string
	switch s.kind {
	case codec.KindString:
		elem = fmt.Sprintf("string(%d)", s.strLen)
	case codec.KindRecord:
		elem = fmt.Sprintf("record(%d)", s.width)
	case codec.KindArray:
		elem = describeArray(s.inner)
	default:
		elem = s.kind.String()
	}
	return fmt.Sprintf("[%d]%s", s.n, elem)
}

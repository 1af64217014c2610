package witlayout

import (
	"fmt"
	"slices"
	"strconv"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
	"github.com/wippyai/bufstruct/layout"
)

type config struct {
	layoutOpts []layout.Option
	aligned    bool
}

// Option configures FromType.
type Option func(*config)

// Aligned places fields at their canonical-ABI offsets, reserving the
// padding between them and at the end of each record.
func Aligned() Option {
	return func(c *config) { c.aligned = true }
}

// WithLayoutOptions passes opts to every layout builder FromType creates.
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(c *config) { c.layoutOpts = append(c.layoutOpts, opts...) }
}

// FromType compiles a WIT record type, or an alias of one, into a Layout.
func FromType(t wit.Type, opts ...Option) (*layout.Layout, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if t == nil {
		return nil, errors.NilPointer(errors.PhaseImport, nil, "type")
	}

	td, ok := underlying(t).(*wit.TypeDef)
	if !ok {
		return nil, unsupported(nil, t, "top-level type must be a record")
	}
	r, ok := td.Kind.(*wit.Record)
	if !ok {
		return nil, unsupported(nil, t, "top-level type must be a record")
	}

	c := &compiler{
		cfg:     cfg,
		calc:    NewCalculator(),
		records: make(map[*wit.TypeDef]*layout.Layout),
	}
	l, err := c.named(td, r, nil)
	if err != nil {
		return nil, err
	}

	Logger().Debug("compiled wit type",
		zap.String("type", typeName(t)),
		zap.Int("size", l.Size()),
		zap.Bool("aligned", cfg.aligned))
	return l, nil
}

type compiler struct {
	calc    *Calculator
	records map[*wit.TypeDef]*layout.Layout
	cfg     config
}

// named compiles a record typedef once and reuses the layout for every
// later field or element of the same type.
func (c *compiler) named(td *wit.TypeDef, r *wit.Record, path []string) (*layout.Layout, error) {
	if l, ok := c.records[td]; ok {
		return l, nil
	}
	l, err := c.record(r.Fields, path)
	if err != nil {
		return nil, err
	}
	c.records[td] = l
	return l, nil
}

func (c *compiler) record(fields []wit.Field, path []string) (*layout.Layout, error) {
	b := layout.New(c.cfg.layoutOpts...)
	maxAlign := uint32(1)
	var err error
	for _, f := range fields {
		fp := append(slices.Clip(path), f.Name)
		if c.cfg.aligned {
			info := c.calc.Calculate(f.Type)
			maxAlign = max(maxAlign, info.Align)
			b = b.Reserve(int(alignTo(uint32(b.Size()), info.Align)) - b.Size())
		}
		if b, err = c.field(b, f.Name, f.Type, fp); err != nil {
			return nil, err
		}
	}
	if c.cfg.aligned {
		b = b.Reserve(int(alignTo(uint32(b.Size()), maxAlign)) - b.Size())
	}

	l, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseImport, errors.KindInvalidData, err,
			fmt.Sprintf("record %s", joinOr(path, "<root>")))
	}
	return l, nil
}

// tuple compiles a mixed tuple as a record with positional field names.
func (c *compiler) tuple(t *wit.Tuple, path []string) (*layout.Layout, error) {
	fields := make([]wit.Field, len(t.Types))
	for i, typ := range t.Types {
		fields[i] = wit.Field{Name: strconv.Itoa(i), Type: typ}
	}
	return c.record(fields, path)
}

func (c *compiler) field(b layout.Builder, name string, t wit.Type, path []string) (layout.Builder, error) {
	if k, ok := scalarKind(t); ok {
		return addScalar(b, name, k), nil
	}

	td, ok := underlying(t).(*wit.TypeDef)
	if !ok {
		return b, unsupported(path, t, "")
	}
	switch kind := td.Kind.(type) {
	case *wit.Record:
		l, err := c.named(td, kind, path)
		if err != nil {
			return b, err
		}
		return b.Record(name, l), nil
	case *wit.Flags:
		if n := len(kind.Flags); n > 32 {
			return b.Array(name, flagWords(n), layout.ArrayBuilder.Uint32), nil
		}
	case *wit.Tuple:
		if elem, ok := homogeneous(kind); ok {
			var err error
			b = b.Array(name, len(kind.Types), func(a layout.ArrayBuilder) layout.ArraySpec {
				var spec layout.ArraySpec
				spec, err = c.elem(a, elem, append(slices.Clip(path), "[]"))
				return spec
			})
			return b, err
		}
		if len(kind.Types) > 0 {
			l, err := c.tuple(kind, path)
			if err != nil {
				return b, err
			}
			return b.Record(name, l), nil
		}
	}
	return b, unsupported(path, t, "")
}

func (c *compiler) elem(a layout.ArrayBuilder, t wit.Type, path []string) (layout.ArraySpec, error) {
	if k, ok := scalarKind(t); ok {
		return arrayScalar(a, k), nil
	}

	td, ok := underlying(t).(*wit.TypeDef)
	if !ok {
		return layout.ArraySpec{}, unsupported(path, t, "")
	}
	switch kind := td.Kind.(type) {
	case *wit.Record:
		l, err := c.named(td, kind, path)
		if err != nil {
			return layout.ArraySpec{}, err
		}
		return a.Record(l), nil
	case *wit.Flags:
		if n := len(kind.Flags); n > 32 {
			return a.Array(flagWords(n), layout.ArrayBuilder.Uint32), nil
		}
	case *wit.Tuple:
		if inner, ok := homogeneous(kind); ok {
			var err error
			spec := a.Array(len(kind.Types), func(a layout.ArrayBuilder) layout.ArraySpec {
				var s layout.ArraySpec
				s, err = c.elem(a, inner, append(slices.Clip(path), "[]"))
				return s
			})
			return spec, err
		}
		if len(kind.Types) > 0 {
			l, err := c.tuple(kind, path)
			if err != nil {
				return layout.ArraySpec{}, err
			}
			return a.Record(l), nil
		}
	}
	return layout.ArraySpec{}, unsupported(path, t, "")
}

// scalarKind maps types stored as a single integer.
func scalarKind(t wit.Type) (codec.Kind, bool) {
	switch typ := underlying(t).(type) {
	case wit.Bool, wit.U8:
		return codec.KindU8, true
	case wit.S8:
		return codec.KindS8, true
	case wit.U16:
		return codec.KindU16, true
	case wit.S16:
		return codec.KindS16, true
	case wit.U32:
		return codec.KindU32, true
	case wit.S32:
		return codec.KindS32, true
	case wit.U64:
		return codec.KindU64, true
	case wit.S64:
		return codec.KindS64, true
	case *wit.TypeDef:
		switch kind := typ.Kind.(type) {
		case *wit.Enum:
			if len(kind.Cases) > 0 {
				return unsignedOfWidth(discriminantSize(len(kind.Cases))), true
			}
		case *wit.Flags:
			if n := len(kind.Flags); n > 0 && n <= 32 {
				return unsignedOfWidth(flagsInfo(n).Size), true
			}
		}
	}
	return 0, false
}

func unsignedOfWidth(size uint32) codec.Kind {
	switch size {
	case 1:
		return codec.KindU8
	case 2:
		return codec.KindU16
	case 4:
		return codec.KindU32
	}
	return codec.KindU64
}

func addScalar(b layout.Builder, name string, k codec.Kind) layout.Builder {
	switch k {
	case codec.KindS8:
		return b.Int8(name)
	case codec.KindU8:
		return b.Uint8(name)
	case codec.KindS16:
		return b.Int16(name)
	case codec.KindU16:
		return b.Uint16(name)
	case codec.KindS32:
		return b.Int32(name)
	case codec.KindU32:
		return b.Uint32(name)
	case codec.KindS64:
		return b.Int64(name)
	}
	return b.Uint64(name)
}

func arrayScalar(a layout.ArrayBuilder, k codec.Kind) layout.ArraySpec {
	switch k {
	case codec.KindS8:
		return a.Int8()
	case codec.KindU8:
		return a.Uint8()
	case codec.KindS16:
		return a.Int16()
	case codec.KindU16:
		return a.Uint16()
	case codec.KindS32:
		return a.Int32()
	case codec.KindU32:
		return a.Uint32()
	case codec.KindS64:
		return a.Int64()
	}
	return a.Uint64()
}

// homogeneous reports the element type of a non-empty tuple whose elements
// are all the same type.
func homogeneous(t *wit.Tuple) (wit.Type, bool) {
	if len(t.Types) == 0 {
		return nil, false
	}
	first := underlying(t.Types[0])
	for _, typ := range t.Types[1:] {
		if underlying(typ) != first {
			return nil, false
		}
	}
	return first, true
}

// underlying follows type aliases.
func underlying(t wit.Type) wit.Type {
	for {
		td, ok := t.(*wit.TypeDef)
		if !ok {
			return t
		}
		alias, ok := td.Kind.(wit.Type)
		if !ok {
			return td
		}
		t = alias
	}
}

func unsupported(path []string, t wit.Type, detail string) error {
	if detail == "" {
		detail = typeName(t) + " has no fixed-size layout"
	}
	return errors.New(errors.PhaseImport, errors.KindUnsupported).
		Path(path...).
		FieldKind(typeName(t)).
		Detail(detail).
		Build()
}

func typeName(t wit.Type) string {
	switch typ := underlying(t).(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if typ.Name != nil {
			return *typ.Name
		}
		switch typ.Kind.(type) {
		case *wit.Record:
			return "record"
		case *wit.Tuple:
			return "tuple"
		case *wit.Enum:
			return "enum"
		case *wit.Flags:
			return "flags"
		case *wit.List:
			return "list"
		case *wit.Option:
			return "option"
		case *wit.Result:
			return "result"
		case *wit.Variant:
			return "variant"
		}
		return "typedef"
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%T", t)
}

func joinOr(path []string, empty string) string {
	if len(path) == 0 {
		return empty
	}
	return errors.JoinPath(path)
}

package layout

import (
	"strconv"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

// installer produces the live accessor for one field at a fixed offset of buf.
type installer func(buf []byte, off int, ls *lease, path []string) accessor

type accessor interface {
	get() (Value, error)
	set(Value) error
}

type scalar struct {
	buf    []byte
	off    int
	kind   codec.Kind
	strict bool
}

func (s *scalar) get() (Value, error) {
	if s.kind.Signed() {
		n, err := codec.ReadInt(s.buf, s.off, s.kind)
		if err != nil {
			return Value{}, err
		}
		return fromInt(s.kind, n), nil
	}
	n, err := codec.ReadUint(s.buf, s.off, s.kind)
	if err != nil {
		return Value{}, err
	}
	return fromUint(s.kind, n), nil
}

func (s *scalar) set(v Value) error {
	if !v.kind.IsPrimitive() {
		return errors.TypeMismatch(errors.PhaseEncode, nil, s.kind.String(), v.kind.String())
	}
	if s.strict && !v.fits(s.kind) {
		return errors.Overflow(errors.PhaseEncode, nil, v, s.kind.String())
	}
	return codec.WriteUint(s.buf, s.off, s.kind, v.bits)
}

type text struct {
	buf []byte
	off int
	c   codec.StringCodec
}

func (t *text) get() (Value, error) {
	s, err := t.c.Read(t.buf, t.off)
	if err != nil {
		return Value{}, err
	}
	return Str(s), nil
}

func (t *text) set(v Value) error {
	if v.kind != codec.KindString {
		return errors.TypeMismatch(errors.PhaseEncode, nil, "string("+strconv.Itoa(t.c.Length)+")", v.kind.String())
	}
	return t.c.Write(t.buf, t.off, v.str)
}

type nested struct {
	rec *Record
}

func (n *nested) get() (Value, error) {
	return RecordOf(n.rec), nil
}

// set copies the bytes of another view of the same layout.
func (n *nested) set(v Value) error {
	if v.kind != codec.KindRecord || v.rec == nil || v.rec.layout != n.rec.layout {
		return errors.TypeMismatch(errors.PhaseEncode, nil, "record", v.kind.String())
	}
	if v.rec.lease.released.Load() {
		return errors.Released(v.rec.path)
	}
	copy(n.rec.buf, v.rec.buf)
	return nil
}

type sub struct {
	arr *Array
}

func (s *sub) get() (Value, error) {
	return ArrayOf(s.arr), nil
}

func (s *sub) set(v Value) error {
	if v.kind != codec.KindArray || v.arr == nil || !sameShape(v.arr.spec, s.arr.spec) {
		return errors.TypeMismatch(errors.PhaseEncode, nil, "array", v.kind.String())
	}
	if v.arr.lease.released.Load() {
		return errors.Released(v.arr.path)
	}
	copy(s.arr.buf, v.arr.buf)
	return nil
}

// window returns buf[off:off+width], clipped to len(buf) for unchecked regions.
func window(buf []byte, off, width int) []byte {
	lo := min(off, len(buf))
	hi := min(off+width, len(buf))
	return buf[lo:hi:hi]
}

func annotate(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		return e.WithPath(path...)
	}
	return err
}

// prefix prepends path to a schema error raised inside a nested definition.
func prefix(err error, path ...string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithPath(path...)
	}
	return err
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

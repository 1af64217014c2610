package layout

import (
	"strconv"
	"strings"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

type segment struct {
	name  string
	index int // -1 for named segments
}

// parsePath splits "hdr.items[2].id" into named and indexed segments.
func parsePath(p string) ([]segment, error) {
	bad := func(detail string) error {
		return errors.New(errors.PhaseAccess, errors.KindInvalidPath).
			Value(p).
			Detail("%s in path %q", detail, p).
			Build()
	}

	var segs []segment
	rest := p
	expectName := true
	for rest != "" || expectName {
		if expectName {
			end := strings.IndexAny(rest, ".[]")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return nil, bad("empty field name")
			}
			segs = append(segs, segment{name: rest[:end], index: -1})
			rest = rest[end:]
			expectName = false
			continue
		}

		switch rest[0] {
		case '.':
			rest = rest[1:]
			expectName = true
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, bad("unterminated index")
			}
			i, err := strconv.Atoi(rest[1:end])
			if err != nil || i < 0 {
				return nil, bad("invalid index " + strconv.Quote(rest[1:end]))
			}
			segs = append(segs, segment{index: i})
			rest = rest[end+1:]
		default:
			return nil, bad("unexpected " + strconv.QuoteRune(rune(rest[0])))
		}
	}
	return segs, nil
}

func descend(cur Value, seg segment) (Value, error) {
	if seg.index < 0 {
		if cur.kind != codec.KindRecord {
			return Value{}, errors.TypeMismatch(errors.PhaseAccess, nil, cur.kind.String(), "record")
		}
		return cur.rec.Get(seg.name)
	}
	if cur.kind != codec.KindArray {
		return Value{}, errors.TypeMismatch(errors.PhaseAccess, nil, cur.kind.String(), "array")
	}
	return cur.arr.Get(seg.index)
}

func (r *Record) resolve(segs []segment) (Value, error) {
	cur := RecordOf(r)
	for _, seg := range segs {
		next, err := descend(cur, seg)
		if err != nil {
			return Value{}, err
		}
		cur = next
	}
	return cur, nil
}

// Lookup reads the value addressed by a dotted, indexed path such as
// "header.items[2].id".
func (r *Record) Lookup(path string) (Value, error) {
	segs, err := parsePath(path)
	if err != nil {
		return Value{}, err
	}
	return r.resolve(segs)
}

// Assign writes v to the field or element addressed by path.
func (r *Record) Assign(path string, v Value) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	parent, err := r.resolve(segs[:len(segs)-1])
	if err != nil {
		return err
	}
	last := segs[len(segs)-1]
	if last.index < 0 {
		if parent.kind != codec.KindRecord {
			return errors.TypeMismatch(errors.PhaseAccess, nil, parent.kind.String(), "record")
		}
		return parent.rec.Set(last.name, v)
	}
	if parent.kind != codec.KindArray {
		return errors.TypeMismatch(errors.PhaseAccess, nil, parent.kind.String(), "array")
	}
	return parent.arr.Set(last.index, v)
}

// Walk calls fn for every integer and string leaf in declaration and index
// order. Paths are in the form accepted by Lookup.
func (r *Record) Walk(fn func(path string, v Value) error) error {
	return walk("", RecordOf(r), fn)
}

func walk(prefix string, v Value, fn func(string, Value) error) error {
	switch v.kind {
	case codec.KindRecord:
		for _, f := range v.rec.layout.fields {
			child, err := v.rec.Get(f.Name)
			if err != nil {
				return err
			}
			p := f.Name
			if prefix != "" {
				p = prefix + "." + f.Name
			}
			if err := walk(p, child, fn); err != nil {
				return err
			}
		}
		return nil
	case codec.KindArray:
		for i := range v.arr.Len() {
			child, err := v.arr.Get(i)
			if err != nil {
				return err
			}
			if err := walk(prefix+indexSegment(i), child, fn); err != nil {
				return err
			}
		}
		return nil
	}
	return fn(prefix, v)
}

// Snapshot copies the record into plain Go values: int64 for signed fields,
// uint64 for unsigned fields, string, map[string]any for records and []any
// for arrays.
func (r *Record) Snapshot() (map[string]any, error) {
	out, err := snapshot(RecordOf(r))
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func snapshot(v Value) (any, error) {
	switch v.kind {
	case codec.KindRecord:
		m := make(map[string]any, len(v.rec.layout.fields))
		for _, f := range v.rec.layout.fields {
			child, err := v.rec.Get(f.Name)
			if err != nil {
				return nil, err
			}
			if m[f.Name], err = snapshot(child); err != nil {
				return nil, err
			}
		}
		return m, nil
	case codec.KindArray:
		s := make([]any, v.arr.Len())
		for i := range s {
			child, err := v.arr.Get(i)
			if err != nil {
				return nil, err
			}
			if s[i], err = snapshot(child); err != nil {
				return nil, err
			}
		}
		return s, nil
	case codec.KindString:
		return v.str, nil
	}
	if v.kind.Signed() {
		return v.Int(), nil
	}
	return v.Uint(), nil
}

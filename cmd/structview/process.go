package main

import (
	"fmt"
	"io"
	"os"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bufstruct/layout"
	"github.com/wippyai/bufstruct/memory"
	"github.com/wippyai/bufstruct/witlayout"
)

func compile(res *wit.Resolve, opts options) (*layout.Layout, error) {
	td, err := witlayout.Lookup(res, opts.typeName)
	if err != nil {
		return nil, err
	}
	var wopts []witlayout.Option
	if opts.aligned {
		wopts = append(wopts, witlayout.Aligned())
	}
	return witlayout.FromType(td, wopts...)
}

// process binds the records in data, applies the -set assignments and prints
// every record. It reports whether data was modified.
func process(w io.Writer, l *layout.Layout, data []byte, opts options, st styles) (bool, error) {
	if opts.offset > uint(^uint32(0)) {
		return false, fmt.Errorf("offset %d out of range", opts.offset)
	}
	insts, err := memory.BindAll(memory.Bytes(data), uint32(opts.offset), l, opts.count)
	if err != nil {
		return false, err
	}

	if len(opts.sets) > 0 {
		if opts.record < 0 || opts.record >= len(insts) {
			return false, fmt.Errorf("record %d out of range (count %d)", opts.record, len(insts))
		}
		for _, a := range opts.sets {
			if err := assign(insts[opts.record].View(), a.path, a.value); err != nil {
				return false, err
			}
		}
	}

	for i, inst := range insts {
		title := fmt.Sprintf("%s #%d @ %d", opts.typeName, i, int(opts.offset)+i*l.Size())
		if err := render(w, title, inst.View(), st); err != nil {
			return false, err
		}
	}
	return len(opts.sets) > 0, nil
}

// assign parses text according to the kind of the field at path.
func assign(r *layout.Record, path, text string) error {
	cur, err := r.Lookup(path)
	if err != nil {
		return err
	}
	v, err := layout.ParseValue(cur.Kind(), text)
	if err != nil {
		return err
	}
	return r.Assign(path, v)
}

func writeBack(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat data: %w", err)
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

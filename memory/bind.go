package memory

import (
	"fmt"

	"go.uber.org/zap"

	bufstruct "github.com/wippyai/bufstruct"
	"github.com/wippyai/bufstruct/errors"
	"github.com/wippyai/bufstruct/layout"
)

// Bind binds l to the bytes of mem starting at offset.
func Bind(mem bufstruct.Memory, offset uint32, l *layout.Layout, opts ...layout.BindOption) (*layout.Instance, error) {
	if l == nil {
		return nil, errors.NilPointer(errors.PhaseBind, nil, "layout")
	}
	inst, err := l.BindAt(mem, offset, opts...)
	if err != nil {
		return nil, err
	}
	Logger().Debug("bound layout",
		zap.Uint32("offset", offset),
		zap.Int("size", l.Size()))
	return inst, nil
}

// BindAll binds count consecutive records of l starting at offset.
func BindAll(mem bufstruct.Memory, offset uint32, l *layout.Layout, count int, opts ...layout.BindOption) ([]*layout.Instance, error) {
	if l == nil {
		return nil, errors.NilPointer(errors.PhaseBind, nil, "layout")
	}
	if count < 0 {
		return nil, errors.InvalidInput(errors.PhaseBind, fmt.Sprintf("negative record count %d", count))
	}

	out := make([]*layout.Instance, 0, count)
	size := uint64(l.Size())
	for i := range count {
		at := uint64(offset) + uint64(i)*size
		if at > uint64(^uint32(0)) {
			return nil, errors.OutOfBounds(errors.PhaseBind, nil, i, count)
		}
		inst, err := l.BindAt(mem, uint32(at), opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	Logger().Debug("bound layout array",
		zap.Uint32("offset", offset),
		zap.Int("count", count),
		zap.Int("size", l.Size()))
	return out, nil
}

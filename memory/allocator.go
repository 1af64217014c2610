package memory

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/bufstruct/errors"
	"github.com/wippyai/bufstruct/layout"
)

// NewAllocator wraps a guest's cabi_realloc export.
func NewAllocator(ctx context.Context, fn api.Function) *Allocator {
	if fn == nil {
		return nil
	}
	return &Allocator{Ctx: ctx, Fn: fn}
}

// Allocator reserves guest memory through cabi_realloc.
type Allocator struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc allocates size bytes aligned to align.
func (a *Allocator) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseMemory, errors.KindInvalidData, err, "allocation failed")
	}
	if len(results) == 0 {
		return 0, errors.InvalidData(errors.PhaseMemory, nil, "allocation returned no result")
	}
	return uint32(results[0]), nil
}

// Free releases an allocation made by Alloc.
func (a *Allocator) Free(ptr, size, align uint32) {
	_, _ = a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0)
}

// New allocates room for one l in guest memory, zero-fills it and binds it.
// The guest pointer is returned so it can be handed to an export. Allocation
// may grow mem, so Instances bound earlier should be released first.
func (a *Allocator) New(mem *Wrapper, l *layout.Layout, align uint32) (*layout.Instance, uint32, error) {
	if mem == nil {
		return nil, 0, errors.NilPointer(errors.PhaseMemory, nil, "memory")
	}
	if l == nil {
		return nil, 0, errors.NilPointer(errors.PhaseMemory, nil, "layout")
	}
	size := uint32(l.Size())
	ptr, err := a.Alloc(size, align)
	if err != nil {
		return nil, 0, err
	}
	if err := mem.Write(ptr, make([]byte, size)); err != nil {
		return nil, 0, err
	}
	inst, err := Bind(mem, ptr, l)
	if err != nil {
		return nil, 0, err
	}
	Logger().Debug("allocated layout in guest memory",
		zap.Uint32("ptr", ptr),
		zap.Uint32("size", size),
		zap.Uint32("align", align))
	return inst, ptr, nil
}

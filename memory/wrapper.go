package memory

import (
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/bufstruct/errors"
)

// PageSize is the WebAssembly page size in bytes.
const PageSize = 65536

// Wrap adapts a wazero memory to bufstruct.Memory.
func Wrap(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to bufstruct.Memory.
type Wrapper struct {
	Mem api.Memory
}

// View returns a live view of guest memory. It is valid until the memory
// grows.
func (m *Wrapper) View(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds(offset, length, m.Mem.Size())
	}
	return data, nil
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Write copies data into guest memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return outOfBounds(offset, uint32(len(data)), m.Mem.Size())
	}
	return nil
}

// Grow adds pages to the memory and returns the previous size in pages.
// Views obtained before the call must not be used afterwards.
func (m *Wrapper) Grow(pages uint32) (uint32, error) {
	prev, ok := m.Mem.Grow(pages)
	if !ok {
		return 0, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Value(pages).
			Detail("cannot grow memory by %d pages from %d bytes", pages, m.Mem.Size()).
			Build()
	}
	Logger().Warn("memory grown, views bound before this point may be stale",
		zap.Uint32("previous_pages", prev),
		zap.Uint32("pages", pages))
	return prev, nil
}

func outOfBounds(offset, length, size uint32) error {
	return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
		Value(offset).
		Detail("range [%d, %d) exceeds memory size %d", offset, uint64(offset)+uint64(length), size).
		Build()
}

// Package memory adapts byte storage to bufstruct.Memory so layouts can be
// bound in place.
//
// # WebAssembly linear memory
//
// Wrap exposes a wazero api.Memory. Views returned by it alias the guest's
// memory, so writes through a bound Instance are immediately visible to the
// guest:
//
//	mem := memory.Wrap(mod.ExportedMemory("memory"))
//	inst, err := memory.Bind(mem, ptr, hdr)
//
// A memory.grow may move the backing buffer. Release every Instance bound to
// the memory before growing it and bind again afterwards; Wrapper.Grow logs
// a warning as a reminder.
//
// # Guest allocation
//
// Allocator calls the guest's canonical-ABI cabi_realloc export to reserve
// space for a layout:
//
//	alloc := memory.NewAllocator(ctx, mod.ExportedFunction("cabi_realloc"))
//	inst, ptr, err := alloc.New(mem, hdr, 8)
//
// # Plain buffers
//
// Bytes serves the same interface over an ordinary slice, e.g. a file read
// into memory. BindAll binds consecutive records of one layout.
package memory

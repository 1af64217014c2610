package layout

// record lets Instance embed *Record without the embedded field shadowing
// the promoted Record(name) method.
type record = Record

// Instance is the top-level binding of a layout. It is the only view that
// exposes the backing region.
type Instance struct {
	*record
}

// View returns the instance as a plain *Record.
func (i *Instance) View() *Record {
	return i.record
}

// Buffer returns the backing region, or nil once the instance is released.
func (i *Instance) Buffer() []byte {
	if i.lease.released.Load() {
		return nil
	}
	return i.buf
}

// Release invalidates the instance and every nested view obtained from it.
// Call it before the backing storage is reused or may move, e.g. before a
// WebAssembly memory.grow.
func (i *Instance) Release() {
	i.lease.released.Store(true)
}

// Released reports whether Release has been called.
func (i *Instance) Released() bool {
	return i.lease.released.Load()
}

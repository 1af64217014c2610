package bufstruct

// Memory is an address space that can hand out live views of its bytes.
// Writes through a returned slice must be visible to later reads of the
// same range, and the other way round.
type Memory interface {
	// View returns the length bytes starting at offset without copying.
	View(offset uint32, length uint32) ([]byte, error)
	// Size returns the current size of the address space in bytes.
	Size() uint32
}

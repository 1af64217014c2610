package memory

// Bytes is a bufstruct.Memory over an ordinary slice.
type Bytes []byte

// View returns b[offset:offset+length] with its capacity clipped to the view.
func (b Bytes) View(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b)) {
		return nil, outOfBounds(offset, length, b.Size())
	}
	return b[offset:end:end], nil
}

// Size returns len(b).
func (b Bytes) Size() uint32 {
	return uint32(len(b))
}

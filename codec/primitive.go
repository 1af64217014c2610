package codec

import (
	"encoding/binary"

	"github.com/wippyai/bufstruct/errors"
)

func span(phase errors.Phase, buf []byte, off, width int) error {
	if off < 0 || off+width > len(buf) {
		return errors.OutOfBounds(phase, nil, off+width, len(buf))
	}
	return nil
}

// ReadUint decodes the primitive at off, zero-extended to 64 bits.
func ReadUint(buf []byte, off int, k Kind) (uint64, error) {
	if !k.IsPrimitive() {
		return 0, errors.TypeMismatch(errors.PhaseDecode, nil, k.String(), "integer")
	}
	if err := span(errors.PhaseDecode, buf, off, k.Width()); err != nil {
		return 0, err
	}
	b := buf[off:]
	switch k.Width() {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	default:
		return binary.LittleEndian.Uint64(b), nil
	}
}

// ReadInt decodes the primitive at off. Signed kinds are sign-extended;
// unsigned kinds are zero-extended, so a u64 above MaxInt64 reads negative.
func ReadInt(buf []byte, off int, k Kind) (int64, error) {
	u, err := ReadUint(buf, off, k)
	if err != nil {
		return 0, err
	}
	switch k {
	case KindS8:
		return int64(int8(u)), nil
	case KindS16:
		return int64(int16(u)), nil
	case KindS32:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// WriteUint encodes the low Width bytes of v at off.
func WriteUint(buf []byte, off int, k Kind, v uint64) error {
	if !k.IsPrimitive() {
		return errors.TypeMismatch(errors.PhaseEncode, nil, k.String(), "integer")
	}
	if err := span(errors.PhaseEncode, buf, off, k.Width()); err != nil {
		return err
	}
	b := buf[off:]
	switch k.Width() {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, v)
	}
	return nil
}

// WriteInt encodes v in two's complement, truncated to the kind's width.
func WriteInt(buf []byte, off int, k Kind, v int64) error {
	return WriteUint(buf, off, k, uint64(v))
}

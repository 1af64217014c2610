package codec

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/bufstruct/errors"
)

// NullPolicy selects how NUL bytes are removed when a string field is read.
type NullPolicy uint8

const (
	// StripAllNulls removes every NUL byte, including embedded ones.
	StripAllNulls NullPolicy = iota
	// TrimTrailingNulls removes only the zero padding after the last non-NUL byte.
	TrimTrailingNulls
)

func (p NullPolicy) String() string {
	switch p {
	case StripAllNulls:
		return "strip-all"
	case TrimTrailingNulls:
		return "trim-trailing"
	}
	return "unknown"
}

// Replacement is stored for runes that ISO-8859-1 cannot encode.
const Replacement = '?'

var latin1 = charmap.ISO8859_1

// StringCodec reads and writes a fixed-length single-byte string.
type StringCodec struct {
	Length int
	Nulls  NullPolicy
	// Strict rejects values that would be truncated or need replacement.
	Strict bool
	// LowByte stores the low 8 bits of each UTF-16 code unit of a rune that
	// ISO-8859-1 cannot encode, instead of Replacement. Ignored when Strict.
	LowByte bool
}

// Read decodes Length bytes at off.
func (c StringCodec) Read(buf []byte, off int) (string, error) {
	if err := span(errors.PhaseDecode, buf, off, c.Length); err != nil {
		return "", err
	}
	raw := buf[off : off+c.Length]
	if c.Nulls == TrimTrailingNulls {
		end := len(raw)
		for end > 0 && raw[end-1] == 0 {
			end--
		}
		raw = raw[:end]
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, ch := range raw {
		if ch == 0 && c.Nulls == StripAllNulls {
			continue
		}
		b.WriteRune(latin1.DecodeByte(ch))
	}
	return b.String(), nil
}

// Write zero-fills the field and stores s, truncated to Length bytes.
// In strict mode nothing is written when s does not fit exactly.
func (c StringCodec) Write(buf []byte, off int, s string) error {
	if err := span(errors.PhaseEncode, buf, off, c.Length); err != nil {
		return err
	}
	enc, err := c.encode(s)
	if err != nil {
		return err
	}

	dst := buf[off : off+c.Length]
	clear(dst)
	copy(dst, enc)
	return nil
}

func (c StringCodec) encode(s string) ([]byte, error) {
	out := make([]byte, 0, min(len(s), c.Length))
	n := 0
	for _, r := range s {
		n++
		b, ok := latin1.EncodeRune(r)
		switch {
		case ok:
		case c.Strict:
			return nil, errors.Unrepresentable(nil, r)
		case c.LowByte:
			out = appendLowBytes(out, r, c.Length)
			continue
		default:
			b = Replacement
		}
		if len(out) < c.Length {
			out = append(out, b)
		}
	}
	if c.Strict && n > c.Length {
		return nil, errors.StringOverflow(nil, n, c.Length)
	}
	return out, nil
}

// appendLowBytes appends the low byte of each UTF-16 code unit of r, so
// U+20AC is stored as 0xAC and astral runes take two bytes.
func appendLowBytes(out []byte, r rune, limit int) []byte {
	units := []rune{r}
	if r > 0xFFFF {
		r1, r2 := utf16.EncodeRune(r)
		units = []rune{r1, r2}
	}
	for _, u := range units {
		if len(out) < limit {
			out = append(out, byte(u))
		}
	}
	return out
}

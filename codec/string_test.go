package codec

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/bufstruct/errors"
)

func TestString_RoundTrip(t *testing.T) {
	c := StringCodec{Length: 16}
	buf := make([]byte, 16)

	require.NoError(t, c.Write(buf, 0, "ABCDEF"))
	assert.Equal(t, []byte("ABCDEF"), buf[:6])
	assert.Equal(t, make([]byte, 10), buf[6:])

	got, err := c.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", got)
}

func TestString_OverwriteClearsTail(t *testing.T) {
	c := StringCodec{Length: 8}
	buf := make([]byte, 8)
	require.NoError(t, c.Write(buf, 0, "longname"))
	require.NoError(t, c.Write(buf, 0, "ab"))

	got, err := c.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
	assert.Equal(t, []byte{'a', 'b', 0, 0, 0, 0, 0, 0}, buf)
}

func TestString_Truncates(t *testing.T) {
	c := StringCodec{Length: 4}
	buf := make([]byte, 6)
	buf[4], buf[5] = 0xAA, 0xBB

	require.NoError(t, c.Write(buf, 0, "abcdefgh"))
	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 0xAA, 0xBB}, buf)
}

func TestString_Latin1(t *testing.T) {
	c := StringCodec{Length: 4}
	buf := make([]byte, 4)

	require.NoError(t, c.Write(buf, 0, "café"))
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, buf)

	got, err := c.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	require.NoError(t, c.Write(buf, 0, "a€b"))
	assert.Equal(t, []byte{'a', Replacement, 'b', 0}, buf)
}

func TestString_LowByte(t *testing.T) {
	c := StringCodec{Length: 6, LowByte: true}
	buf := make([]byte, 6)

	require.NoError(t, c.Write(buf, 0, "a€é😀"))
	// U+20AC keeps 0xAC, U+1F600 is the pair D83D DE00.
	assert.Equal(t, []byte{'a', 0xAC, 0xE9, 0x3D, 0x00, 0}, buf)

	require.NoError(t, c.Write(buf, 0, "abcde😀"))
	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 'e', 0x3D}, buf, "pair is cut at the field end")

	strict := StringCodec{Length: 6, LowByte: true, Strict: true}
	err := strict.Write(buf, 0, "€")
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindUnrepresentable}))
}

func TestString_NullPolicy(t *testing.T) {
	buf := []byte{'a', 0, 'b', 0, 0, 0}

	strip := StringCodec{Length: 6}
	got, err := strip.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ab", got, "embedded NUL is lost under strip-all")

	trim := StringCodec{Length: 6, Nulls: TrimTrailingNulls}
	got, err = trim.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "a\x00b", got, "embedded NUL survives trim-trailing")

	assert.Equal(t, "strip-all", StripAllNulls.String())
	assert.Equal(t, "trim-trailing", TrimTrailingNulls.String())
}

func TestString_Strict(t *testing.T) {
	c := StringCodec{Length: 4, Strict: true}
	buf := []byte("wxyz")

	err := c.Write(buf, 0, "abcde")
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindStringOverflow}))
	assert.Equal(t, []byte("wxyz"), buf, "strict failure must not modify the field")

	err = c.Write(buf, 0, "a€")
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindUnrepresentable}))

	require.NoError(t, c.Write(buf, 0, "abcd"))
	assert.Equal(t, []byte("abcd"), buf)
}

func TestString_OutOfBounds(t *testing.T) {
	c := StringCodec{Length: 8}
	_, err := c.Read(make([]byte, 4), 0)
	assert.Error(t, err)
	assert.Error(t, c.Write(make([]byte, 4), 0, strings.Repeat("x", 2)))
}

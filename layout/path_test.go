package layout

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
)

func frameLayout(t *testing.T) *Layout {
	t.Helper()
	header := New().Uint32("seq").String("tag", 4).MustBuild()
	return New().
		Uint8("version").
		Record("header", header).
		Array("frames", 2, func(a ArrayBuilder) ArraySpec { return a.Record(header) }).
		Array("grid", 2, func(a ArrayBuilder) ArraySpec {
			return a.Array(2, func(a ArrayBuilder) ArraySpec { return a.Int16() })
		}).
		MustBuild()
}

func TestParsePath(t *testing.T) {
	segs, err := parsePath("frames[1].header.seq")
	require.NoError(t, err)
	assert.Equal(t, []segment{
		{name: "frames", index: -1},
		{index: 1},
		{name: "header", index: -1},
		{name: "seq", index: -1},
	}, segs)

	segs, err = parsePath("grid[0][1]")
	require.NoError(t, err)
	assert.Len(t, segs, 3)

	for _, bad := range []string{"", ".a", "a.", "a[", "a[x]", "a[-1]", "a]b", "a..b", "[0]"} {
		_, err := parsePath(bad)
		assert.True(t, stderrors.Is(err, isErr(errors.PhaseAccess, errors.KindInvalidPath)), "path %q", bad)
	}
}

func TestRecord_LookupAssign(t *testing.T) {
	inst := frameLayout(t).New()

	require.NoError(t, inst.Assign("frames[1].seq", Uint(77)))
	require.NoError(t, inst.Assign("header.tag", Str("HDR")))
	require.NoError(t, inst.Assign("grid[1][0]", Int(-3)))

	v, err := inst.Lookup("frames[1].seq")
	require.NoError(t, err)
	assert.Equal(t, uint64(77), v.Uint())
	assert.Equal(t, uint32(77), inst.Array("frames").Record(1).Uint32("seq"))
	assert.Equal(t, "HDR", inst.Record("header").Str("tag"))
	assert.Equal(t, int64(-3), inst.Array("grid").Array(1).Int(0))

	v, err = inst.Lookup("frames")
	require.NoError(t, err)
	assert.Equal(t, codec.KindArray, v.Kind())

	_, err = inst.Lookup("version.x")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseAccess, errors.KindTypeMismatch)))
	_, err = inst.Lookup("header[0]")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseAccess, errors.KindTypeMismatch)))
	_, err = inst.Lookup("frames[5]")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseAccess, errors.KindOutOfBounds)))
	err = inst.Assign("header.nope", Uint(1))
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseAccess, errors.KindFieldUnknown)))
	err = inst.Assign("version[0]", Uint(1))
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseAccess, errors.KindTypeMismatch)))
}

func TestRecord_Walk(t *testing.T) {
	inst := frameLayout(t).New()
	inst.SetUint8("version", 2)

	var paths []string
	err := inst.Walk(func(path string, v Value) error {
		paths = append(paths, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"version",
		"header.seq", "header.tag",
		"frames[0].seq", "frames[0].tag",
		"frames[1].seq", "frames[1].tag",
		"grid[0][0]", "grid[0][1]", "grid[1][0]", "grid[1][1]",
	}, paths)

	stop := stderrors.New("stop")
	n := 0
	err = inst.Walk(func(string, Value) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestRecord_Snapshot(t *testing.T) {
	inst := frameLayout(t).New()
	inst.SetUint8("version", 1)
	inst.Record("header").SetStr("tag", "ab")
	inst.Array("grid").Array(0).SetInt(1, -7)

	snap, err := inst.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap["version"])
	assert.Equal(t, map[string]any{"seq": uint64(0), "tag": "ab"}, snap["header"])
	assert.Equal(t, []any{[]any{int64(0), int64(-7)}, []any{int64(0), int64(0)}}, snap["grid"])
	assert.Len(t, snap["frames"], 2)
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(codec.KindS16, "-12")
	require.NoError(t, err)
	assert.Equal(t, int64(-12), v.Int())

	v, err = ParseValue(codec.KindU32, "0xff")
	require.NoError(t, err)
	assert.Equal(t, uint64(255), v.Uint())

	v, err = ParseValue(codec.KindString, " keep spaces ")
	require.NoError(t, err)
	assert.Equal(t, " keep spaces ", v.Str())

	_, err = ParseValue(codec.KindU8, "256")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseEncode, errors.KindInvalidInput)))
	_, err = ParseValue(codec.KindS8, "abc")
	assert.Error(t, err)
	_, err = ParseValue(codec.KindRecord, "{}")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseEncode, errors.KindUnsupported)))
}

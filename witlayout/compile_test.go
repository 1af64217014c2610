package witlayout

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/errors"
	"github.com/wippyai/bufstruct/layout"
)

func ptr(s string) *string { return &s }

func isErr(phase errors.Phase, kind errors.Kind) error {
	return &errors.Error{Phase: phase, Kind: kind}
}

func offsets(l *layout.Layout) map[string]int {
	out := make(map[string]int)
	for _, f := range l.Fields() {
		out[f.Name] = f.Offset
	}
	return out
}

func mixedRecord() *wit.TypeDef {
	return &wit.TypeDef{
		Name: ptr("mixed"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "a", Type: wit.U8{}},
			{Name: "b", Type: wit.U32{}},
			{Name: "c", Type: wit.Bool{}},
			{Name: "d", Type: wit.S16{}},
			{Name: "e", Type: &wit.TypeDef{Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "x"}, {Name: "y"}, {Name: "z"}}}}},
			{Name: "f", Type: &wit.TypeDef{Kind: &wit.Flags{Flags: make([]wit.Flag, 10)}}},
		}},
	}
}

func TestFromType_Packed(t *testing.T) {
	l, err := FromType(mixedRecord())
	require.NoError(t, err)

	assert.Equal(t, 11, l.Size())
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 5, "d": 6, "e": 8, "f": 9}, offsets(l))

	kinds := make([]codec.Kind, 0, 6)
	for _, f := range l.Fields() {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []codec.Kind{
		codec.KindU8, codec.KindU32, codec.KindU8, codec.KindS16, codec.KindU8, codec.KindU16,
	}, kinds)
}

func TestFromType_Aligned(t *testing.T) {
	td := mixedRecord()
	l, err := FromType(td, Aligned())
	require.NoError(t, err)

	assert.Equal(t, 16, l.Size())
	assert.Equal(t, map[string]int{"a": 0, "b": 4, "c": 8, "d": 10, "e": 12, "f": 14}, offsets(l))
	assert.Equal(t, int(NewCalculator().Calculate(td).Size), l.Size())
}

func shapeRecord() *wit.TypeDef {
	point := &wit.TypeDef{
		Name: ptr("point"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "x", Type: wit.S32{}},
			{Name: "y", Type: wit.S32{}},
		}},
	}
	return &wit.TypeDef{
		Name: ptr("shape"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "id", Type: wit.U8{}},
			{Name: "origin", Type: point},
			{Name: "corners", Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{point, point, point, point}}}},
			{Name: "weights", Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U16{}, wit.U16{}, wit.U16{}}}}},
		}},
	}
}

func TestFromType_NestedAndArrays(t *testing.T) {
	l, err := FromType(shapeRecord())
	require.NoError(t, err)
	assert.Equal(t, 1+8+32+6, l.Size())

	origin, _ := l.Field("origin")
	corners, _ := l.Field("corners")
	weights, _ := l.Field("weights")
	assert.Equal(t, codec.KindRecord, origin.Kind)
	require.Equal(t, codec.KindArray, corners.Kind)
	assert.Equal(t, 4, corners.Array.Len())
	assert.Same(t, origin.Layout, corners.Array.ElemLayout())
	assert.Equal(t, codec.KindU16, weights.Array.Elem())

	inst := l.New()
	require.NoError(t, inst.Assign("corners[2].y", layout.Int(-5)))
	assert.Equal(t, int32(-5), inst.Array("corners").Record(2).Int32("y"))
}

func TestFromType_NestedAligned(t *testing.T) {
	td := shapeRecord()
	l, err := FromType(td, Aligned())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"id": 0, "origin": 4, "corners": 12, "weights": 44}, offsets(l))
	assert.Equal(t, 52, l.Size())
	assert.Equal(t, int(NewCalculator().Calculate(td).Size), l.Size())
}

func TestFromType_MixedTuple(t *testing.T) {
	td := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "pair", Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}, wit.U32{}}}}},
	}}}

	l, err := FromType(td, Aligned())
	require.NoError(t, err)
	assert.Equal(t, 8, l.Size())

	pair, _ := l.Field("pair")
	require.Equal(t, codec.KindRecord, pair.Kind)
	second, ok := pair.Layout.Field("1")
	require.True(t, ok)
	assert.Equal(t, 4, second.Offset)

	inst := l.New()
	require.NoError(t, inst.Assign("pair.1", layout.Uint(9)))
	assert.Equal(t, uint8(9), inst.Buffer()[4])
}

func TestFromType_WideFlagsAndAliases(t *testing.T) {
	id := &wit.TypeDef{Name: ptr("id"), Kind: wit.U64{}}
	inner := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "perms", Type: &wit.TypeDef{Kind: &wit.Flags{Flags: make([]wit.Flag, 40)}}},
		{Name: "owner", Type: id},
	}}}
	alias := &wit.TypeDef{Name: ptr("entry"), Kind: inner}

	l, err := FromType(alias, Aligned())
	require.NoError(t, err)
	assert.Equal(t, 16, l.Size())

	perms, _ := l.Field("perms")
	require.Equal(t, codec.KindArray, perms.Kind)
	assert.Equal(t, 2, perms.Array.Len())
	assert.Equal(t, codec.KindU32, perms.Array.Elem())

	owner, _ := l.Field("owner")
	assert.Equal(t, codec.KindU64, owner.Kind)
	assert.Equal(t, 8, owner.Offset)
}

func TestFromType_Unsupported(t *testing.T) {
	tests := []struct {
		typ  wit.Type
		name string
		path []string
	}{
		{
			name: "string field",
			typ: &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
				{Name: "id", Type: wit.U8{}},
				{Name: "name", Type: wit.String{}},
			}}},
			path: []string{"name"},
		},
		{
			name: "list field",
			typ: &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
				{Name: "items", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}},
			}}},
			path: []string{"items"},
		},
		{
			name: "float in array",
			typ: &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
				{Name: "v", Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.F32{}, wit.F32{}}}}},
			}}},
			path: []string{"v", "[]"},
		},
		{
			name: "top level",
			typ:  wit.U32{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromType(tc.typ)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, isErr(errors.PhaseImport, errors.KindUnsupported)), err.Error())

			var e *errors.Error
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, tc.path, e.Path)
		})
	}

	_, err := FromType(nil)
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseImport, errors.KindNilPointer)))
}

func TestFromType_LayoutOptions(t *testing.T) {
	td := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{{Name: "b", Type: wit.U8{}}}}}
	l, err := FromType(td, WithLayoutOptions(layout.WithStrictIntegers()))
	require.NoError(t, err)

	err = l.New().Set("b", layout.Uint(300))
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseEncode, errors.KindOverflow)))
}

func testResolve() *wit.Resolve {
	types := &wit.Interface{Name: ptr("types")}
	other := &wit.Interface{Name: ptr("other")}
	header := func(owner *wit.Interface) *wit.TypeDef {
		return &wit.TypeDef{
			Name:  ptr("header"),
			Owner: owner,
			Kind:  &wit.Record{Fields: []wit.Field{{Name: "magic", Type: wit.U32{}}}},
		}
	}
	return &wit.Resolve{
		Interfaces: []*wit.Interface{types, other},
		TypeDefs: []*wit.TypeDef{
			header(types),
			header(other),
			{Name: ptr("point"), Owner: types, Kind: &wit.Record{Fields: []wit.Field{{Name: "x", Type: wit.S32{}}}}},
			{Name: ptr("color"), Owner: types, Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}}}},
		},
	}
}

func TestLookup(t *testing.T) {
	res := testResolve()

	td, err := Lookup(res, "point")
	require.NoError(t, err)
	assert.Equal(t, "point", *td.Name)

	td, err = Lookup(res, "other.header")
	require.NoError(t, err)
	assert.Same(t, res.TypeDefs[1], td)

	_, err = Lookup(res, "header")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseImport, errors.KindInvalidInput)))

	_, err = Lookup(res, "types.missing")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseImport, errors.KindNotFound)))

	_, err = Lookup(nil, "point")
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseImport, errors.KindNilPointer)))

	assert.Equal(t, []string{"types.header", "other.header", "types.point"}, Records(res))
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader("{not json"))
	assert.True(t, stderrors.Is(err, isErr(errors.PhaseImport, errors.KindInvalidData)))
}

package witlayout

import "go.bytecodealliance.org/wit"

// Info is the canonical-ABI size and alignment of a type.
type Info struct {
	Size  uint32
	Align uint32
}

// Calculator computes canonical-ABI sizes for the types a layout can hold.
// Types without a layout report a zero size.
type Calculator struct {
	cache map[*wit.TypeDef]Info
}

// NewCalculator returns a calculator with an empty type cache.
func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

// Calculate returns the canonical ABI size and alignment of t.
func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64:
		return Info{Size: 8, Align: 8}
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{Size: 0, Align: 1}
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info
	switch kind := t.Kind.(type) {
	case *wit.Record:
		info = c.Record(kind)
	case *wit.Tuple:
		info = c.sequence(kind.Types)
	case *wit.Enum:
		size := discriminantSize(len(kind.Cases))
		info = Info{Size: size, Align: size}
	case *wit.Flags:
		info = flagsInfo(len(kind.Flags))
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

// Record returns the size and alignment of r, tail padding included.
func (c *Calculator) Record(r *wit.Record) Info {
	types := make([]wit.Type, len(r.Fields))
	for i, f := range r.Fields {
		types[i] = f.Type
	}
	return c.sequence(types)
}

func (c *Calculator) sequence(types []wit.Type) Info {
	maxAlign := uint32(1)
	offset := uint32(0)
	for _, typ := range types {
		info := c.Calculate(typ)
		offset = alignTo(offset, info.Align)
		maxAlign = max(maxAlign, info.Align)
		offset += info.Size
	}
	return Info{Size: alignTo(offset, maxAlign), Align: maxAlign}
}

func flagsInfo(n int) Info {
	switch {
	case n == 0:
		return Info{Size: 0, Align: 1}
	case n <= 8:
		return Info{Size: 1, Align: 1}
	case n <= 16:
		return Info{Size: 2, Align: 2}
	case n <= 32:
		return Info{Size: 4, Align: 4}
	}
	return Info{Size: uint32(flagWords(n) * 4), Align: 4}
}

// flagWords is the number of u32 words holding more than 32 flags.
func flagWords(n int) int {
	return (n + 31) / 32
}

func discriminantSize(numCases int) uint32 {
	switch {
	case numCases <= 1<<8:
		return 1
	case numCases <= 1<<16:
		return 2
	}
	return 4
}

func alignTo(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

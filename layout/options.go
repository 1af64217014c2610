package layout

import "github.com/wippyai/bufstruct/codec"

type config struct {
	strictStrings bool
	strictInts    bool
	lowByte       bool
	nulls         codec.NullPolicy
}

// Option configures how a Builder's fields encode values.
type Option func(*config)

// WithStrictStrings makes string writes fail instead of truncating or
// replacing runes outside ISO-8859-1.
func WithStrictStrings() Option {
	return func(c *config) { c.strictStrings = true }
}

// WithLowByteStrings stores the low byte of each UTF-16 code unit for runes
// outside ISO-8859-1 instead of '?'. WithStrictStrings takes precedence.
func WithLowByteStrings() Option {
	return func(c *config) { c.lowByte = true }
}

// WithStrictIntegers makes Set fail when a value does not fit the field
// width instead of wrapping.
func WithStrictIntegers() Option {
	return func(c *config) { c.strictInts = true }
}

// WithNullPolicy selects how string fields drop NUL bytes on read.
// The default is codec.StripAllNulls.
func WithNullPolicy(p codec.NullPolicy) Option {
	return func(c *config) { c.nulls = p }
}

func (c config) stringCodec(length int) codec.StringCodec {
	return codec.StringCodec{Length: length, Nulls: c.nulls, Strict: c.strictStrings, LowByte: c.lowByte}
}

type bindConfig struct {
	unchecked bool
}

// BindOption configures Layout.Bind.
type BindOption func(*bindConfig)

// Unchecked binds a region without comparing its length to the layout size.
// Fields that fall outside a short region report out_of_bounds on access.
func Unchecked() BindOption {
	return func(c *bindConfig) { c.unchecked = true }
}

package cyclical

import (
	"fmt"

	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/internal/options"
)

// Default suffixes appended to the source column name.
const (
	DefaultSinSuffix = "_sin"
	DefaultCosSuffix = "_cos"
)

// EncoderConfig holds the naming settings of an Encoder.
type EncoderConfig struct {
	sinSuffix string
	cosSuffix string
}

func defaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		sinSuffix: DefaultSinSuffix,
		cosSuffix: DefaultCosSuffix,
	}
}

// Option configures an Encoder.
type Option = options.Option[*EncoderConfig]

// WithSuffixes overrides the suffixes of the generated columns.
// Both suffixes must be non-empty and different from each other.
func WithSuffixes(sin, cos string) Option {
	return options.New(func(c *EncoderConfig) error {
		if sin == "" || cos == "" {
			return fmt.Errorf("%w: column suffixes must not be empty", errs.ErrInvalidInput)
		}
		if sin == cos {
			return fmt.Errorf("%w: sin and cos suffixes must differ, both are %q", errs.ErrInvalidInput, sin)
		}
		c.sinSuffix = sin
		c.cosSuffix = cos

		return nil
	})
}

// SinColumn returns the name of the sine column generated for column.
func (c *EncoderConfig) SinColumn(column string) string {
	return column + c.sinSuffix
}

// CosColumn returns the name of the cosine column generated for column.
func (c *EncoderConfig) CosColumn(column string) string {
	return column + c.cosSuffix
}

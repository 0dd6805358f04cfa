// Package format defines the enumerations shared by the snapshot and compress packages.
package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/cyclenc/errs"
)

type (
	CompressionType uint8
	ColumnType      uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	ColumnFloat  ColumnType = 0x1 // ColumnFloat stores float64 values.
	ColumnInt    ColumnType = 0x2 // ColumnInt stores int64 values.
	ColumnBool   ColumnType = 0x3 // ColumnBool stores one byte per value.
	ColumnString ColumnType = 0x4 // ColumnString stores length-prefixed UTF-8 strings.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the known compression types.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseCompression converts a case-insensitive name (none, zstd, s2, lz4) to a CompressionType.
// An empty string maps to CompressionNone.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", errs.ErrInvalidCompression, name)
	}
}

func (c ColumnType) String() string {
	switch c {
	case ColumnFloat:
		return "float"
	case ColumnInt:
		return "int"
	case ColumnBool:
		return "bool"
	case ColumnString:
		return "string"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the known column types.
func (c ColumnType) Valid() bool {
	return c >= ColumnFloat && c <= ColumnString
}

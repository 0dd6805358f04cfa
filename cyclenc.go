// Package cyclenc encodes periodic table columns as points on the unit circle.
//
// A value v of a column with period p becomes the pair
// (sin(2πv/p), cos(2πv/p)), so the last and first values of a cycle, such as
// December and January, end up next to each other instead of at opposite ends
// of a number line.
//
// # Core Features
//
//   - Sin/cos projection of one or many columns of a gota DataFrame
//   - Eager validation with errors.Is-friendly sentinels from the errs package
//   - Inverse transform that recovers the original value modulo the period
//   - Columnar binary snapshots with xxHash64 column index, CRC32 and
//     optional compression (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Encoding a month column:
//
//	import "github.com/arloliu/cyclenc"
//
//	df := dataframe.New(series.New([]int{1, 4, 7, 10}, series.Int, "month"))
//	out, err := cyclenc.Encode(df, "month", 12)
//	// out has columns month, month_sin, month_cos
//
// Persisting the result:
//
//	data, _ := cyclenc.MarshalSnapshot(out)
//	restored, _ := cyclenc.UnmarshalSnapshot(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the cyclical and
// snapshot packages. For advanced usage, such as custom suffixes or random
// column access in snapshots, use those packages directly.
package cyclenc

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/arloliu/cyclenc/cyclical"
	"github.com/arloliu/cyclenc/format"
	"github.com/arloliu/cyclenc/internal/hash"
	"github.com/arloliu/cyclenc/snapshot"
)

var defaultSnapshotOptions = []snapshot.Option{
	snapshot.WithLittleEndian(),
	snapshot.WithCompression(format.CompressionZstd),
}

// Feature pairs a column name with its period.
type Feature = cyclical.Feature

// Encode adds <column>_sin and <column>_cos to a copy of df.
//
// Validation runs in this order and stops at the first failure:
//   - df carries no load error (errs.ErrInvalidType)
//   - column exists (errs.ErrColumnNotFound)
//   - period is finite and greater than zero (errs.ErrInvalidRange)
//   - column values are numeric (errs.ErrInvalidType)
//
// Parameters:
//   - df: Source frame, never modified
//   - column: Name of the periodic column
//   - period: Length of one cycle, for example 12 for months or 24 for hours
//
// Returns:
//   - dataframe.DataFrame: A new frame with the two projected columns appended
//   - error: A wrapped sentinel from the errs package
//
// Example:
//
//	out, err := cyclenc.Encode(df, "hour", 24)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Encode(df dataframe.DataFrame, column string, period float64) (dataframe.DataFrame, error) {
	return cyclical.Encode(df, column, period)
}

// EncodeAny is Encode for untyped inputs, such as values decoded from JSON.
//
// data must be a dataframe.DataFrame or a non-nil *dataframe.DataFrame, column
// a string and period any Go integer or float kind or a json.Number.
func EncodeAny(data, column, period any) (dataframe.DataFrame, error) {
	return cyclical.EncodeAny(data, column, period)
}

// EncodeFeatures encodes several columns at once. Every feature is validated
// before any column is added, so a failure never yields a partially encoded frame.
func EncodeFeatures(df dataframe.DataFrame, features ...Feature) (dataframe.DataFrame, error) {
	return cyclical.EncodeFeatures(df, features...)
}

// Decode recovers column from its _sin and _cos columns as a float series in
// the range [0, period).
func Decode(df dataframe.DataFrame, column string, period float64) (series.Series, error) {
	return cyclical.Decode(df, column, period)
}

// MarshalSnapshot writes df as a little-endian, zstd-compressed snapshot.
//
// Use snapshot.Marshal to pick another compression or byte order.
func MarshalSnapshot(df dataframe.DataFrame) ([]byte, error) {
	return snapshot.Marshal(df, defaultSnapshotOptions...)
}

// UnmarshalSnapshot decodes a snapshot produced by MarshalSnapshot or snapshot.Marshal.
func UnmarshalSnapshot(data []byte) (dataframe.DataFrame, error) {
	return snapshot.Unmarshal(data)
}

// ColumnID returns the 64-bit xxHash of a column name, as stored in snapshot indexes.
func ColumnID(name string) uint64 {
	return hash.ColumnID(name)
}

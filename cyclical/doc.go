// Package cyclical encodes periodic numeric columns as points on the unit circle.
//
// A periodic quantity such as month-of-year, hour-of-day or day-of-week wraps
// around: month 12 and month 1 are neighbors, yet their raw values are as far
// apart as possible. Cyclical encoding projects each value v with period p onto
// the circle and stores the two coordinates as new columns:
//
//	<column>_sin = sin(2π·v/p)
//	<column>_cos = cos(2π·v/p)
//
// # Basic Usage
//
//	df := dataframe.New(series.New([]int{1, 4, 7, 10}, series.Int, "month"))
//
//	out, err := cyclical.Encode(df, "month", 12)
//	if err != nil {
//	    return err
//	}
//	// out has columns: month, month_sin, month_cos
//
// Several columns can be encoded at once; the call fails as a whole if any
// feature is invalid:
//
//	out, err := cyclical.EncodeFeatures(df,
//	    cyclical.Feature{Column: "month", Period: 12},
//	    cyclical.Feature{Column: "hour", Period: 24},
//	)
//
// Decode inverts the transform and recovers v modulo the period.
//
// # Validation
//
// Inputs are checked eagerly, before any arithmetic, in this order:
//
//  1. the dataset is a valid table, else errs.ErrInvalidType
//  2. the column exists, else errs.ErrColumnNotFound
//  3. the period is numeric, else errs.ErrInvalidType
//  4. the period is finite and positive, else errs.ErrInvalidRange
//  5. the column values are numeric, else errs.ErrInvalidType
//
// EncodeAny applies the same checks to untyped arguments, which is useful when
// the inputs come from decoded JSON or YAML.
//
// # Concurrency
//
// All functions are pure: the input DataFrame is never modified and a new one
// is returned. An Encoder is immutable and may be shared between goroutines.
package cyclical

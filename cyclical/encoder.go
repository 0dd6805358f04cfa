package cyclical

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/internal/options"
	"github.com/arloliu/cyclenc/internal/pool"
)

// Encoder appends sine/cosine columns for periodic features.
//
// An Encoder is immutable after construction and safe for concurrent use.
type Encoder struct {
	cfg EncoderConfig
}

// NewEncoder creates an Encoder configured by opts.
//
// Returns:
//   - *Encoder: the configured encoder
//   - error: ErrInvalidInput if an option is invalid
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg := defaultEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: *cfg}, nil
}

var defaultEncoder = &Encoder{cfg: *defaultEncoderConfig()}

// Encode appends <column>_sin and <column>_cos to df, computed as
// sin(2π·v/period) and cos(2π·v/period) for each row value v.
//
// All existing columns and the row order are preserved. df itself is not
// modified; the augmented table is returned.
//
// Parameters:
//   - df: source table; a DataFrame carrying an Err is rejected
//   - column: name of a numeric column in df
//   - period: length of one full cycle (12 for months, 24 for hours)
//   - opts: optional naming options
//
// Returns:
//   - dataframe.DataFrame: df plus the two generated columns
//   - error: ErrInvalidType, ErrColumnNotFound or ErrInvalidRange
func Encode(df dataframe.DataFrame, column string, period float64, opts ...Option) (dataframe.DataFrame, error) {
	enc, err := encoderFor(opts)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return enc.Encode(df, column, period)
}

// EncodeAny is the untyped form of Encode.
//
// data must be a dataframe.DataFrame or a non-nil *dataframe.DataFrame. column
// must be a string naming an existing column; any other key type can never
// match a column and is reported as ErrColumnNotFound. period may be any Go
// integer or float type, or a json.Number.
func EncodeAny(data any, column any, period any, opts ...Option) (dataframe.DataFrame, error) {
	enc, err := encoderFor(opts)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return enc.EncodeAny(data, column, period)
}

func encoderFor(opts []Option) (*Encoder, error) {
	if len(opts) == 0 {
		return defaultEncoder, nil
	}

	return NewEncoder(opts...)
}

// Config returns a copy of the encoder configuration.
func (e *Encoder) Config() EncoderConfig {
	return e.cfg
}

// Encode appends the sine and cosine columns for column. See the package-level Encode.
func (e *Encoder) Encode(df dataframe.DataFrame, column string, period float64) (dataframe.DataFrame, error) {
	if err := checkTable(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := checkColumn(df, column); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := checkPeriod(period); err != nil {
		return dataframe.DataFrame{}, err
	}

	sinCol, cosCol, err := e.project(df, column, period)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return attach(df, sinCol, cosCol)
}

// EncodeAny is the untyped form of Encode. See the package-level EncodeAny.
func (e *Encoder) EncodeAny(data any, column any, period any) (dataframe.DataFrame, error) {
	df, err := asTable(data)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	name, ok := column.(string)
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %v (%T is not a column name)", errs.ErrColumnNotFound, column, column)
	}
	if err := checkColumn(df, name); err != nil {
		return dataframe.DataFrame{}, err
	}

	p, err := asPeriod(period)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return e.Encode(df, name, p)
}

// project computes the sine and cosine series for column. Inputs must already
// be validated.
func (e *Encoder) project(df dataframe.DataFrame, column string, period float64) (series.Series, series.Series, error) {
	src := df.Col(column)
	n := src.Len()

	values, release := pool.GetFloat64Slice(n)
	defer release()

	if err := numericValues(src, values); err != nil {
		return series.Series{}, series.Series{}, err
	}

	sinVals, releaseSin := pool.GetFloat64Slice(n)
	defer releaseSin()
	cosVals, releaseCos := pool.GetFloat64Slice(n)
	defer releaseCos()

	scale := 2 * math.Pi / period
	for i, v := range values {
		sinVals[i], cosVals[i] = math.Sincos(scale * v)
	}

	// series.New copies the values, so the pooled slices can be released.
	return series.New(sinVals, series.Float, e.cfg.SinColumn(column)),
		series.New(cosVals, series.Float, e.cfg.CosColumn(column)),
		nil
}

func attach(df dataframe.DataFrame, cols ...series.Series) (dataframe.DataFrame, error) {
	out := df
	for _, col := range cols {
		out = out.Mutate(col)
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("attach column %q: %w", col.Name, out.Err)
		}
	}

	return out, nil
}

func checkTable(df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("%w: dataframe carries an error: %w", errs.ErrInvalidType, df.Err)
	}

	return nil
}

func checkColumn(df dataframe.DataFrame, column string) error {
	if !slices.Contains(df.Names(), column) {
		return fmt.Errorf("%w: %q", errs.ErrColumnNotFound, column)
	}

	return nil
}

func checkPeriod(period float64) error {
	if math.IsNaN(period) || math.IsInf(period, 0) {
		return fmt.Errorf("%w: period must be finite, got %v", errs.ErrInvalidRange, period)
	}
	if period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %v", errs.ErrInvalidRange, period)
	}

	return nil
}

func asTable(data any) (dataframe.DataFrame, error) {
	switch v := data.(type) {
	case dataframe.DataFrame:
		return v, checkTable(v)
	case *dataframe.DataFrame:
		if v == nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: nil dataframe", errs.ErrInvalidType)
		}

		return *v, checkTable(*v)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("%w: expected a dataframe, got %T", errs.ErrInvalidType, data)
	}
}

func asPeriod(v any) (float64, error) {
	switch p := v.(type) {
	case float64:
		return p, nil
	case float32:
		return float64(p), nil
	case int:
		return float64(p), nil
	case int8:
		return float64(p), nil
	case int16:
		return float64(p), nil
	case int32:
		return float64(p), nil
	case int64:
		return float64(p), nil
	case uint:
		return float64(p), nil
	case uint8:
		return float64(p), nil
	case uint16:
		return float64(p), nil
	case uint32:
		return float64(p), nil
	case uint64:
		return float64(p), nil
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: period %q is not a number", errs.ErrInvalidType, p.String())
		}

		return f, nil
	default:
		return 0, fmt.Errorf("%w: period must be numeric, got %T", errs.ErrInvalidType, v)
	}
}

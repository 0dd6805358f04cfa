package cyclical

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Decode recovers the original values of column from its sine and cosine columns.
//
// Each row yields atan2(sin, cos)·period/(2π) normalized into [0, period), so a
// value v comes back as v mod period. NaN in either column yields NaN.
//
// Returns:
//   - series.Series: a Float series named column
//   - error: ErrInvalidType, ErrColumnNotFound or ErrInvalidRange
func Decode(df dataframe.DataFrame, column string, period float64) (series.Series, error) {
	return defaultEncoder.Decode(df, column, period)
}

// Decode inverts Encode using this encoder's column suffixes. See the package-level Decode.
func (e *Encoder) Decode(df dataframe.DataFrame, column string, period float64) (series.Series, error) {
	if err := checkTable(df); err != nil {
		return series.Series{}, err
	}

	sinName, cosName := e.cfg.SinColumn(column), e.cfg.CosColumn(column)
	for _, name := range []string{sinName, cosName} {
		if err := checkColumn(df, name); err != nil {
			return series.Series{}, err
		}
	}
	if err := checkPeriod(period); err != nil {
		return series.Series{}, err
	}

	n := df.Nrow()
	sinVals := make([]float64, n)
	cosVals := make([]float64, n)
	if err := numericValues(df.Col(sinName), sinVals); err != nil {
		return series.Series{}, err
	}
	if err := numericValues(df.Col(cosName), cosVals); err != nil {
		return series.Series{}, err
	}

	out := make([]float64, n)
	scale := period / (2 * math.Pi)
	for i := range out {
		v := math.Atan2(sinVals[i], cosVals[i]) * scale
		if v < 0 {
			v += period
		}
		if v >= period {
			v -= period
		}
		out[i] = v
	}

	s := series.New(out, series.Float, column)
	if s.Err != nil {
		return series.Series{}, fmt.Errorf("decode %q: %w", column, s.Err)
	}

	return s, nil
}

package cyclical

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/arloliu/cyclenc/errs"
)

// Feature names a periodic column and the length of its cycle.
type Feature struct {
	Column string  `json:"column" yaml:"column" koanf:"column"`
	Period float64 `json:"period" yaml:"period" koanf:"period"`
}

func (f Feature) String() string {
	return f.Column + "=" + strconv.FormatFloat(f.Period, 'g', -1, 64)
}

// ParseFeature parses the "column=period" form, e.g. "month=12".
// The last '=' separates the period, so column names may contain '='.
func ParseFeature(s string) (Feature, error) {
	idx := strings.LastIndexByte(s, '=')
	if idx < 0 {
		return Feature{}, fmt.Errorf("%w: feature %q must have the form column=period", errs.ErrInvalidInput, s)
	}

	column := strings.TrimSpace(s[:idx])
	if column == "" {
		return Feature{}, fmt.Errorf("%w: feature %q has an empty column name", errs.ErrInvalidInput, s)
	}

	raw := strings.TrimSpace(s[idx+1:])
	period, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Feature{}, fmt.Errorf("%w: feature %q: period %q is not a number", errs.ErrInvalidType, s, raw)
	}
	if err := checkPeriod(period); err != nil {
		return Feature{}, fmt.Errorf("feature %q: %w", s, err)
	}

	return Feature{Column: column, Period: period}, nil
}

// ParseFeatures parses each element with ParseFeature.
func ParseFeatures(specs []string) ([]Feature, error) {
	features := make([]Feature, 0, len(specs))
	for _, s := range specs {
		f, err := ParseFeature(s)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}

	return features, nil
}

// EncodeFeatures encodes several columns with the default Encoder.
// See Encoder.EncodeFeatures.
func EncodeFeatures(df dataframe.DataFrame, features ...Feature) (dataframe.DataFrame, error) {
	return defaultEncoder.EncodeFeatures(df, features...)
}

// EncodeFeatures appends sine and cosine columns for every feature.
//
// Every feature is validated and projected before any column is attached, so
// either all columns are added or the call fails without a result. All values
// are read from df as given; a feature never sees columns generated by another.
//
// Returns:
//   - dataframe.DataFrame: df plus two columns per feature (df itself when features is empty)
//   - error: ErrInvalidInput for duplicate features or clashing output names,
//     otherwise the same errors as Encode
func (e *Encoder) EncodeFeatures(df dataframe.DataFrame, features ...Feature) (dataframe.DataFrame, error) {
	if err := checkTable(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(features) == 0 {
		return df, nil
	}

	outputs := make(map[string]string, len(features)*2)
	for _, f := range features {
		if err := checkColumn(df, f.Column); err != nil {
			return dataframe.DataFrame{}, err
		}
		if err := checkPeriod(f.Period); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("feature %q: %w", f.Column, err)
		}
		for _, name := range []string{e.cfg.SinColumn(f.Column), e.cfg.CosColumn(f.Column)} {
			if owner, dup := outputs[name]; dup {
				if owner == f.Column {
					return dataframe.DataFrame{}, fmt.Errorf("%w: feature %q listed twice", errs.ErrInvalidInput, f.Column)
				}

				return dataframe.DataFrame{}, fmt.Errorf("%w: features %q and %q both produce column %q",
					errs.ErrInvalidInput, owner, f.Column, name)
			}
			outputs[name] = f.Column
		}
	}

	cols := make([]series.Series, 0, len(features)*2)
	for _, f := range features {
		sinCol, cosCol, err := e.project(df, f.Column, f.Period)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		cols = append(cols, sinCol, cosCol)
	}

	return attach(df, cols...)
}

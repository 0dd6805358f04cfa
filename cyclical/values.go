package cyclical

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"

	"github.com/arloliu/cyclenc/errs"
)

// numericValues writes the values of s into dst as float64.
//
// Float, Int and Bool series convert directly. String series are accepted when
// every non-NA element parses as a float. NA elements become NaN.
func numericValues(s series.Series, dst []float64) error {
	switch s.Type() {
	case series.Float, series.Int, series.Bool:
		for i := range dst {
			elem := s.Elem(i)
			if elem.IsNA() {
				dst[i] = math.NaN()
				continue
			}
			dst[i] = elem.Float()
		}

		return nil
	case series.String:
		for i := range dst {
			elem := s.Elem(i)
			if elem.IsNA() {
				dst[i] = math.NaN()
				continue
			}
			raw := elem.String()
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("%w: column %q row %d: %q is not numeric", errs.ErrInvalidType, s.Name, i, raw)
			}
			dst[i] = f
		}

		return nil
	default:
		return fmt.Errorf("%w: column %q has unsupported type %s", errs.ErrInvalidType, s.Name, s.Type())
	}
}

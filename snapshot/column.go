package snapshot

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/series"

	"github.com/arloliu/cyclenc/endian"
	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/format"
	"github.com/arloliu/cyclenc/internal/pool"
)

func columnType(t series.Type) (format.ColumnType, bool) {
	switch t {
	case series.Float:
		return format.ColumnFloat, true
	case series.Int:
		return format.ColumnInt, true
	case series.Bool:
		return format.ColumnBool, true
	case series.String:
		return format.ColumnString, true
	default:
		return 0, false
	}
}

func seriesType(t format.ColumnType) series.Type {
	switch t {
	case format.ColumnInt:
		return series.Int
	case format.ColumnBool:
		return series.Bool
	case format.ColumnString:
		return series.String
	default:
		return series.Float
	}
}

func bitmapSize(rows int) int {
	return (rows + 7) / 8
}

// writeColumn appends name, NA bitmap and values of s to buf.
func writeColumn(buf *pool.ByteBuffer, engine endian.EndianEngine, s series.Series, typ format.ColumnType) error {
	rows := s.Len()

	buf.B = engine.AppendUint16(buf.B, uint16(len(s.Name))) //nolint:gosec // checked by the writer
	buf.B = append(buf.B, s.Name...)

	bitmapStart := buf.Len()
	buf.Grow(bitmapSize(rows))
	buf.B = buf.B[:bitmapStart+bitmapSize(rows)]
	clear(buf.B[bitmapStart:])

	for i := 0; i < rows; i++ {
		elem := s.Elem(i)
		na := elem.IsNA()
		if na {
			buf.B[bitmapStart+i/8] |= 1 << (i % 8)
		}

		switch typ {
		case format.ColumnFloat:
			buf.B = engine.AppendUint64(buf.B, math.Float64bits(elem.Float()))
		case format.ColumnInt:
			var v int
			if !na {
				var err error
				if v, err = elem.Int(); err != nil {
					return fmt.Errorf("column %q row %d: %w", s.Name, i, err)
				}
			}
			buf.B = engine.AppendUint64(buf.B, uint64(int64(v))) //nolint:gosec // two's complement round-trip
		case format.ColumnBool:
			var b byte
			if !na {
				v, err := elem.Bool()
				if err != nil {
					return fmt.Errorf("column %q row %d: %w", s.Name, i, err)
				}
				if v {
					b = 1
				}
			}
			buf.B = append(buf.B, b)
		case format.ColumnString:
			var str string
			if !na {
				str = elem.String()
			}
			if uint64(len(str)) > math.MaxUint32 {
				return fmt.Errorf("%w: column %q row %d string too long", errs.ErrSnapshotTooLarge, s.Name, i)
			}
			buf.B = engine.AppendUint32(buf.B, uint32(len(str))) //nolint:gosec // checked above
			buf.B = append(buf.B, str...)
		}
	}

	return nil
}

// columnReader walks a column body inside the decompressed payload.
type columnReader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

func (r *columnReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: payload truncated at offset %d", errs.ErrInvalidSnapshot, r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *columnReader) name() (string, error) {
	lenBytes, err := r.take(2)
	if err != nil {
		return "", err
	}
	nameBytes, err := r.take(int(r.engine.Uint16(lenBytes)))
	if err != nil {
		return "", err
	}

	return string(nameBytes), nil
}

// values decodes rows values of typ. NA rows are returned as nil entries.
func (r *columnReader) values(typ format.ColumnType, rows int) (any, error) {
	bitmap, err := r.take(bitmapSize(rows))
	if err != nil {
		return nil, err
	}
	isNA := func(i int) bool { return bitmap[i/8]&(1<<(i%8)) != 0 }

	hasNA := false
	for _, b := range bitmap {
		if b != 0 {
			hasNA = true
			break
		}
	}

	switch typ {
	case format.ColumnFloat:
		raw, err := r.take(rows * 8)
		if err != nil {
			return nil, err
		}
		out := make([]float64, rows)
		for i := range out {
			out[i] = math.Float64frombits(r.engine.Uint64(raw[i*8:]))
		}

		return withNA(out, hasNA, isNA), nil
	case format.ColumnInt:
		raw, err := r.take(rows * 8)
		if err != nil {
			return nil, err
		}
		out := make([]int, rows)
		for i := range out {
			out[i] = int(int64(r.engine.Uint64(raw[i*8:]))) //nolint:gosec // written from int
		}

		return withNA(out, hasNA, isNA), nil
	case format.ColumnBool:
		raw, err := r.take(rows)
		if err != nil {
			return nil, err
		}
		out := make([]bool, rows)
		for i, b := range raw {
			out[i] = b != 0
		}

		return withNA(out, hasNA, isNA), nil
	case format.ColumnString:
		// Every string carries a 4-byte length, so a shorter remainder cannot hold rows values.
		if rows > (len(r.data)-r.pos)/4 {
			return nil, fmt.Errorf("%w: %d strings do not fit the remaining %d bytes",
				errs.ErrInvalidSnapshot, rows, len(r.data)-r.pos)
		}
		out := make([]string, rows)
		for i := range out {
			lenBytes, err := r.take(4)
			if err != nil {
				return nil, err
			}
			str, err := r.take(int(r.engine.Uint32(lenBytes)))
			if err != nil {
				return nil, err
			}
			out[i] = string(str)
		}

		return withNA(out, hasNA, isNA), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumn, typ)
	}
}

// withNA returns values unchanged when no row is NA. Otherwise it returns a
// []any with nil at NA rows, which gota turns into NA elements.
func withNA[T any](values []T, hasNA bool, isNA func(int) bool) any {
	if !hasNA {
		return values
	}

	out := make([]any, len(values))
	for i, v := range values {
		if !isNA(i) {
			out[i] = v
		}
	}

	return out
}

package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/format"
)

var allCompressions = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func mixedFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{1, 4, 7, 10, -3}, series.Int, "month"),
		series.New([]float64{0.5, 0.8660254037844386, -0.5, -0.8660254037844387, 1e-300}, series.Float, "month_sin"),
		series.New([]bool{true, false, true, true, false}, series.Bool, "weekend"),
		series.New([]string{"jan", "apr", "", "oct", "héllo"}, series.String, "label"),
	)
}

func TestMarshal_RoundTrip(t *testing.T) {
	df := mixedFrame()

	for _, compression := range allCompressions {
		for _, bigEndian := range []bool{false, true} {
			name := compression.String() + "/LittleEndian"
			order := WithLittleEndian()
			if bigEndian {
				name = compression.String() + "/BigEndian"
				order = WithBigEndian()
			}

			t.Run(name, func(t *testing.T) {
				data, err := Marshal(df, WithCompression(compression), order)
				require.NoError(t, err)

				got, err := Unmarshal(data)
				require.NoError(t, err)
				require.Equal(t, df.Names(), got.Names())
				require.Equal(t, df.Nrow(), got.Nrow())
				require.Equal(t, df.Records(), got.Records())
				require.Equal(t, df.Col("month_sin").Float(), got.Col("month_sin").Float())
				require.Equal(t, series.Int, got.Col("month").Type())
				require.Equal(t, series.Bool, got.Col("weekend").Type())
				require.Equal(t, series.String, got.Col("label").Type())
			})
		}
	}
}

func TestMarshal_HeaderLayout(t *testing.T) {
	df := mixedFrame()

	t.Run("LittleEndian", func(t *testing.T) {
		data, err := Marshal(df, WithCompression(format.CompressionS2))
		require.NoError(t, err)
		require.Equal(t, Magic, string(data[0:4]))
		require.Equal(t, Version, data[4])
		require.Equal(t, uint8(0), data[5])
		require.Equal(t, uint8(format.CompressionS2), data[6])
		require.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[8:12]))
		require.Equal(t, uint32(5), binary.LittleEndian.Uint32(data[12:16]))
		require.Positive(t, binary.LittleEndian.Uint32(data[16:20]))
		require.Equal(t, crc32.ChecksumIEEE(data[HeaderSize:]), binary.LittleEndian.Uint32(data[20:24]))

		r, err := Open(data)
		require.NoError(t, err)
		require.Equal(t, int64(binary.LittleEndian.Uint32(data[16:20])), r.Stats().OriginalSize)
	})

	t.Run("BigEndian", func(t *testing.T) {
		data, err := Marshal(df, WithBigEndian())
		require.NoError(t, err)
		require.Equal(t, flagBigEndian, data[5])
		require.Equal(t, uint8(format.CompressionZstd), data[6])
		require.Equal(t, uint32(4), binary.BigEndian.Uint32(data[8:12]))
		require.Equal(t, uint32(5), binary.BigEndian.Uint32(data[12:16]))
	})
}

func TestMarshal_NARoundTrip(t *testing.T) {
	df := dataframe.New(
		series.New([]any{1.5, nil, 3.0}, series.Float, "f"),
		series.New([]any{nil, 2, 3}, series.Int, "i"),
		series.New([]any{true, false, nil}, series.Bool, "b"),
		series.New([]any{"x", nil, "z"}, series.String, "s"),
	)

	for _, compression := range allCompressions {
		t.Run(compression.String(), func(t *testing.T) {
			data, err := Marshal(df, WithCompression(compression))
			require.NoError(t, err)

			got, err := Unmarshal(data)
			require.NoError(t, err)

			require.True(t, got.Col("f").Elem(1).IsNA())
			require.InDelta(t, 3.0, got.Col("f").Elem(2).Float(), 0)
			require.True(t, got.Col("i").Elem(0).IsNA())
			require.False(t, got.Col("i").Elem(1).IsNA())
			require.True(t, got.Col("b").Elem(2).IsNA())
			require.True(t, got.Col("s").Elem(1).IsNA())
			require.Equal(t, "z", got.Col("s").Elem(2).String())
		})
	}
}

func TestMarshal_EmptyFrame(t *testing.T) {
	data, err := Marshal(dataframe.DataFrame{})
	require.NoError(t, err)

	r, err := Open(data)
	require.NoError(t, err)
	require.Equal(t, 0, r.Columns())
	require.Equal(t, 0, r.Rows())

	df, err := r.Frame()
	require.NoError(t, err)
	require.Equal(t, 0, df.Ncol())
}

func TestMarshal_Errors(t *testing.T) {
	t.Run("FrameWithError", func(t *testing.T) {
		_, err := Marshal(dataframe.DataFrame{Err: errors.New("bad csv")})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
		require.Contains(t, err.Error(), "bad csv")
	})

	t.Run("InvalidCompression", func(t *testing.T) {
		_, err := Marshal(mixedFrame(), WithCompression(format.CompressionType(0x9)))
		require.ErrorIs(t, err, errs.ErrInvalidCompression)
	})
}

func TestOpen_Metadata(t *testing.T) {
	df := mixedFrame()
	data, err := Marshal(df, WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	r, err := Open(data)
	require.NoError(t, err)

	require.Equal(t, df.Names(), r.Names())
	require.Equal(t, 5, r.Rows())
	require.Equal(t, 4, r.Columns())
	require.Equal(t, format.CompressionLZ4, r.Compression())
	require.False(t, r.Header().BigEndian)

	index := r.Index()
	require.Len(t, index, 4)
	require.Equal(t, "month", index[0].Name)
	require.Equal(t, format.ColumnInt, index[0].Type)
	require.Equal(t, format.ColumnFloat, index[1].Type)
	require.Equal(t, format.ColumnBool, index[2].Type)
	require.Equal(t, format.ColumnString, index[3].Type)

	stats := r.Stats()
	require.Equal(t, format.CompressionLZ4, stats.Algorithm)
	require.Positive(t, stats.OriginalSize)
	require.Equal(t, int64(len(data)-HeaderSize-4*IndexEntrySize), stats.CompressedSize)
	require.Equal(t, 4, stats.Columns)
	require.Equal(t, 5, stats.Rows)
	require.False(t, stats.HashCollision)

	t.Run("Column", func(t *testing.T) {
		s, err := r.Column("label")
		require.NoError(t, err)
		require.Equal(t, []string{"jan", "apr", "", "oct", "héllo"}, s.Records())
	})

	t.Run("MissingColumn", func(t *testing.T) {
		_, err := r.Column("month_cos")
		require.ErrorIs(t, err, errs.ErrColumnNotFound)
	})

	t.Run("NamesAreCopied", func(t *testing.T) {
		names := r.Names()
		names[0] = "changed"
		require.Equal(t, "month", r.Names()[0])
	})
}

func TestOpen_Corruption(t *testing.T) {
	valid, err := Marshal(mixedFrame(), WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	payloadSize := func(d []byte, delta int64) []byte {
		size := int64(binary.LittleEndian.Uint32(d[16:20])) + delta
		binary.LittleEndian.PutUint32(d[16:20], uint32(size)) //nolint:gosec // test data
		return d
	}
	mutate := func(fn func(data []byte) []byte) []byte {
		data := bytes.Clone(valid)
		return fn(data)
	}
	// resum recomputes the checksum so that checks after the CRC are reached.
	resum := func(data []byte) []byte {
		binary.LittleEndian.PutUint32(data[20:24], crc32.ChecksumIEEE(data[HeaderSize:]))
		return data
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Empty", nil, errs.ErrInvalidSnapshot},
		{"ShortHeader", valid[:HeaderSize-1], errs.ErrInvalidSnapshot},
		{"BadMagic", mutate(func(d []byte) []byte { d[0] = 'X'; return d }), errs.ErrInvalidSnapshot},
		{"FutureVersion", mutate(func(d []byte) []byte { d[4] = Version + 1; return d }), errs.ErrUnsupportedVersion},
		{"UnknownCompression", mutate(func(d []byte) []byte { d[6] = 0x7f; return d }), errs.ErrInvalidCompression},
		{"TruncatedIndex", valid[:HeaderSize+IndexEntrySize], errs.ErrInvalidSnapshot},
		{"FlippedPayloadByte", mutate(func(d []byte) []byte { d[len(d)-1] ^= 0xff; return d }), errs.ErrChecksumMismatch},
		{"FlippedIndexByte", mutate(func(d []byte) []byte { d[HeaderSize] ^= 0xff; return d }), errs.ErrChecksumMismatch},
		{"UnknownColumnType", mutate(func(d []byte) []byte { d[HeaderSize+8] = 0x9; return resum(d) }), errs.ErrUnsupportedColumn},
		{"GarbagePayload", mutate(func(d []byte) []byte {
			d = append(d[:HeaderSize+4*IndexEntrySize], 0xde, 0xad, 0xbe, 0xef)
			return resum(d)
		}), errs.ErrInvalidSnapshot},
		{"IDMismatch", mutate(func(d []byte) []byte { d[HeaderSize] ^= 0xff; return resum(d) }), errs.ErrInvalidSnapshot},
		{"PayloadSizeTooSmall", mutate(func(d []byte) []byte { return payloadSize(d, -1) }), errs.ErrDecodedSize},
		{"PayloadSizeTooLarge", mutate(func(d []byte) []byte { return payloadSize(d, 1) }), errs.ErrDecodedSize},
		{"PayloadSizeHuge", mutate(func(d []byte) []byte {
			binary.LittleEndian.PutUint32(d[16:20], math.MaxUint32)
			return d
		}), errs.ErrInvalidSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteRead(t *testing.T) {
	df := mixedFrame()

	var buf bytes.Buffer
	stats, err := Write(&buf, df, WithCompression(format.CompressionNone))
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, stats.Algorithm)
	require.Equal(t, stats.OriginalSize, stats.CompressedSize)
	require.InDelta(t, 1.0, stats.CompressionRatio(), 0)
	require.Equal(t, 4, stats.Columns)
	require.Equal(t, 5, stats.Rows)
	require.False(t, stats.HashCollision)
	require.Equal(t, int64(buf.Len()), int64(HeaderSize+4*IndexEntrySize)+stats.CompressedSize)

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, df.Records(), got.Records())
}

// noneSnapshot marshals df uncompressed so tests can rewrite the payload in place.
func noneSnapshot(t *testing.T, df dataframe.DataFrame) []byte {
	t.Helper()
	data, err := Marshal(df, WithCompression(format.CompressionNone))
	require.NoError(t, err)

	return data
}

func resumSnapshot(data []byte) []byte {
	binary.LittleEndian.PutUint32(data[20:24], crc32.ChecksumIEEE(data[HeaderSize:]))
	return data
}

func TestOpen_DuplicateStoredName(t *testing.T) {
	df := dataframe.New(
		series.New([]int{1, 2}, series.Int, "aa"),
		series.New([]int{3, 4}, series.Int, "ab"),
	)
	data := noneSnapshot(t, df)

	// Point the second index entry at the first column, keeping a valid checksum.
	first := data[HeaderSize : HeaderSize+IndexEntrySize]
	copy(data[HeaderSize+IndexEntrySize:HeaderSize+2*IndexEntrySize], first)

	_, err := Open(resumSnapshot(data))
	require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
	require.ErrorIs(t, err, errs.ErrDuplicateColumn)
}

func TestReader_RowCountBeyondStrings(t *testing.T) {
	df := dataframe.New(series.New([]string{"jan", "feb"}, series.String, "label"))
	data := noneSnapshot(t, df)

	// The header row count is outside the checksum. Sixteen rows still fit the
	// NA bitmap but not sixteen string lengths.
	binary.LittleEndian.PutUint32(data[12:16], 16)

	r, err := Open(data)
	require.NoError(t, err)

	_, err = r.Column("label")
	require.ErrorIs(t, err, errs.ErrInvalidSnapshot)

	_, err = r.Frame()
	require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
}

func TestReader_Concurrent(t *testing.T) {
	data, err := Marshal(mixedFrame())
	require.NoError(t, err)

	r, err := Open(data)
	require.NoError(t, err)

	done := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := r.Frame()
			done <- err
		}()
	}
	for range 8 {
		require.NoError(t, <-done)
	}
}

func BenchmarkMarshal(b *testing.B) {
	const rows = 10_000
	values := make([]float64, rows)
	for i := range values {
		values[i] = float64(i % 24)
	}
	df := dataframe.New(series.New(values, series.Float, "hour"))

	for _, compression := range allCompressions {
		b.Run(compression.String(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := Marshal(df, WithCompression(compression)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

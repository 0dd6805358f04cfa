package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cyclenc/errs"
)

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"ZSTD", CompressionZstd},
		{" s2 ", CompressionS2},
		{"lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompression(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.True(t, got.Valid())
		})
	}

	_, err := ParseCompression("gzip")
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestTypeStrings(t *testing.T) {
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "Unknown", CompressionType(0).String())
	require.False(t, CompressionType(9).Valid())

	require.Equal(t, "float", ColumnFloat.String())
	require.Equal(t, "string", ColumnString.String())
	require.Equal(t, "unknown", ColumnType(0).String())
	require.True(t, ColumnBool.Valid())
	require.False(t, ColumnType(5).Valid())
}

package compress

import (
	"fmt"

	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/format"
)

// Compressor compresses a complete snapshot payload.
//
// The returned slice is owned by the caller and the input is never modified,
// except for NoOpCompressor which returns its input unchanged.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm. It returns an error
// when the input is corrupted or was produced by a different algorithm.
//
// DecompressSize is the bounded form used when the decoded length is known, as
// it is for snapshot payloads. It never allocates more than size bytes for the
// output and returns ErrDecodedSize when the input does not expand to exactly
// size bytes.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
	DecompressSize(data []byte, size int) ([]byte, error)
}

// Codec combines both directions. All built-in codecs are safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression of a payload.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64
}

// CompressionRatio returns CompressedSize / OriginalSize, or 0 for empty input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage of the original size.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}

func sizeMismatch(algorithm string, got, want int) error {
	return fmt.Errorf("%w: %s payload decodes to %d bytes, expected %d", errs.ErrDecodedSize, algorithm, got, want)
}

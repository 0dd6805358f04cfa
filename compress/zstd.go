package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor compresses payloads with Zstandard. The implementation is
// chosen at build time, see zstd_pure.go and zstd_cgo.go.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// checkZstdFrameSize compares the content size declared in the frame header
// with size, so a lying header is rejected before any output is allocated.
// Frames without a declared content size pass and are checked after decoding.
func checkZstdFrameSize(data []byte, size int) error {
	if size < 0 {
		return sizeMismatch("zstd", 0, size)
	}

	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return fmt.Errorf("zstd decompression failed: %w", err)
	}
	if h.HasFCS && h.FrameContentSize != uint64(size) {
		return sizeMismatch("zstd", int(min(h.FrameContentSize, zstdMaxDecodedSize)), size) //nolint:gosec // bounded by min
	}

	return nil
}

// zstdMaxDecodedSize matches the largest payload a snapshot can address.
const zstdMaxDecodedSize = 1 << 32

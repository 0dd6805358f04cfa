// Package compress provides the compression codecs applied to snapshot payloads.
//
// A snapshot serializes every column into one payload, then compresses the
// whole payload with the codec recorded in the snapshot header:
//
//   - None: payload stored as-is
//   - Zstd: best ratio, good for archived feature tables
//   - S2: fast with a reasonable ratio
//   - LZ4: fastest decompression
//
// Sine and cosine columns are dense float64 data and compress poorly compared
// to the integer source columns, so Zstd or S2 are the usual choices.
//
// Usage:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(payload)
//
// The Zstd codec uses github.com/klauspost/compress/zstd by default. Building
// with the gozstd tag (and cgo enabled) switches it to github.com/valyala/gozstd.
package compress

package snapshot

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/arloliu/cyclenc/compress"
	"github.com/arloliu/cyclenc/endian"
	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/format"
	"github.com/arloliu/cyclenc/internal/collision"
	"github.com/arloliu/cyclenc/internal/hash"
	"github.com/arloliu/cyclenc/internal/options"
	"github.com/arloliu/cyclenc/internal/pool"
)

// WriterConfig holds the settings applied when a snapshot is written.
type WriterConfig struct {
	compression format.CompressionType
	bigEndian   bool
}

// Option configures a snapshot writer.
type Option = options.Option[*WriterConfig]

// WithCompression selects the payload compression. The default is zstd.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(cfg *WriterConfig) error {
		if !compression.Valid() {
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compression)
		}
		cfg.compression = compression

		return nil
	})
}

// WithLittleEndian writes all multi-byte fields little-endian. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(cfg *WriterConfig) {
		cfg.bigEndian = false
	})
}

// WithBigEndian writes all multi-byte fields big-endian.
func WithBigEndian() Option {
	return options.NoError(func(cfg *WriterConfig) {
		cfg.bigEndian = true
	})
}

func newWriterConfig(opts []Option) (*WriterConfig, error) {
	cfg := &WriterConfig{compression: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Stats summarizes a written or opened snapshot.
type Stats struct {
	compress.CompressionStats

	// Columns and Rows describe the stored frame.
	Columns int
	Rows    int

	// HashCollision reports that two column names share an xxHash64 id.
	// Lookups stay correct because readers confirm the stored name.
	HashCollision bool
}

// Marshal encodes df into a snapshot.
//
// Parameters:
//   - df: frame to encode; a frame carrying an error is rejected
//   - opts: compression and byte order options
//
// Returns:
//   - []byte: the complete snapshot, owned by the caller
//   - error: ErrInvalidInput for a failed frame, ErrDuplicateColumn,
//     ErrInvalidColumnName, ErrUnsupportedColumn or ErrSnapshotTooLarge
func Marshal(df dataframe.DataFrame, opts ...Option) ([]byte, error) {
	frame := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(frame)

	if _, err := marshal(frame, df, opts); err != nil {
		return nil, err
	}

	return bytes.Clone(frame.Bytes()), nil
}

// Write encodes df into a snapshot and streams it to w.
//
// Returns the payload compression statistics on success.
func Write(w io.Writer, df dataframe.DataFrame, opts ...Option) (Stats, error) {
	frame := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(frame)

	stats, err := marshal(frame, df, opts)
	if err != nil {
		return Stats{}, err
	}

	if _, err := frame.WriteTo(w); err != nil {
		return Stats{}, fmt.Errorf("write snapshot: %w", err)
	}

	return stats, nil
}

// marshal appends the complete snapshot to frame.
func marshal(frame *pool.ByteBuffer, df dataframe.DataFrame, opts []Option) (Stats, error) {
	cfg, err := newWriterConfig(opts)
	if err != nil {
		return Stats{}, err
	}
	if df.Err != nil {
		return Stats{}, fmt.Errorf("%w: dataframe error: %w", errs.ErrInvalidInput, df.Err)
	}

	names := df.Names()
	rows := df.Nrow()
	if uint64(rows) > math.MaxUint32 || uint64(len(names)) > math.MaxUint32 {
		return Stats{}, fmt.Errorf("%w: %d columns x %d rows", errs.ErrSnapshotTooLarge, len(names), rows)
	}

	engine := endian.FromFlag(cfg.bigEndian)
	tracker := collision.NewTracker(len(names))
	index := make([]IndexEntry, 0, len(names))

	payload := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(payload)

	for _, name := range names {
		if len(name) > MaxNameLength {
			return Stats{}, fmt.Errorf("%w: name of %d bytes", errs.ErrInvalidColumnName, len(name))
		}

		id := hash.ColumnID(name)
		if err := tracker.Track(name, id); err != nil {
			return Stats{}, err
		}

		s := df.Col(name)
		typ, ok := columnType(s.Type())
		if !ok {
			return Stats{}, fmt.Errorf("%w: column %q has type %s", errs.ErrUnsupportedColumn, name, s.Type())
		}

		if uint64(payload.Len()) > math.MaxUint32 {
			return Stats{}, fmt.Errorf("%w: payload exceeds 4GiB", errs.ErrSnapshotTooLarge)
		}
		index = append(index, IndexEntry{ID: id, Type: typ, Offset: uint32(payload.Len())}) //nolint:gosec // checked above

		if err := writeColumn(payload, engine, s, typ); err != nil {
			return Stats{}, err
		}
	}
	if uint64(payload.Len()) > math.MaxUint32 {
		return Stats{}, fmt.Errorf("%w: payload of %d bytes exceeds 4GiB", errs.ErrSnapshotTooLarge, payload.Len())
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return Stats{}, err
	}
	stored, err := codec.Compress(payload.Bytes())
	if err != nil {
		return Stats{}, fmt.Errorf("compress payload: %w", err)
	}

	start := frame.Len()
	frame.Grow(HeaderSize + len(index)*IndexEntrySize + len(stored))
	frame.B = frame.B[:start+HeaderSize]
	for _, e := range index {
		frame.B = e.appendTo(frame.B, engine)
	}
	frame.B = append(frame.B, stored...)

	h := Header{
		Version:     Version,
		BigEndian:   cfg.bigEndian,
		Compression: cfg.compression,
		ColumnCount: uint32(tracker.Count()), //nolint:gosec // checked above
		RowCount:    uint32(rows),            //nolint:gosec // checked above
		PayloadSize: uint32(payload.Len()),   //nolint:gosec // checked above
		Checksum:    crc32.ChecksumIEEE(frame.B[start+HeaderSize:]),
	}
	// frame has capacity past the header, so this overwrites the reserved bytes in place.
	h.appendTo(frame.B[start:start])

	return Stats{
		CompressionStats: compress.CompressionStats{
			Algorithm:      cfg.compression,
			OriginalSize:   int64(payload.Len()),
			CompressedSize: int64(len(stored)),
		},
		Columns:       tracker.Count(),
		Rows:          rows,
		HashCollision: tracker.HasCollision(),
	}, nil
}

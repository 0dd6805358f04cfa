package snapshot

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/arloliu/cyclenc/compress"
	"github.com/arloliu/cyclenc/endian"
	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/format"
	"github.com/arloliu/cyclenc/internal/collision"
	"github.com/arloliu/cyclenc/internal/hash"
)

// ColumnInfo describes one stored column.
type ColumnInfo struct {
	Name string
	ID   uint64
	Type format.ColumnType
}

// Reader gives random access to the columns of a decoded snapshot.
//
// A Reader is immutable after Open and safe for concurrent use.
type Reader struct {
	header        Header
	engine        endian.EndianEngine
	index         []IndexEntry
	names         []string
	byID          map[uint64][]int
	payload       []byte
	stored        int
	hashCollision bool
}

// Open validates a snapshot and prepares it for column access.
//
// The header magic, version and compression are checked first, then the CRC32
// over the index and stored payload. The payload is decompressed into exactly
// the size recorded in the header, then every index offset and column name is
// checked. Column values are decoded lazily by Column and Frame.
//
// Returns ErrInvalidSnapshot, ErrUnsupportedVersion, ErrInvalidCompression,
// ErrChecksumMismatch or ErrUnsupportedColumn on malformed input. Duplicate
// column names are reported as ErrInvalidSnapshot wrapping ErrDuplicateColumn.
func Open(data []byte) (*Reader, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	indexEnd := uint64(HeaderSize) + uint64(h.ColumnCount)*IndexEntrySize
	if indexEnd > uint64(len(data)) {
		return nil, fmt.Errorf("%w: index of %d columns exceeds %d bytes", errs.ErrInvalidSnapshot, h.ColumnCount, len(data))
	}

	if sum := crc32.ChecksumIEEE(data[HeaderSize:]); sum != h.Checksum {
		return nil, fmt.Errorf("%w: stored %08x, computed %08x", errs.ErrChecksumMismatch, h.Checksum, sum)
	}

	engine := h.engine()
	r := &Reader{
		header: h,
		engine: engine,
		index:  make([]IndexEntry, h.ColumnCount),
		byID:   make(map[uint64][]int, h.ColumnCount),
		stored: len(data) - int(indexEnd),
	}

	for i := range r.index {
		off := HeaderSize + i*IndexEntrySize
		e, err := parseIndexEntry(data[off:off+IndexEntrySize], engine)
		if err != nil {
			return nil, err
		}
		r.index[i] = e
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}
	r.payload, err = codec.DecompressSize(data[indexEnd:], int(h.PayloadSize))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress payload: %w", errs.ErrInvalidSnapshot, err)
	}

	tracker := collision.NewTracker(len(r.index))
	for i, e := range r.index {
		cr := columnReader{data: r.payload, pos: int(e.Offset), engine: engine}
		name, err := cr.name()
		if err != nil {
			return nil, err
		}
		if hash.ColumnID(name) != e.ID {
			return nil, fmt.Errorf("%w: column %q does not match its index id", errs.ErrInvalidSnapshot, name)
		}
		if err := tracker.Track(name, e.ID); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
		}
		r.byID[e.ID] = append(r.byID[e.ID], i)
	}
	r.names = tracker.Names()
	r.hashCollision = tracker.HasCollision()

	return r, nil
}

// Header returns the decoded snapshot header.
func (r *Reader) Header() Header {
	return r.header
}

// Names returns the column names in stored order.
func (r *Reader) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)

	return out
}

// Rows returns the number of rows in every column.
func (r *Reader) Rows() int {
	return int(r.header.RowCount)
}

// Columns returns the number of stored columns.
func (r *Reader) Columns() int {
	return len(r.index)
}

// Compression returns the payload compression.
func (r *Reader) Compression() format.CompressionType {
	return r.header.Compression
}

// Index describes every stored column in order.
func (r *Reader) Index() []ColumnInfo {
	out := make([]ColumnInfo, len(r.index))
	for i, e := range r.index {
		out[i] = ColumnInfo{Name: r.names[i], ID: e.ID, Type: e.Type}
	}

	return out
}

// Stats reports the payload sizes, the frame shape and whether two stored
// names share an id.
func (r *Reader) Stats() Stats {
	return Stats{
		CompressionStats: compress.CompressionStats{
			Algorithm:      r.header.Compression,
			OriginalSize:   int64(len(r.payload)),
			CompressedSize: int64(r.stored),
		},
		Columns:       len(r.index),
		Rows:          r.Rows(),
		HashCollision: r.hashCollision,
	}
}

// Column decodes the column called name.
//
// The lookup goes through the xxHash64 id and confirms the stored name, so two
// names sharing an id resolve correctly.
//
// Returns ErrColumnNotFound when no stored column has that name.
func (r *Reader) Column(name string) (series.Series, error) {
	for _, i := range r.byID[hash.ColumnID(name)] {
		if r.names[i] == name {
			return r.column(i)
		}
	}

	return series.Series{}, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, name)
}

func (r *Reader) column(i int) (series.Series, error) {
	e := r.index[i]
	cr := columnReader{data: r.payload, pos: int(e.Offset), engine: r.engine}
	name, err := cr.name()
	if err != nil {
		return series.Series{}, err
	}

	values, err := cr.values(e.Type, r.Rows())
	if err != nil {
		return series.Series{}, fmt.Errorf("column %q: %w", name, err)
	}

	s := series.New(values, seriesType(e.Type), name)
	if s.Err != nil {
		return series.Series{}, fmt.Errorf("%w: column %q: %w", errs.ErrInvalidSnapshot, name, s.Err)
	}

	return s, nil
}

// Frame decodes every column into a DataFrame in stored order.
// A snapshot without columns yields an empty DataFrame.
func (r *Reader) Frame() (dataframe.DataFrame, error) {
	if len(r.index) == 0 {
		return dataframe.DataFrame{}, nil
	}

	cols := make([]series.Series, len(r.index))
	for i := range r.index {
		s, err := r.column(i)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		cols[i] = s
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, df.Err)
	}

	return df, nil
}

// Unmarshal decodes a complete snapshot into a DataFrame.
func Unmarshal(data []byte) (dataframe.DataFrame, error) {
	r, err := Open(data)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return r.Frame()
}

// Read consumes src to EOF and decodes it as a snapshot.
func Read(src io.Reader) (dataframe.DataFrame, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read snapshot: %w", err)
	}

	return Unmarshal(buf.Bytes())
}

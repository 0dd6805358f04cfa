package snapshot

import (
	"fmt"

	"github.com/arloliu/cyclenc/endian"
	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/format"
)

const (
	// Magic identifies a snapshot.
	Magic = "CYCF"

	// Version is the only format version this package reads and writes.
	Version uint8 = 1

	// HeaderSize is the fixed size of the snapshot header in bytes.
	HeaderSize = 24

	// IndexEntrySize is the size of one column index entry in bytes.
	IndexEntrySize = 16

	// MaxNameLength is the longest column name that fits the uint16 length prefix.
	MaxNameLength = 1<<16 - 1

	flagBigEndian uint8 = 0x01
)

// Header is the decoded fixed-size snapshot header.
type Header struct {
	Version     uint8
	BigEndian   bool
	Compression format.CompressionType
	ColumnCount uint32
	RowCount    uint32
	PayloadSize uint32
	Checksum    uint32
}

func (h Header) engine() endian.EndianEngine {
	return endian.FromFlag(h.BigEndian)
}

func (h Header) appendTo(buf []byte) []byte {
	var flags uint8
	if h.BigEndian {
		flags |= flagBigEndian
	}

	engine := h.engine()
	buf = append(buf, Magic...)
	buf = append(buf, h.Version, flags, uint8(h.Compression), 0)
	buf = engine.AppendUint32(buf, h.ColumnCount)
	buf = engine.AppendUint32(buf, h.RowCount)
	buf = engine.AppendUint32(buf, h.PayloadSize)
	buf = engine.AppendUint32(buf, h.Checksum)

	return buf
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", errs.ErrInvalidSnapshot, len(data))
	}
	if string(data[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidSnapshot, data[0:4])
	}

	h := Header{
		Version:     data[4],
		BigEndian:   data[5]&flagBigEndian != 0,
		Compression: format.CompressionType(data[6]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}
	if !h.Compression.Valid() {
		return Header{}, fmt.Errorf("%w: %d", errs.ErrInvalidCompression, data[6])
	}

	engine := h.engine()
	h.ColumnCount = engine.Uint32(data[8:12])
	h.RowCount = engine.Uint32(data[12:16])
	h.PayloadSize = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint32(data[20:24])

	return h, nil
}

// IndexEntry locates one column inside the uncompressed payload.
type IndexEntry struct {
	ID     uint64
	Type   format.ColumnType
	Offset uint32
}

func (e IndexEntry) appendTo(buf []byte, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint64(buf, e.ID)
	buf = append(buf, uint8(e.Type), 0, 0, 0)
	buf = engine.AppendUint32(buf, e.Offset)

	return buf
}

func parseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, error) {
	e := IndexEntry{
		ID:     engine.Uint64(data[0:8]),
		Type:   format.ColumnType(data[8]),
		Offset: engine.Uint32(data[12:16]),
	}
	if !e.Type.Valid() {
		return IndexEntry{}, fmt.Errorf("%w: column type %d", errs.ErrUnsupportedColumn, data[8])
	}

	return e, nil
}

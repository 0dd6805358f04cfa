// Package snapshot stores a DataFrame in a compact, compressed binary container.
//
// Snapshots persist feature tables produced by the cyclical package without
// the parsing cost and precision loss of CSV. Float columns are stored as raw
// IEEE 754 bits, so sine and cosine values round-trip exactly.
//
// # Layout
//
//	+----------------------+  24 bytes
//	| Header               |  magic "CYCF", version, flags, compression,
//	|                      |  column count, row count, payload size, CRC32
//	+----------------------+  16 bytes per column
//	| Index                |  xxHash64 column ID, column type, payload offset
//	+----------------------+
//	| Payload (compressed) |  per column: name, NA bitmap, values
//	+----------------------+
//
// The payload size is the uncompressed length, so readers decode into a buffer
// of exactly that size. The CRC32 (IEEE) covers the index and the stored payload. Multi-byte fields
// use the byte order recorded in the header flags, little-endian by default.
//
// # Usage
//
//	data, err := snapshot.Marshal(df, snapshot.WithCompression(format.CompressionZstd))
//	...
//	r, err := snapshot.Open(data)
//	sinCol, err := r.Column("month_sin")
//	df, err := r.Frame()
package snapshot

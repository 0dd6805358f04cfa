// Package errs defines the sentinel errors returned by cyclenc packages.
//
// Errors are wrapped with context via fmt.Errorf("%w: ..."), so callers should
// match them with errors.Is:
//
//	out, err := cyclical.Encode(df, "month", 12)
//	switch {
//	case errors.Is(err, errs.ErrColumnNotFound):
//	    // unknown column
//	case errors.Is(err, errs.ErrInvalidRange):
//	    // period <= 0
//	}
package errs

import "errors"

// Encoding errors.
var (
	// ErrInvalidType is returned when the dataset is not a valid table, when the
	// period is not numeric, or when the column values cannot be read as numbers.
	ErrInvalidType = errors.New("invalid type")

	// ErrColumnNotFound is returned when the named column does not exist in the table.
	// Non-string column keys are reported with this error as well.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidRange is returned when the period is zero, negative, NaN or infinite.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidInput is returned for malformed options or feature lists.
	ErrInvalidInput = errors.New("invalid input")
)

// Snapshot errors.
var (
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrChecksumMismatch   = errors.New("snapshot checksum mismatch")
	ErrDuplicateColumn    = errors.New("duplicate column name")
	ErrInvalidColumnName  = errors.New("invalid column name")
	ErrUnsupportedColumn  = errors.New("unsupported column type")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrSnapshotTooLarge   = errors.New("snapshot exceeds size limits")
	ErrDecodedSize        = errors.New("decoded size mismatch")
)

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/arloliu/cyclenc/format"
	"github.com/arloliu/cyclenc/snapshot"
)

// SnapshotExt marks files stored in the binary snapshot format.
const SnapshotExt = ".cyf"

// stdio is the path that refers to standard input or output.
const stdio = "-"

func isSnapshot(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SnapshotExt)
}

// readFrame loads a table from a CSV file, a snapshot, or CSV on in when path is "-".
func readFrame(path string, in io.Reader) (dataframe.DataFrame, error) {
	if path == stdio {
		return readCSV(in, "stdin")
	}

	if isSnapshot(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", path, err)
		}
		df, err := snapshot.Unmarshal(data)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("decode %s: %w", path, err)
		}

		return df, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return readCSV(f, path)
}

func readCSV(r io.Reader, name string) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse csv %s: %w", name, df.Err)
	}

	return df, nil
}

// writeFrame stores df at path. Snapshots report their write statistics;
// CSV output returns zero stats.
func writeFrame(path string, out io.Writer, df dataframe.DataFrame, compression format.CompressionType) (snapshot.Stats, error) {
	if path == stdio {
		if err := df.WriteCSV(out); err != nil {
			return snapshot.Stats{}, fmt.Errorf("write csv: %w", err)
		}

		return snapshot.Stats{}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return snapshot.Stats{}, fmt.Errorf("create %s: %w", path, err)
	}

	var stats snapshot.Stats
	if isSnapshot(path) {
		stats, err = snapshot.Write(f, df, snapshot.WithCompression(compression))
	} else {
		err = df.WriteCSV(f)
	}
	if err != nil {
		_ = f.Close()
		return snapshot.Stats{}, fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return snapshot.Stats{}, fmt.Errorf("close %s: %w", path, err)
	}

	return stats, nil
}

package cli

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cyclenc/errs"
	"github.com/arloliu/cyclenc/format"
	"github.com/arloliu/cyclenc/snapshot"
)

const monthsCSV = "month,label\n1,jan\n4,apr\n7,jul\n10,oct\n"

// run executes the root command in an isolated directory.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	input := filepath.Join(dir, "months.csv")
	require.NoError(t, os.WriteFile(input, []byte(monthsCSV), 0o600))

	return dir, input
}

func TestEncodeCommand_CSV(t *testing.T) {
	dir, input := writeInput(t)
	output := filepath.Join(dir, "out.csv")

	_, stderr, err := run(t, "", "encode", "--input", input, "--output", output, "--feature", "month=12", "--log-format", "json")
	require.NoError(t, err)
	require.Contains(t, stderr, `"message":"encoded"`)
	require.Contains(t, stderr, `"features":1`)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	df := dataframe.ReadCSV(f)
	require.NoError(t, df.Err)
	require.Equal(t, []string{"month", "label", "month_sin", "month_cos"}, df.Names())

	sin := df.Col("month_sin").Float()
	cos := df.Col("month_cos").Float()
	for i, v := range []float64{1, 4, 7, 10} {
		require.InDelta(t, math.Sin(2*math.Pi*v/12), sin[i], 1e-6)
		require.InDelta(t, math.Cos(2*math.Pi*v/12), cos[i], 1e-6)
	}
}

func TestEncodeCommand_Snapshot(t *testing.T) {
	dir, input := writeInput(t)
	output := filepath.Join(dir, "out.cyf")

	_, stderr, err := run(t, "", "encode", "-i", input, "-o", output, "-f", "month=12", "--compression", "s2",
		"--sin-suffix", "_s", "--cos-suffix", "_c", "--log-format", "json")
	require.NoError(t, err)
	require.Contains(t, stderr, `"compression":"S2"`)
	require.Contains(t, stderr, `"columns":4`)
	require.Contains(t, stderr, `"hash_collision":false`)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	r, err := snapshot.Open(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionS2, r.Compression())
	require.Equal(t, []string{"month", "label", "month_s", "month_c"}, r.Names())
	require.Equal(t, 4, r.Rows())

	t.Run("SnapshotInput", func(t *testing.T) {
		again := filepath.Join(dir, "again.csv")
		_, _, err := run(t, "", "encode", "-i", output, "-o", again, "-f", "month_s=1")
		require.NoError(t, err)

		raw, err := os.ReadFile(again)
		require.NoError(t, err)
		require.Contains(t, string(raw), "month_s_sin")
	})

	t.Run("Inspect", func(t *testing.T) {
		stdout, _, err := run(t, "", "inspect", output)
		require.NoError(t, err)
		require.Contains(t, stdout, "Compression:  S2")
		require.Contains(t, stdout, "Rows:         4")
		require.Contains(t, stdout, "Collisions:   no")
		require.Contains(t, stdout, "little-endian")
		require.Contains(t, stdout, "month_s")
		require.Contains(t, stdout, "string")
	})
}

func TestEncodeCommand_Stdio(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := run(t, monthsCSV, "encode", "-i", "-", "-o", "-", "-f", "month=12", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "month,label,month_sin,month_cos", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "1,jan,0.5"))
}

func TestEncodeCommand_ConfigFile(t *testing.T) {
	dir, input := writeInput(t)
	writeConfigFile(t, dir, "encode:\n  features: [month=12]\n  compression: none\n")
	output := filepath.Join(dir, "out.cyf")

	_, _, err := run(t, "", "encode", "-i", input, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	r, err := snapshot.Open(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, r.Compression())
	require.Equal(t, 4, r.Columns())
}

func TestEncodeCommand_Errors(t *testing.T) {
	dir, input := writeInput(t)
	output := filepath.Join(dir, "out.csv")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"NoFeatures", []string{"-i", input, "-o", output}, errs.ErrInvalidInput},
		{"BadFeature", []string{"-i", input, "-o", output, "-f", "month"}, errs.ErrInvalidInput},
		{"NegativePeriod", []string{"-i", input, "-o", output, "-f", "month=-12"}, errs.ErrInvalidRange},
		{"MissingColumn", []string{"-i", input, "-o", output, "-f", "hour=24"}, errs.ErrColumnNotFound},
		{"TextColumn", []string{"-i", input, "-o", output, "-f", "label=12"}, errs.ErrInvalidType},
		{"SameSuffixes", []string{"-i", input, "-o", output, "-f", "month=12", "--sin-suffix", "_x", "--cos-suffix", "_x"}, errs.ErrInvalidInput},
		{"BadCompression", []string{"-i", input, "-o", output, "-f", "month=12", "--compression", "gzip"}, errs.ErrInvalidCompression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", append([]string{"encode"}, tt.args...)...)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("MissingInputFile", func(t *testing.T) {
		_, _, err := run(t, "", "encode", "-i", filepath.Join(dir, "nope.csv"), "-o", output, "-f", "month=12")
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("RequiredFlags", func(t *testing.T) {
		_, _, err := run(t, "", "encode", "-f", "month=12")
		require.ErrorContains(t, err, "required flag")
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		_, _, err := run(t, "", "encode", "-i", input, "-o", output, "-f", "month=12", "--log-level", "loud")
		require.ErrorContains(t, err, "log level")
	})
}

func TestInspectCommand_Errors(t *testing.T) {
	dir, input := writeInput(t)

	t.Run("NotASnapshot", func(t *testing.T) {
		_, _, err := run(t, "", "inspect", input)
		require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := run(t, "", "inspect", filepath.Join(dir, "nope.cyf"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("NoArgs", func(t *testing.T) {
		_, _, err := run(t, "", "inspect")
		require.Error(t, err)
	})
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	require.Contains(t, stdout, "cyclenc v"+Version)
	require.Contains(t, stdout, "commit "+GitCommit)
}

func TestExecute(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), []string{"inspect", "missing.cyf"}, &stdout, &stderr)
	require.Error(t, err)
	require.Contains(t, stderr.String(), "Error: inspect")
}

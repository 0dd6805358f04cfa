package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/cyclenc/snapshot"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.cyf>",
		Short: "Describe a snapshot file",
		Long:  `Print the header, the column index and the payload sizes of a snapshot.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}

			r, err := snapshot.Open(data)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", path, err)
			}
			loggerFrom(cmd.Context()).Debug().Str("file", path).Int("bytes", len(data)).Msg("snapshot opened")

			return printSnapshot(cmd.OutOrStdout(), path, len(data), r)
		},
	}
}

func printSnapshot(w io.Writer, path string, size int, r *snapshot.Reader) error {
	h := r.Header()
	stats := r.Stats()

	byteOrder := "little-endian"
	if h.BigEndian {
		byteOrder = "big-endian"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "File:\t%s (%s)\n", path, humanize.Bytes(uint64(size))) //nolint:gosec // size is a length
	_, _ = fmt.Fprintf(tw, "Version:\t%d\n", h.Version)
	_, _ = fmt.Fprintf(tw, "Byte order:\t%s\n", byteOrder)
	_, _ = fmt.Fprintf(tw, "Compression:\t%s\n", h.Compression)
	_, _ = fmt.Fprintf(tw, "Rows:\t%s\n", humanize.Comma(int64(r.Rows())))
	_, _ = fmt.Fprintf(tw, "Columns:\t%d\n", r.Columns())
	_, _ = fmt.Fprintf(tw, "Payload:\t%s raw, %s stored (%.1f%% saved)\n",
		humanize.Bytes(uint64(stats.OriginalSize)),   //nolint:gosec // sizes are non-negative
		humanize.Bytes(uint64(stats.CompressedSize)), //nolint:gosec // sizes are non-negative
		stats.SpaceSavings())
	_, _ = fmt.Fprintf(tw, "Collisions:\t%s\n", yesNo(stats.HashCollision))
	_, _ = fmt.Fprintf(tw, "Checksum:\t%08x\n", h.Checksum)
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintln(tw, "NAME\tTYPE\tID")
	for _, c := range r.Index() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%016x\n", c.Name, c.Type, c.ID)
	}

	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

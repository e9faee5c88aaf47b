package cli

import (
	"crypto/sha256"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/netmanager/client"
)

func newDownloadCmd() *cobra.Command {
	var (
		query        string
		checksum     string
		atomic       bool
		skipExisting bool
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "download PATH DEST",
		Short: "Download PATH to the local file DEST",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			opts := []client.DownloadOption{client.WithProgressLog()}
			if checksum != "" {
				opts = append(opts, client.WithChecksum(sha256.New(), checksum))
			}
			if atomic {
				opts = append(opts, client.WithAtomicRename())
			}
			if skipExisting {
				opts = append(opts, client.WithSkipExisting())
			}

			dest := args[1]
			if skipExisting {
				if _, err := os.Stat(dest); err == nil {
					e.printer.success("skipped %s: already exists", dest)
					return nil
				}
			}

			var last client.Progress
			for p := range e.client.DownloadAsync(cmd.Context(), args[0], query, dest, opts...) {
				if p.Err != nil {
					e.printer.failure(p.Err)
					return p.Err
				}
				if showProgress {
					e.printer.progress(p.String())
				}
				last = p
			}

			e.printer.success("saved %d bytes to %s", last.Written, dest)

			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Query string appended to PATH")
	cmd.Flags().StringVar(&checksum, "sha256", "", "Expected hex-encoded SHA-256 of the file")
	cmd.Flags().BoolVar(&atomic, "atomic", false, "Write to a temp file and rename on success")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Do nothing when DEST already exists")
	cmd.Flags().BoolVarP(&showProgress, "progress", "p", false, "Print every chunk as <chunk>/<total>")

	return cmd
}

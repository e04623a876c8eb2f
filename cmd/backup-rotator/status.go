package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-rotator/internal/rotation"
)

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <file>",
		Short: "Show the backup chain of a file",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, "keep", "shift")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			job := jobForPath(cfg, args[0])
			engine := rotation.New(newFS(cfg), zerolog.Nop())

			slots, err := engine.Status(job.Target)
			if err != nil {
				return fmt.Errorf("failed to read backup chain: %w", err)
			}

			t := job.Target
			fmt.Fprintf(cmd.OutOrStdout(), "%s (keep=%d shift=%d, %d slots)\n", t.Path, t.Keep, t.Shift, t.Size())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLOT\tWINDOW\tFILE\tSIZE\tMODIFIED")
			for _, s := range slots {
				if !s.Exists {
					fmt.Fprintf(tw, "%d\t%s\t%s\t-\t-\n", s.Index, s.Window, filepath.Base(s.Path))
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					s.Index, s.Window, filepath.Base(s.Path),
					humanize.Bytes(uint64(s.Size)), humanize.Time(s.MTime))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("keep", 0, "number of backups that are never shifted")
	cmd.Flags().Int("shift", 2, "number of backups in the shifting window")

	return cmd
}

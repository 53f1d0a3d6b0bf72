package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// mergeOpts holds the command-line flags for the merge command.
type mergeOpts struct {
	oldState string // prior canonical state path
	newRecs  string // freshly scored records path
	output   string // destination (stdout if empty; atomic rewrite if a file)
}

// mergeCommand creates the merge command: fold freshly scored records into
// canonical state, last write wins per repository identity.
func (c *CLI) mergeCommand() *cobra.Command {
	var opts mergeOpts

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge scored records into canonical state",
		Long: `Merge folds one run's scored records into canonical state. Each new
record replaces the prior record for the same repository; repositories
absent from the new set are carried forward unchanged. With --output the
state file is replaced atomically (temp file + rename).

A missing prior state file is treated as empty, so the first merge simply
adopts the new records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.Logger

			prior, err := track.LoadState(opts.oldState)
			if err != nil {
				return err
			}

			in, err := openInput(opts.newRecs)
			if err != nil {
				return err
			}
			fresh, err := track.ReadRecords(in)
			in.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", opts.newRecs, err)
			}

			merged := track.Merge(prior, fresh)
			logger.Infof("Merged %d records into %d prior (%d total)", len(fresh), len(prior), len(merged))

			if opts.output == "" {
				return track.WriteRecords(cmd.OutOrStdout(), merged)
			}
			start := time.Now()
			if err := track.SaveState(opts.output, merged); err != nil {
				return err
			}
			logger.Infof("Wrote state to %s (%s)", opts.output, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.oldState, "old", "", "prior canonical state file")
	cmd.Flags().StringVar(&opts.newRecs, "new", "", "freshly scored records (JSON lines, - for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "state file to write atomically (stdout if empty)")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/process"
	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// processOpts holds the command-line flags for the process command.
type processOpts struct {
	updates      string // update set path
	output       string // output file path (stdout if empty)
	workers      int    // concurrent repository workers
	cloneTimeout string // per-repository clone timeout
}

// processCommand creates the process command: clone, scan, and score every
// repository in an update set.
func (c *CLI) processCommand() *cobra.Command {
	opts := processOpts{workers: process.DefaultWorkers, cloneTimeout: process.DefaultCloneTimeout.String()}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Clone, scan, and score repositories from an update set",
		Long: `Process shallow-clones each repository in the update set, scans its
Python sources for t-string usage, applies the scoring heuristic, and emits
one scored record per repository.

Per-repository failures (clone errors, unreadable trees) are recorded inline
with zero counts and a failure reason; they never abort the batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			logger := loggerFromContext(ctx)

			timeout, err := time.ParseDuration(opts.cloneTimeout)
			if err != nil {
				return fmt.Errorf("--clone-timeout: %w", err)
			}

			in, err := openInput(opts.updates)
			if err != nil {
				return err
			}
			updates, err := track.ReadUpdates(in)
			in.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", opts.updates, err)
			}
			if len(updates) == 0 {
				logger.Info("No updates to process")
				out, err := openOutput(opts.output)
				if err != nil {
					return err
				}
				defer out.Close()
				return nil
			}

			logger.Infof("Processing %d repositories", len(updates))
			prog := newProgress(logger)

			p := process.New(process.Options{
				Workers:      opts.workers,
				CloneTimeout: timeout,
				Logger:       logger,
			})
			records, err := p.Run(ctx, updates)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range records {
				if r.Failed() {
					failed++
				}
			}
			prog.done(fmt.Sprintf("Processed %d repositories (%d failed)", len(records), failed))

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer out.Close()
			return track.WriteRecords(out, records)
		},
	}

	cmd.Flags().StringVar(&opts.updates, "updates", "", "update set (JSON lines, - for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "concurrent repository workers")
	cmd.Flags().StringVar(&opts.cloneTimeout, "clone-timeout", opts.cloneTimeout, "per-repository clone timeout")
	_ = cmd.MarkFlagRequired("updates")

	return cmd
}

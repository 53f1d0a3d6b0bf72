package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/discover"
	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// discoverOpts holds the command-line flags for the discover command.
type discoverOpts struct {
	predicate string // manifest string to search for
	output    string // output file path (stdout if empty)
	workers   int    // concurrent metadata fetches
	refresh   bool   // bypass HTTP cache
}

// discoverCommand creates the discover command: query GitHub code search
// for repositories declaring the tracked constraint and emit one candidate
// per line.
func (c *CLI) discoverCommand() *cobra.Command {
	opts := discoverOpts{
		predicate: discover.DefaultPredicate,
		workers:   discover.DefaultWorkers,
	}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find repositories declaring the tracked Python constraint",
		Long: `Discover queries GitHub code search for top-level pyproject.toml files
declaring the tracked requires-python constraint, filters out forks, private
repositories, and known spam accounts, fetches metadata for each match, and
emits one candidate per line as JSON.

Requires GITHUB_TOKEN (code search is authenticated-only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			logger := loggerFromContext(ctx)

			d := discover.New(c.newGitHub(opts.refresh), discover.Options{
				Predicate: opts.predicate,
				Workers:   opts.workers,
				Refresh:   opts.refresh,
				Logger:    logger,
			})

			logger.Infof("Searching for %s", opts.predicate)
			prog := newProgress(logger)

			spin := newSpinnerWithContext(ctx, "querying GitHub")
			spin.Start()
			candidates, err := d.Run(ctx)
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Discovered %d candidate repositories", len(candidates)))

			return writeCandidates(candidates, opts.output, logger)
		},
	}

	cmd.Flags().StringVar(&opts.predicate, "predicate", opts.predicate, "manifest declaration to search for")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "concurrent metadata fetches")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

func writeCandidates(candidates []track.Candidate, path string, logger interface{ Infof(string, ...any) }) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := track.WriteCandidates(out, candidates); err != nil {
		return err
	}
	if path != "" {
		logger.Infof("Wrote candidates to %s", path)
	}
	return nil
}

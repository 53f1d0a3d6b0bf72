package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// identifyOpts holds the command-line flags for the identify command.
type identifyOpts struct {
	candidates string // candidate set path
	state      string // canonical state path
	output     string // output file path (stdout if empty)
}

// identifyCommand creates the identify command: a pure diff of the current
// candidate set against canonical state.
func (c *CLI) identifyCommand() *cobra.Command {
	var opts identifyOpts

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Select candidates that need (re)processing",
		Long: `Identify compares a candidate set against canonical state and emits one
update record per repository that needs work: repositories absent from state
(new), repositories whose pyproject.toml blob changed (unseen-commit), and
repositories whose upstream push timestamp moved (metadata-changed).

A missing state file is treated as an empty state, so the first run selects
every candidate as new.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.Logger

			in, err := openInput(opts.candidates)
			if err != nil {
				return err
			}
			candidates, err := track.ReadCandidates(in)
			in.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", opts.candidates, err)
			}

			state, err := track.LoadState(opts.state)
			if err != nil {
				return err
			}

			updates := track.IdentifyUpdates(candidates, state)
			logger.Infof("Selected %d of %d candidates for processing", len(updates), len(candidates))

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer out.Close()
			return track.WriteUpdates(out, updates)
		},
	}

	cmd.Flags().StringVar(&opts.candidates, "candidates", "", "candidate set (JSON lines, - for stdin)")
	cmd.Flags().StringVar(&opts.state, "state", "", "canonical state file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	_ = cmd.MarkFlagRequired("candidates")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

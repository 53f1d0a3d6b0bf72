package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/render"
	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// renderCommand creates the render command: a static HTML report from
// canonical state.
func (c *CLI) renderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <state>",
		Short: "Render a static HTML report from canonical state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := track.LoadState(args[0])
			if err != nil {
				return err
			}

			page := render.NewPage(state, time.Now())
			if err := render.WriteDir(output, page); err != nil {
				return err
			}

			printSuccess("Rendered %d repositories", len(page.Records))
			printFile(filepath.Join(output, "index.html"))
			printNextStep("Preview", appName+" serve "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "site", "output directory")

	return cmd
}

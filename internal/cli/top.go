package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// topOpts holds the command-line flags for the top command.
type topOpts struct {
	limit       int  // number of rows (0 = all)
	jsonOut     bool // emit JSON lines instead of a table
	interactive bool // browse in a TUI
}

// topCommand creates the top command: the ranked view over canonical state.
func (c *CLI) topCommand() *cobra.Command {
	var opts topOpts

	cmd := &cobra.Command{
		Use:   "top <state>",
		Short: "Show repositories ranked by t-string power",
		Long: `Top ranks canonical state by score (t-string density weighted by stars),
descending, ties broken by repository name. The default output is a table;
--json emits the ranked records as JSON lines for machine consumption and
--interactive opens a browsable list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := track.LoadState(args[0])
			if err != nil {
				return err
			}
			ranked := track.Top(state, opts.limit)

			switch {
			case opts.jsonOut:
				return track.WriteRecords(cmd.OutOrStdout(), ranked)
			case opts.interactive:
				model := newRankListModel(ranked)
				_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
				return err
			default:
				printRankTable(ranked)
				return nil
			}
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "show only the top N repositories (0 = all)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit JSON lines instead of a table")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse interactively")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}

// printRankTable renders the ranked records as a bordered table.
func printRankTable(records []track.ScoredRecord) {
	if len(records) == 0 {
		printInfo("State is empty — run discover first")
		return
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		name := r.NameWithOwner
		if r.Failed() {
			name += " " + iconWarning
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			strconv.Itoa(r.TStringCount),
			strconv.Itoa(r.TemplatelibImports),
			strconv.Itoa(r.LineCount),
			strconv.Itoa(r.Stargazers),
			fmt.Sprintf("%.6f", r.Score),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Repository", "T-Strings", "Imports", "Lines", "Stars", "Power").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 {
				return StyleNumber
			}
			if records[row].Failed() {
				return StyleWarning
			}
			return StyleValue
		})

	fmt.Println(t.Render())
}

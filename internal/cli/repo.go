package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/davepeck/bigtime-t-strings/pkg/errors"
	"github.com/davepeck/bigtime-t-strings/pkg/integrations/github"
	"github.com/davepeck/bigtime-t-strings/pkg/process"
	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// repoCommand creates the repo command group: single-repository debug
// tools for poking at discovery and scanning without a full pipeline run.
func (c *CLI) repoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Inspect a single repository",
	}

	cmd.AddCommand(c.repoMetaCommand())
	cmd.AddCommand(c.repoStatsCommand())

	return cmd
}

// repoMetaCommand creates the "repo meta" subcommand: fetch and display
// the metadata discovery would record for one repository.
func (c *CLI) repoMetaCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "meta <owner/name>",
		Short: "Show the metadata discovery records for a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, _, ok := github.SplitNameWithOwner(name); !ok {
				return errors.New(errors.ErrCodeInvalidInput, "expected owner/name, got %q", name)
			}

			gh := c.newGitHub(refresh)
			repo, err := gh.FetchRepo(cmd.Context(), name, refresh)
			if err != nil {
				return err
			}

			printKeyValue("Repository", name)
			printKeyValue("Stars", strconv.Itoa(repo.Stars))
			printKeyValue("Default branch", repo.DefaultBranch)
			printKeyValue("Pushed", repo.PushedAt.Format(time.RFC3339))
			if repo.Description != "" {
				printKeyValue("Description", repo.Description)
			}
			if repo.Homepage != "" {
				printKeyValue("Homepage", repo.Homepage)
			}
			if repo.License != "" {
				printKeyValue("License", repo.License)
			}
			printKeyValue("Fork", strconv.FormatBool(repo.Fork))
			printKeyValue("Private", strconv.FormatBool(repo.Private))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache")

	return cmd
}

// repoStatsCommand creates the "repo stats" subcommand: clone and scan one
// repository and display the counts and score it would receive.
func (c *CLI) repoStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <owner/name>",
		Short: "Clone and scan a repository, showing its counts and score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			name := args[0]
			if _, _, ok := github.SplitNameWithOwner(name); !ok {
				return errors.New(errors.ErrCodeInvalidInput, "expected owner/name, got %q", name)
			}

			gh := c.newGitHub(false)
			repo, err := gh.FetchRepo(ctx, name, false)
			if err != nil {
				return err
			}

			upd := track.UpdateRecord{
				Candidate: track.Candidate{
					NameWithOwner: name,
					URL:           "https://github.com/" + name,
					SHA:           "unknown", // stats runs without a search hit
					Stargazers:    repo.Stars,
					PushedAt:      repo.PushedAt,
					Description:   repo.Description,
					Homepage:      repo.Homepage,
					License:       repo.License,
					DiscoveredAt:  time.Now().UTC(),
				},
				Reason: track.ReasonNew,
			}

			spin := newSpinnerWithContext(ctx, "cloning and scanning "+name)
			spin.Start()
			p := process.New(process.Options{Workers: 1, Logger: c.Logger})
			records, err := p.Run(ctx, []track.UpdateRecord{upd})
			spin.Stop()
			if err != nil {
				return err
			}
			rec := records[0]

			if rec.Failed() {
				printError("%s: %s", name, rec.Failure)
				return nil
			}

			printSuccess("Scanned %s", name)
			if rec.ParseFailures > 0 {
				printWarning("%d of %d files failed to parse", rec.ParseFailures, rec.FileCount)
			}
			printKeyValue("Python files", strconv.Itoa(rec.FileCount))
			printKeyValue("Parsed", strconv.Itoa(rec.FilesParsed))
			printKeyValue("Parse failures", strconv.Itoa(rec.ParseFailures))
			printKeyValue("T-strings", strconv.Itoa(rec.TStringCount))
			printKeyValue("Imports", strconv.Itoa(rec.TemplatelibImports))
			printKeyValue("Lines", strconv.Itoa(rec.LineCount))
			if rec.RequiresPython != "" {
				printKeyValue("Requires", rec.RequiresPython)
			}
			printKeyValue("Power", fmt.Sprintf("%.6f", rec.Score))
			return nil
		},
	}
}

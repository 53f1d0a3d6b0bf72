// Package discover turns GitHub code search results into candidate
// repositories: the set of repos that currently declare the version
// constraint the pipeline tracks, filtered and enriched with metadata.
package discover

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/davepeck/bigtime-t-strings/pkg/integrations/github"
	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// DefaultPredicate is the manifest string that marks a repository as
// targeting the tracked Python release.
const DefaultPredicate = `requires-python = ">=3.14"`

// DefaultWorkers bounds concurrent metadata fetches. GitHub's secondary
// rate limits punish bursts, so this stays small.
const DefaultWorkers = 4

// spamOwners lists accounts whose repositories game code search with
// machine-generated manifests. Matches from these owners are dropped.
var spamOwners = map[string]bool{
	"poisontr33s": true,
}

// Searcher is the GitHub surface discovery needs. *github.Client
// implements it.
type Searcher interface {
	SearchManifests(ctx context.Context, query string, refresh bool) ([]github.CodeMatch, error)
	FetchRepo(ctx context.Context, nameWithOwner string, refresh bool) (*github.Repo, error)
}

// Options configures a Discoverer. Zero values get defaults.
type Options struct {
	Predicate string
	Workers   int
	Refresh   bool
	Logger    *log.Logger
	Now       func() time.Time
}

// Discoverer enumerates candidate repositories via code search.
type Discoverer struct {
	gh   Searcher
	opts Options
}

// New creates a Discoverer over the given GitHub client.
func New(gh Searcher, opts Options) *Discoverer {
	if opts.Predicate == "" {
		opts.Predicate = DefaultPredicate
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Discoverer{gh: gh, opts: opts}
}

// Query returns the code search query for the configured predicate.
func (d *Discoverer) Query() string {
	return fmt.Sprintf("%q filename:pyproject.toml", d.opts.Predicate)
}

// Run searches for manifests declaring the predicate, filters the matches,
// fetches metadata for each surviving repository, and returns candidates
// sorted by name. Failure to fetch metadata for any repository fails the
// whole run: a candidate set with silently missing repos would later read
// as deletions.
func (d *Discoverer) Run(ctx context.Context) ([]track.Candidate, error) {
	matches, err := d.gh.SearchManifests(ctx, d.Query(), d.opts.Refresh)
	if err != nil {
		return nil, err
	}

	kept := filterMatches(matches)
	d.opts.Logger.Debugf("search: %d matches, %d candidates after filtering", len(matches), len(kept))

	candidates := make([]track.Candidate, len(kept))
	discoveredAt := d.opts.Now().UTC()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, m := range kept {
		g.Go(func() error {
			repo, err := d.gh.FetchRepo(ctx, m.Repo.NameWithOwner, d.opts.Refresh)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", m.Repo.NameWithOwner, err)
			}
			candidates[i] = track.Candidate{
				NameWithOwner: m.Repo.NameWithOwner,
				URL:           m.Repo.URL,
				SHA:           m.SHA,
				DefaultBranch: repo.DefaultBranch,
				IsFork:        repo.Fork,
				IsPrivate:     repo.Private,
				Description:   repo.Description,
				Homepage:      repo.Homepage,
				License:       repo.License,
				Stargazers:    repo.Stars,
				PushedAt:      repo.PushedAt,
				DiscoveredAt:  discoveredAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Metadata can reveal what search results did not (fork/private flags
	// lag in the search index), so filter once more on the fetched truth.
	final := candidates[:0]
	for _, c := range candidates {
		if c.IsFork || c.IsPrivate {
			d.opts.Logger.Debugf("dropping %s: fork or private per repo metadata", c.NameWithOwner)
			continue
		}
		final = append(final, c)
	}

	sort.Slice(final, func(i, j int) bool {
		return final[i].NameWithOwner < final[j].NameWithOwner
	})
	return final, nil
}

// filterMatches keeps only top-level pyproject.toml hits in public,
// non-fork, non-spam repositories, one match per repository.
func filterMatches(matches []github.CodeMatch) []github.CodeMatch {
	seen := make(map[string]bool, len(matches))
	var kept []github.CodeMatch
	for _, m := range matches {
		if m.Path != "pyproject.toml" {
			continue
		}
		if m.Repo.IsFork || m.Repo.IsPrivate {
			continue
		}
		owner, _, ok := github.SplitNameWithOwner(m.Repo.NameWithOwner)
		if !ok || spamOwners[owner] {
			continue
		}
		if seen[m.Repo.NameWithOwner] {
			continue
		}
		seen[m.Repo.NameWithOwner] = true
		kept = append(kept, m)
	}
	return kept
}

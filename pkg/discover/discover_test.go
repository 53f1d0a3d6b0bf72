package discover

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/davepeck/bigtime-t-strings/pkg/integrations/github"
)

var discoverTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// fakeGitHub serves canned search results and repo metadata.
type fakeGitHub struct {
	matches []github.CodeMatch
	repos   map[string]*github.Repo
	fetched []string
}

func (f *fakeGitHub) SearchManifests(ctx context.Context, query string, refresh bool) ([]github.CodeMatch, error) {
	return f.matches, nil
}

func (f *fakeGitHub) FetchRepo(ctx context.Context, nameWithOwner string, refresh bool) (*github.Repo, error) {
	f.fetched = append(f.fetched, nameWithOwner)
	repo, ok := f.repos[nameWithOwner]
	if !ok {
		return nil, fmt.Errorf("unexpected fetch for %s", nameWithOwner)
	}
	return repo, nil
}

func match(name, path, sha string) github.CodeMatch {
	return github.CodeMatch{
		Path: path,
		SHA:  sha,
		Repo: github.RepoRef{
			NameWithOwner: name,
			URL:           "https://github.com/" + name,
		},
	}
}

func TestDiscovererRun(t *testing.T) {
	gh := &fakeGitHub{
		matches: []github.CodeMatch{
			match("zed/zulu", "pyproject.toml", "s1"),
			match("alice/app", "pyproject.toml", "s2"),
		},
		repos: map[string]*github.Repo{
			"zed/zulu":  {Stars: 5, DefaultBranch: "main", PushedAt: discoverTime},
			"alice/app": {Stars: 80, Description: "demo", DefaultBranch: "main", PushedAt: discoverTime},
		},
	}

	d := New(gh, Options{Workers: 1, Now: func() time.Time { return discoverTime }})
	candidates, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}

	// Sorted by name regardless of search order.
	if candidates[0].NameWithOwner != "alice/app" || candidates[1].NameWithOwner != "zed/zulu" {
		t.Errorf("candidates not sorted: %s, %s", candidates[0].NameWithOwner, candidates[1].NameWithOwner)
	}

	first := candidates[0]
	if first.SHA != "s2" || first.Stargazers != 80 || first.Description != "demo" {
		t.Errorf("metadata not carried: %+v", first)
	}
	if !first.DiscoveredAt.Equal(discoverTime) {
		t.Errorf("DiscoveredAt = %v, want %v", first.DiscoveredAt, discoverTime)
	}
}

func TestDiscovererFilters(t *testing.T) {
	fork := match("f/fork", "pyproject.toml", "s1")
	fork.Repo.IsFork = true
	private := match("p/private", "pyproject.toml", "s2")
	private.Repo.IsPrivate = true

	gh := &fakeGitHub{
		matches: []github.CodeMatch{
			fork,
			private,
			match("n/nested", "sub/pyproject.toml", "s3"),
			match("poisontr33s/spam", "pyproject.toml", "s4"),
			match("ok/keep", "pyproject.toml", "s5"),
			match("ok/keep", "pyproject.toml", "s5"), // duplicate hit
		},
		repos: map[string]*github.Repo{
			"ok/keep": {Stars: 1, PushedAt: discoverTime},
		},
	}

	d := New(gh, Options{Workers: 1})
	candidates, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(candidates) != 1 || candidates[0].NameWithOwner != "ok/keep" {
		t.Fatalf("candidates = %+v, want only ok/keep", candidates)
	}
	if len(gh.fetched) != 1 {
		t.Errorf("fetched metadata for %v, want only the kept repo", gh.fetched)
	}
}

func TestDiscovererDropsForkRevealedByMetadata(t *testing.T) {
	gh := &fakeGitHub{
		matches: []github.CodeMatch{match("lag/fork", "pyproject.toml", "s1")},
		repos: map[string]*github.Repo{
			"lag/fork": {Stars: 2, Fork: true},
		},
	}

	d := New(gh, Options{Workers: 1})
	candidates, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none", candidates)
	}
}

// failingGitHub fails every repo fetch.
type failingGitHub struct{ fakeGitHub }

func (f *failingGitHub) FetchRepo(ctx context.Context, nameWithOwner string, refresh bool) (*github.Repo, error) {
	return nil, errors.New("boom")
}

func TestDiscovererMetadataFailureFailsRun(t *testing.T) {
	gh := &failingGitHub{fakeGitHub{
		matches: []github.CodeMatch{match("a/x", "pyproject.toml", "s1")},
	}}

	d := New(gh, Options{Workers: 1})
	if _, err := d.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded despite metadata failure")
	}
}

func TestDiscovererEmptySearch(t *testing.T) {
	d := New(&fakeGitHub{}, Options{})
	candidates, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none", candidates)
	}
}

func TestQuery(t *testing.T) {
	d := New(&fakeGitHub{}, Options{})
	want := `"requires-python = \">=3.14\"" filename:pyproject.toml`
	if got := d.Query(); got != want {
		t.Errorf("Query = %q, want %q", got, want)
	}
}

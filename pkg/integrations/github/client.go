// Package github provides the GitHub API surface the pipeline needs:
// paginated code search for version-declaring manifests and repository
// metadata lookups. Responses are cached and retried through the shared
// integrations client.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/davepeck/bigtime-t-strings/pkg/cache"
	"github.com/davepeck/bigtime-t-strings/pkg/errors"
	"github.com/davepeck/bigtime-t-strings/pkg/integrations"
)

// apiBase is the API root. Variable so tests can point the client at a
// local server.
var apiBase = "https://api.github.com"

const (
	// perPage is the search page size; 100 is the API maximum.
	perPage = 100

	// maxResults is GitHub's hard cap on code search results. Enumerating
	// fewer results than the API reports is a truncation error, but the
	// API itself never returns past this many.
	maxResults = 1000
)

// Client provides access to the GitHub API with caching, retries, and
// rate-limit-aware backoff.
type Client struct {
	*integrations.Client
}

// NewClient creates a GitHub API client. An empty token means
// unauthenticated requests (much lower rate limits; code search requires
// authentication, so discovery will fail without one).
func NewClient(token string, c cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{integrations.NewClient(c, cacheTTL, headers)}
}

// SearchManifests runs a code search for query and enumerates every result
// page. If the API reports more matches than could be enumerated, an
// ErrCodeTruncated error is returned rather than a silently partial set.
// An empty result is valid and returns an empty slice.
func (c *Client) SearchManifests(ctx context.Context, query string, refresh bool) ([]CodeMatch, error) {
	key := "github:search:" + query

	var matches []CodeMatch
	err := c.Cached(ctx, key, refresh, &matches, func() error {
		found, err := c.searchAllPages(ctx, query)
		if err != nil {
			return err
		}
		matches = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (c *Client) searchAllPages(ctx context.Context, query string) ([]CodeMatch, error) {
	var all []CodeMatch
	total := -1

	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/search/code?q=%s&per_page=%d&page=%d",
			apiBase, url.QueryEscape(query), perPage, page)

		var resp searchResponse
		if err := c.Get(ctx, u, &resp); err != nil {
			return nil, err
		}
		total = resp.TotalCount

		for _, item := range resp.Items {
			all = append(all, CodeMatch{
				Path: item.Path,
				SHA:  item.SHA,
				Repo: RepoRef{
					NameWithOwner: item.Repository.FullName,
					URL:           item.Repository.HTMLURL,
					IsFork:        item.Repository.Fork,
					IsPrivate:     item.Repository.Private,
				},
			})
		}

		if len(resp.Items) < perPage || len(all) >= total {
			break
		}
		if len(all) >= maxResults {
			// The API rejects requests past its cap; stop here and let
			// the truncation check below report what was missed.
			break
		}
	}

	if total > len(all) && total > maxResults {
		// The API will not page past its cap; anything beyond it is
		// invisible and the run must say so instead of shipping a
		// partial, unflagged set.
		return nil, errors.New(errors.ErrCodeTruncated,
			"search matched %d results but only %d are enumerable", total, len(all))
	}
	if total > len(all) {
		return nil, errors.New(errors.ErrCodeTruncated,
			"search reported %d results but enumerated %d", total, len(all))
	}
	return all, nil
}

// FetchRepo retrieves popularity and activity metadata for owner/name.
func (c *Client) FetchRepo(ctx context.Context, nameWithOwner string, refresh bool) (*Repo, error) {
	key := "github:repo:" + nameWithOwner

	var repo Repo
	err := c.Cached(ctx, key, refresh, &repo, func() error {
		var data repoResponse
		u := fmt.Sprintf("%s/repos/%s", apiBase, nameWithOwner)
		if err := c.Get(ctx, u, &data); err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				return errors.Wrap(errors.ErrCodeRepoNotFound, err, "repository %s", nameWithOwner)
			}
			return err
		}
		repo = Repo{
			Stars:         data.Stars,
			Description:   data.Description,
			Homepage:      data.Homepage,
			License:       data.License.Name,
			DefaultBranch: data.DefaultBranch,
			Fork:          data.Fork,
			Private:       data.Private,
		}
		if data.PushedAt != nil {
			repo.PushedAt = *data.PushedAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// SplitNameWithOwner splits "owner/name" into its parts.
func SplitNameWithOwner(nameWithOwner string) (owner, name string, ok bool) {
	owner, name, ok = strings.Cut(nameWithOwner, "/")
	return owner, name, ok && owner != "" && name != "" && !strings.Contains(name, "/")
}

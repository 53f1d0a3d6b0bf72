package github

import "time"

// CodeMatch is one code search hit: a file path and blob SHA inside a
// repository.
type CodeMatch struct {
	Path string  `json:"path"`
	SHA  string  `json:"sha"`
	Repo RepoRef `json:"repository"`
}

// RepoRef identifies the repository containing a code match.
type RepoRef struct {
	NameWithOwner string `json:"name_with_owner"`
	URL           string `json:"url"`
	IsFork        bool   `json:"is_fork"`
	IsPrivate     bool   `json:"is_private"`
}

// Repo holds the repository metadata the pipeline snapshots: popularity,
// activity, and descriptive fields.
type Repo struct {
	Stars         int       `json:"stars"`
	Description   string    `json:"description,omitempty"`
	Homepage      string    `json:"homepage,omitempty"`
	License       string    `json:"license,omitempty"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	PushedAt      time.Time `json:"pushed_at,omitempty"`
	Fork          bool      `json:"fork"`
	Private       bool      `json:"private"`
}

// Wire formats for the REST API.

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	Path       string `json:"path"`
	SHA        string `json:"sha"`
	Repository struct {
		FullName string `json:"full_name"`
		HTMLURL  string `json:"html_url"`
		Fork     bool   `json:"fork"`
		Private  bool   `json:"private"`
	} `json:"repository"`
}

type repoResponse struct {
	Stars       int        `json:"stargazers_count"`
	Description string     `json:"description"`
	Homepage    string     `json:"homepage"`
	PushedAt    *time.Time `json:"pushed_at"`
	License     struct {
		Name string `json:"name"`
	} `json:"license"`
	DefaultBranch string `json:"default_branch"`
	Fork          bool   `json:"fork"`
	Private       bool   `json:"private"`
}

// Package track defines the persisted data model for the bigtime pipeline
// and the pure operations over it: identifying which candidates need
// (re)scanning, merging freshly scored records into canonical state, and
// ranking the result.
//
// All persisted sets are line-delimited JSON: one record per line, UTF-8.
// The canonical state holds exactly one ScoredRecord per repository
// identity; a later scan replaces the earlier one (last-write-wins).
package track

import (
	"fmt"
	"time"
)

// UpdateReason explains why a candidate was selected for (re)processing.
type UpdateReason string

const (
	// ReasonNew marks a repository absent from canonical state.
	ReasonNew UpdateReason = "new"

	// ReasonUnseenCommit marks a repository whose pyproject.toml blob SHA
	// differs from the one recorded at the last scan.
	ReasonUnseenCommit UpdateReason = "unseen-commit"

	// ReasonMetadataChanged marks a repository whose upstream push timestamp
	// moved while the manifest SHA stayed the same.
	ReasonMetadataChanged UpdateReason = "metadata-changed"
)

// Candidate is one repository matching the discovery predicate, as of the
// current run. Candidates are produced fresh by every discover invocation
// and are never merged into canonical state directly.
type Candidate struct {
	NameWithOwner  string    `json:"name_with_owner"`
	URL            string    `json:"url"`
	SHA            string    `json:"sha"` // blob SHA of the matched pyproject.toml
	DefaultBranch  string    `json:"default_branch,omitempty"`
	RequiresPython string    `json:"requires_python,omitempty"`
	IsFork         bool      `json:"is_fork"`
	IsPrivate      bool      `json:"is_private"`
	Description    string    `json:"description,omitempty"`
	Homepage       string    `json:"homepage,omitempty"`
	License        string    `json:"license,omitempty"`
	Stargazers     int       `json:"stargazers"`
	PushedAt       time.Time `json:"pushed_at,omitempty"`
	DiscoveredAt   time.Time `json:"discovered_at"`
}

// Validate reports whether the candidate carries the fields every later
// stage depends on. Called at the file-read boundary so malformed input
// fails before any network or filesystem work happens.
func (c *Candidate) Validate() error {
	if c.NameWithOwner == "" {
		return fmt.Errorf("candidate missing name_with_owner")
	}
	if c.SHA == "" {
		return fmt.Errorf("candidate %s missing sha", c.NameWithOwner)
	}
	return nil
}

// UpdateRecord is a candidate selected for (re)processing, tagged with the
// reason it was selected. Update records exist only within one pipeline run.
type UpdateRecord struct {
	Candidate
	Reason UpdateReason `json:"reason"`
}

// Validate checks the embedded candidate and the reason tag.
func (u *UpdateRecord) Validate() error {
	if err := u.Candidate.Validate(); err != nil {
		return err
	}
	switch u.Reason {
	case ReasonNew, ReasonUnseenCommit, ReasonMetadataChanged:
		return nil
	}
	return fmt.Errorf("update %s has unknown reason %q", u.NameWithOwner, u.Reason)
}

// ScoredRecord is the persisted unit of canonical state: one repository,
// the manifest SHA that was scanned, raw scan counts, a popularity snapshot
// taken at scan time, and the computed score.
type ScoredRecord struct {
	NameWithOwner  string `json:"name_with_owner"`
	URL            string `json:"url"`
	LastCheckedSHA string `json:"last_checked_sha"`

	// RequiresPython is the constraint declared by the scanned manifest.
	RequiresPython string `json:"requires_python,omitempty"`

	// Popularity snapshot at scan time.
	Description string    `json:"description,omitempty"`
	Homepage    string    `json:"homepage,omitempty"`
	License     string    `json:"license,omitempty"`
	Stargazers  int       `json:"stargazers"`
	PushedAt    time.Time `json:"pushed_at,omitempty"`

	// Raw feature counts.
	TStringCount       int `json:"t_string_count"`
	TemplatelibImports int `json:"templatelib_imports"`
	FileCount          int `json:"file_count"`
	FilesParsed        int `json:"files_parsed"`
	ParseFailures      int `json:"parse_failures"`
	LineCount          int `json:"line_count"`

	Score     float64   `json:"score"`
	ScannedAt time.Time `json:"scanned_at"`

	// Failure is set when the repository could not be cloned or scanned.
	// Failed records carry zero counts and stay visible in the output
	// rather than being dropped.
	Failure string `json:"failure,omitempty"`
}

// Validate reports whether the record is well-formed. Counts are allowed to
// be zero (failed or empty repositories), but identity and scan time must
// be present.
func (r *ScoredRecord) Validate() error {
	if r.NameWithOwner == "" {
		return fmt.Errorf("record missing name_with_owner")
	}
	if r.ScannedAt.IsZero() {
		return fmt.Errorf("record %s missing scanned_at", r.NameWithOwner)
	}
	if r.TStringCount < 0 || r.FileCount < 0 || r.FilesParsed < 0 || r.ParseFailures < 0 || r.LineCount < 0 {
		return fmt.Errorf("record %s has negative counts", r.NameWithOwner)
	}
	return nil
}

// Failed reports whether the record represents a failed scan.
func (r *ScoredRecord) Failed() bool { return r.Failure != "" }

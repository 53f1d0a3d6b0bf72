// Package process turns an update set into scored records: for each
// repository it acquires a scoped shallow checkout, runs the feature
// scanner, applies the scoring heuristic, and emits one ScoredRecord.
//
// Failures are isolated per repository. A clone or scan failure produces a
// record with zero counts and a failure reason instead of aborting the
// batch, so one broken upstream never costs a whole run. Checkout
// directories are always removed, success or failure.
package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/davepeck/bigtime-t-strings/pkg/pyscan"
	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

// DefaultWorkers bounds concurrent clones. Clones are network- and
// disk-heavy, so the default stays conservative.
const DefaultWorkers = 4

// DefaultCloneTimeout bounds one repository's clone. Pathological
// repositories (huge blobs, glacial servers) otherwise stall the run.
const DefaultCloneTimeout = 5 * time.Minute

// CloneFunc acquires a checkout of url into dir. It exists so tests can
// substitute a local fixture for a network clone.
type CloneFunc func(ctx context.Context, url, dir string) error

// Options configures a Processor. The zero value is usable: defaults are
// applied by New.
type Options struct {
	// Workers is the maximum number of repositories processed concurrently.
	Workers int

	// CloneTimeout bounds one repository's clone operation.
	CloneTimeout time.Duration

	// Clone overrides the shallow git clone. Nil means go-git.
	Clone CloneFunc

	// Logger receives per-repository progress. Nil discards.
	Logger *log.Logger

	// Now supplies scan timestamps. Nil means time.Now.
	Now func() time.Time
}

// Processor scans and scores repositories from an update set.
type Processor struct {
	opts Options
}

// New creates a Processor, applying defaults for unset options.
func New(opts Options) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.CloneTimeout <= 0 {
		opts.CloneTimeout = DefaultCloneTimeout
	}
	if opts.Clone == nil {
		opts.Clone = cloneShallow
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{opts: opts}
}

// Run processes every update record and returns one scored record per
// update, in input order. Within one repository, clone → scan → score runs
// strictly in sequence; across repositories up to Workers run concurrently,
// each in its own checkout directory. Run returns an error only for
// whole-batch conditions (context cancellation, no scratch space);
// per-repository failures are recorded inline.
func (p *Processor) Run(ctx context.Context, updates []track.UpdateRecord) ([]track.ScoredRecord, error) {
	if len(updates) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	scratch, err := os.MkdirTemp("", "bigtime-"+runID[:8]+"-*")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	logger := p.opts.Logger.With("run", runID[:8])
	logger.Debugf("processing %d repositories with %d workers", len(updates), p.opts.Workers)

	records := make([]track.ScoredRecord, len(updates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, upd := range updates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = p.processOne(gctx, logger, scratch, upd)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// processOne handles a single repository inside its own scoped checkout.
func (p *Processor) processOne(ctx context.Context, logger *log.Logger, scratch string, upd track.UpdateRecord) track.ScoredRecord {
	rec := newRecord(upd, p.opts.Now().UTC())

	dir, err := os.MkdirTemp(scratch, "repo-*")
	if err != nil {
		rec.Failure = fmt.Sprintf("checkout dir: %v", err)
		logger.Warnf("%s: %s", upd.NameWithOwner, rec.Failure)
		return rec
	}
	defer os.RemoveAll(dir)

	cloneCtx, cancel := context.WithTimeout(ctx, p.opts.CloneTimeout)
	defer cancel()
	if err := p.opts.Clone(cloneCtx, cloneURL(upd.Candidate), dir); err != nil {
		rec.Failure = fmt.Sprintf("clone: %v", err)
		logger.Warnf("%s: %s", upd.NameWithOwner, rec.Failure)
		return rec
	}

	if declared, ok := pyscan.ReadPyProject(dir); ok {
		rec.RequiresPython = declared
	}

	stats, err := pyscan.Scan(dir)
	if err != nil {
		rec.Failure = fmt.Sprintf("scan: %v", err)
		logger.Warnf("%s: %s", upd.NameWithOwner, rec.Failure)
		return rec
	}

	rec.FileCount = stats.FilesFound
	rec.FilesParsed = stats.FilesParsed
	rec.ParseFailures = stats.ParseFailures
	rec.TStringCount = stats.TStringCount
	rec.TemplatelibImports = stats.TemplatelibImports
	rec.LineCount = stats.LineCount
	rec.Score = track.Power(rec)

	logger.Infof("%s: %d t-strings in %d files (%d failed to parse)",
		upd.NameWithOwner, rec.TStringCount, rec.FileCount, rec.ParseFailures)
	return rec
}

// newRecord seeds a scored record with the update's identity and the
// popularity snapshot taken at discovery.
func newRecord(upd track.UpdateRecord, scannedAt time.Time) track.ScoredRecord {
	return track.ScoredRecord{
		NameWithOwner:  upd.NameWithOwner,
		URL:            upd.URL,
		LastCheckedSHA: upd.SHA,
		RequiresPython: upd.RequiresPython,
		Description:    upd.Description,
		Homepage:       upd.Homepage,
		License:        upd.License,
		Stargazers:     upd.Stargazers,
		PushedAt:       upd.PushedAt,
		ScannedAt:      scannedAt,
	}
}

// cloneURL derives the anonymous HTTPS clone URL for a candidate.
func cloneURL(c track.Candidate) string {
	if c.URL != "" {
		return c.URL + ".git"
	}
	return fmt.Sprintf("https://github.com/%s.git", c.NameWithOwner)
}

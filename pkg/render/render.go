// Package render produces a static HTML report from canonical state: the
// ranked repository table with counts, stars, and scores. The template is
// embedded so the binary needs no external assets.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

//go:embed report.html.tmpl
var reportTmpl string

var report = template.Must(template.New("report").Funcs(template.FuncMap{
	"score": func(s float64) string { return fmt.Sprintf("%.6f", s) },
	"add1":  func(i int) int { return i + 1 },
}).Parse(reportTmpl))

// Page is the data handed to the report template.
type Page struct {
	Title       string
	GeneratedAt time.Time
	Records     []track.ScoredRecord
	Failed      int
}

// NewPage ranks records and computes the summary counts the report shows.
func NewPage(records []track.ScoredRecord, now time.Time) Page {
	ranked := track.Ranked(records)
	failed := 0
	for _, r := range ranked {
		if r.Failed() {
			failed++
		}
	}
	return Page{
		Title:       "Python 3.14 t-string adoption",
		GeneratedAt: now.UTC(),
		Records:     ranked,
		Failed:      failed,
	}
}

// Write renders the report page to w.
func Write(w io.Writer, page Page) error {
	return report.Execute(w, page)
}

// WriteDir renders the report into dir as index.html, creating dir if
// needed. The file is written via a temp file and rename so a crash never
// leaves a half-written page behind.
func WriteDir(dir string, page Page) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "index-*.html")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, page); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, "index.html"))
}

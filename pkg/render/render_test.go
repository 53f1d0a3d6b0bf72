package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

var genTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func sampleState() []track.ScoredRecord {
	return []track.ScoredRecord{
		{
			NameWithOwner: "low/density",
			URL:           "https://github.com/low/density",
			TStringCount:  1, FileCount: 1, LineCount: 1000,
			Stargazers: 2, Score: 0.003, ScannedAt: genTime,
		},
		{
			NameWithOwner: "high/density",
			URL:           "https://github.com/high/density",
			TStringCount:  20, FileCount: 3, LineCount: 200,
			Stargazers: 150, Score: 15.1, ScannedAt: genTime,
		},
		{
			NameWithOwner: "broken/clone",
			URL:           "https://github.com/broken/clone",
			ScannedAt:     genTime,
			Failure:       "clone: remote hung up",
		},
	}
}

func TestNewPageRanksAndCounts(t *testing.T) {
	page := NewPage(sampleState(), genTime)

	if len(page.Records) != 3 {
		t.Fatalf("page holds %d records, want 3", len(page.Records))
	}
	if page.Records[0].NameWithOwner != "high/density" {
		t.Errorf("top record = %s, want high/density", page.Records[0].NameWithOwner)
	}
	if page.Failed != 1 {
		t.Errorf("Failed = %d, want 1", page.Failed)
	}
	if !page.GeneratedAt.Equal(genTime.UTC()) {
		t.Errorf("GeneratedAt = %v", page.GeneratedAt)
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewPage(sampleState(), genTime)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"high/density",
		"https://github.com/high/density",
		"low/density",
		"broken/clone",
		"2026-08-01 12:00 UTC",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Ranked order must survive into the markup.
	if strings.Index(html, "high/density") > strings.Index(html, "low/density") {
		t.Error("report rows not in rank order")
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	if err := WriteDir(dir, NewPage(sampleState(), genTime)); err != nil {
		t.Fatalf("WriteDir: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	if !strings.Contains(string(data), "high/density") {
		t.Error("index.html missing rendered content")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir holds %d entries, want only index.html", len(entries))
	}
}

func TestWriteDirEmptyState(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDir(dir, NewPage(nil, genTime)); err != nil {
		t.Fatalf("WriteDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		t.Errorf("index.html not written: %v", err)
	}
}

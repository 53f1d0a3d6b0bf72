// Package pyscan scans a Python source tree for PEP 750 template-string
// usage. It walks the tree deterministically, tokenizes each .py file with
// a string-prefix-aware lexer, and aggregates counts of t-string literals,
// files importing string.templatelib, and lines of code.
//
// Files that cannot be decoded or tokenized (bad encoding, NUL bytes,
// unterminated strings) are counted as parse failures and skipped; they
// never abort the scan of sibling files. For a fixed tree the output is
// exactly reproducible.
package pyscan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats aggregates the scan results for one source tree.
type Stats struct {
	// FilesFound is the number of .py files discovered under the root.
	FilesFound int

	// FilesParsed is the number of files successfully tokenized.
	FilesParsed int

	// ParseFailures is the number of files skipped due to decode or
	// tokenize errors.
	ParseFailures int

	// TStringCount is the total number of t-string literals.
	TStringCount int

	// TemplatelibImports is the number of files importing
	// string.templatelib (import or from-import form).
	TemplatelibImports int

	// LineCount is the total number of non-blank, non-comment lines.
	LineCount int
}

// skipDirs are directory names excluded from the walk: version-control
// metadata, virtual environments, and tool caches.
var skipDirs = map[string]struct{}{
	".git":               {},
	".hg":                {},
	".svn":               {},
	"__pycache__":        {},
	".venv":              {},
	"venv":               {},
	"node_modules":       {},
	".tox":               {},
	".nox":               {},
	".mypy_cache":        {},
	".pytest_cache":      {},
	".ruff_cache":        {},
	".eggs":              {},
	"site-packages":      {},
	".ipynb_checkpoints": {},
}

// Scan walks the tree rooted at root and returns aggregate counts.
// The only error returned is a failure to walk the root itself; individual
// file failures are counted in Stats.ParseFailures.
func Scan(root string) (Stats, error) {
	files, err := listPythonFiles(root)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	stats.FilesFound = len(files)
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			stats.ParseFailures++
			continue
		}
		res, err := lexFile(src)
		if err != nil {
			stats.ParseFailures++
			continue
		}
		stats.FilesParsed++
		stats.TStringCount += res.tstrings
		if res.importsTemplatelib {
			stats.TemplatelibImports++
		}
		stats.LineCount += countCodeLines(src)
	}
	return stats, nil
}

// listPythonFiles returns the sorted paths of all .py files under root,
// excluding skipped directories. Sorting removes any dependence on
// filesystem enumeration order.
func listPythonFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it rather than aborting the scan.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// countCodeLines counts lines that are neither blank nor comment-only.
func countCodeLines(src []byte) int {
	count := 0
	for _, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			count++
		}
	}
	return count
}

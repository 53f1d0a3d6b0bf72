package track

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/davepeck/bigtime-t-strings/pkg/errors"
)

// validator is implemented by every record type read from disk.
type validator interface{ Validate() error }

// decodeLines reads line-delimited JSON records from r into out, which must
// be a pointer to a slice of a type implementing validator. Decoding is
// strict: unknown fields, trailing data on a line, and validation failures
// all abort with the offending line number so corrupted inputs surface
// instead of propagating as zero values.
func decodeLines[T any, PT interface {
	*T
	validator
}](r io.Reader) ([]T, error) {
	var records []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec T
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("line %d: trailing data after record", line)
		}
		if err := PT(&rec).Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func encodeLines[T any](w io.Writer, records []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadCandidates decodes a candidate set from r.
func ReadCandidates(r io.Reader) ([]Candidate, error) {
	return decodeLines[Candidate, *Candidate](r)
}

// ReadUpdates decodes an update set from r.
func ReadUpdates(r io.Reader) ([]UpdateRecord, error) {
	return decodeLines[UpdateRecord, *UpdateRecord](r)
}

// ReadRecords decodes scored records from r without the canonical-state
// uniqueness check. Use ReadState for canonical state files.
func ReadRecords(r io.Reader) ([]ScoredRecord, error) {
	return decodeLines[ScoredRecord, *ScoredRecord](r)
}

// ReadState decodes canonical state from r and enforces the uniqueness
// invariant: exactly one record per repository identity. A duplicate means
// the state file is corrupt; the caller must abort rather than repair,
// since silent repair could mask a damaged history.
func ReadState(r io.Reader) ([]ScoredRecord, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.NameWithOwner]; dup {
			return nil, errors.New(errors.ErrCodeStateCorrupt, "duplicate identity %s", rec.NameWithOwner)
		}
		seen[rec.NameWithOwner] = struct{}{}
	}
	return records, nil
}

// LoadState reads canonical state from path. A missing file is an empty
// state (first run), not an error.
func LoadState(path string) ([]ScoredRecord, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadState(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteRecords encodes records to w as JSON lines.
func WriteRecords(w io.Writer, records []ScoredRecord) error {
	return encodeLines(w, records)
}

// WriteCandidates encodes candidates to w as JSON lines.
func WriteCandidates(w io.Writer, candidates []Candidate) error {
	return encodeLines(w, candidates)
}

// WriteUpdates encodes update records to w as JSON lines.
func WriteUpdates(w io.Writer, updates []UpdateRecord) error {
	return encodeLines(w, updates)
}

// SaveState writes canonical state to path atomically: the records are
// written to a temporary file in the same directory and renamed over the
// destination, so an interrupted run never leaves a partial state file.
func SaveState(path string, records []ScoredRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteRecords(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Merge combines prior canonical state with the scored records from one
// run. Every new record replaces the prior record with the same identity;
// every prior record not present in the new set is carried forward
// unchanged. Prior records keep their relative order and new identities
// are appended sorted by name, so merging is deterministic and merging an
// empty update set reproduces the prior state byte for byte.
//
// Merge is idempotent: merging the same update set twice yields the same
// state as merging it once. When the new set contains the same identity
// more than once, the later record wins (scan order).
func Merge(prior, updates []ScoredRecord) []ScoredRecord {
	latest := make(map[string]ScoredRecord, len(updates))
	for _, rec := range updates {
		latest[rec.NameWithOwner] = rec
	}

	merged := make([]ScoredRecord, 0, len(prior)+len(updates))
	replaced := make(map[string]struct{}, len(updates))
	for _, rec := range prior {
		if upd, ok := latest[rec.NameWithOwner]; ok {
			merged = append(merged, upd)
			replaced[rec.NameWithOwner] = struct{}{}
		} else {
			merged = append(merged, rec)
		}
	}

	var added []string
	for name := range latest {
		if _, ok := replaced[name]; !ok {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		merged = append(merged, latest[name])
	}
	return merged
}

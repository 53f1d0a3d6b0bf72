package track

import (
	"testing"
	"time"
)

var baseTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func candidate(name, sha string, pushed time.Time) Candidate {
	return Candidate{
		NameWithOwner: name,
		URL:           "https://github.com/" + name,
		SHA:           sha,
		PushedAt:      pushed,
		DiscoveredAt:  baseTime,
	}
}

func scored(name, sha string, pushed time.Time) ScoredRecord {
	return ScoredRecord{
		NameWithOwner:  name,
		URL:            "https://github.com/" + name,
		LastCheckedSHA: sha,
		PushedAt:       pushed,
		ScannedAt:      baseTime,
	}
}

func TestIdentifyUpdates(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		state      []ScoredRecord
		wantNames  map[string]UpdateReason
	}{
		{
			name:       "everything new on first run",
			candidates: []Candidate{candidate("a/x", "s1", baseTime), candidate("b/y", "s2", baseTime)},
			state:      nil,
			wantNames:  map[string]UpdateReason{"a/x": ReasonNew, "b/y": ReasonNew},
		},
		{
			name:       "unchanged candidate excluded",
			candidates: []Candidate{candidate("a/x", "s1", baseTime)},
			state:      []ScoredRecord{scored("a/x", "s1", baseTime)},
			wantNames:  map[string]UpdateReason{},
		},
		{
			name:       "sha change selects unseen-commit",
			candidates: []Candidate{candidate("a/x", "s2", baseTime)},
			state:      []ScoredRecord{scored("a/x", "s1", baseTime)},
			wantNames:  map[string]UpdateReason{"a/x": ReasonUnseenCommit},
		},
		{
			name:       "push timestamp drift selects metadata-changed",
			candidates: []Candidate{candidate("a/x", "s1", baseTime.Add(time.Hour))},
			state:      []ScoredRecord{scored("a/x", "s1", baseTime)},
			wantNames:  map[string]UpdateReason{"a/x": ReasonMetadataChanged},
		},
		{
			name:       "sha change wins over metadata drift",
			candidates: []Candidate{candidate("a/x", "s2", baseTime.Add(time.Hour))},
			state:      []ScoredRecord{scored("a/x", "s1", baseTime)},
			wantNames:  map[string]UpdateReason{"a/x": ReasonUnseenCommit},
		},
		{
			name: "mixed batch",
			candidates: []Candidate{
				candidate("a/new", "s9", baseTime),
				candidate("b/same", "s1", baseTime),
				candidate("c/moved", "s3", baseTime),
			},
			state: []ScoredRecord{
				scored("b/same", "s1", baseTime),
				scored("c/moved", "s2", baseTime),
				scored("d/gone", "s4", baseTime),
			},
			wantNames: map[string]UpdateReason{
				"a/new":   ReasonNew,
				"c/moved": ReasonUnseenCommit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updates := IdentifyUpdates(tt.candidates, tt.state)
			got := make(map[string]UpdateReason, len(updates))
			for _, u := range updates {
				got[u.NameWithOwner] = u.Reason
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("selected %v, want %v", got, tt.wantNames)
			}
			for name, reason := range tt.wantNames {
				if got[name] != reason {
					t.Errorf("%s: reason = %q, want %q", name, got[name], reason)
				}
			}
		})
	}
}

func TestIdentifyUpdatesPreservesCandidate(t *testing.T) {
	cand := candidate("a/x", "s1", baseTime)
	cand.Stargazers = 42
	cand.Description = "demo"

	updates := IdentifyUpdates([]Candidate{cand}, nil)
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(updates))
	}
	if updates[0].Candidate != cand {
		t.Errorf("update candidate = %+v, want %+v", updates[0].Candidate, cand)
	}
}

func TestIdentifyUpdatesStateOrderInsensitive(t *testing.T) {
	candidates := []Candidate{
		candidate("a/x", "s2", baseTime),
		candidate("b/y", "s1", baseTime),
	}
	state := []ScoredRecord{
		scored("a/x", "s1", baseTime),
		scored("b/y", "s1", baseTime),
	}
	reversed := []ScoredRecord{state[1], state[0]}

	first := IdentifyUpdates(candidates, state)
	second := IdentifyUpdates(candidates, reversed)
	if len(first) != len(second) {
		t.Fatalf("order-dependent result: %d vs %d updates", len(first), len(second))
	}
	for i := range first {
		if first[i].NameWithOwner != second[i].NameWithOwner || first[i].Reason != second[i].Reason {
			t.Errorf("update %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

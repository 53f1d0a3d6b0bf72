package track

import (
	"testing"
)

func TestPower(t *testing.T) {
	tests := []struct {
		name string
		rec  ScoredRecord
		want float64
	}{
		{
			name: "zero files means zero score",
			rec:  ScoredRecord{FileCount: 0, LineCount: 0, TStringCount: 0, Stargazers: 1000},
			want: 0,
		},
		{
			name: "zero lines means zero score",
			rec:  ScoredRecord{FileCount: 3, LineCount: 0, TStringCount: 5, Stargazers: 10},
			want: 0,
		},
		{
			name: "zero literals means zero score",
			rec:  ScoredRecord{FileCount: 3, LineCount: 500, TStringCount: 0, Stargazers: 10},
			want: 0,
		},
		{
			name: "density times stars plus one",
			rec:  ScoredRecord{FileCount: 2, LineCount: 100, TStringCount: 5, Stargazers: 9},
			want: 0.5,
		},
		{
			name: "zero stars still scores",
			rec:  ScoredRecord{FileCount: 1, LineCount: 10, TStringCount: 1, Stargazers: 0},
			want: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Power(tt.rec); got != tt.want {
				t.Errorf("Power = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerMonotonicInCounts(t *testing.T) {
	base := ScoredRecord{FileCount: 4, LineCount: 1000, Stargazers: 25}
	prev := 0.0
	for count := 1; count <= 100; count *= 2 {
		rec := base
		rec.TStringCount = count
		score := Power(rec)
		if score <= prev {
			t.Fatalf("score not increasing: count %d gave %v after %v", count, score, prev)
		}
		prev = score
	}
}

func TestPowerMonotonicInStars(t *testing.T) {
	base := ScoredRecord{FileCount: 4, LineCount: 1000, TStringCount: 7}
	prev := -1.0
	for stars := 0; stars <= 10000; stars = stars*10 + 1 {
		rec := base
		rec.Stargazers = stars
		score := Power(rec)
		if score <= prev {
			t.Fatalf("score not increasing: %d stars gave %v after %v", stars, score, prev)
		}
		prev = score
	}
}

func TestRanked(t *testing.T) {
	records := []ScoredRecord{
		{NameWithOwner: "c/low", Score: 0.01, ScannedAt: baseTime},
		{NameWithOwner: "a/high", Score: 25.5, ScannedAt: baseTime},
		{NameWithOwner: "b/tied", Score: 0.01, ScannedAt: baseTime},
	}

	ranked := Ranked(records)

	wantOrder := []string{"a/high", "b/tied", "c/low"}
	for i, want := range wantOrder {
		if ranked[i].NameWithOwner != want {
			t.Errorf("rank %d = %s, want %s", i, ranked[i].NameWithOwner, want)
		}
	}

	// Input must be untouched.
	if records[0].NameWithOwner != "c/low" {
		t.Error("Ranked mutated its input")
	}
}

func TestRankedOrdersByStoredScore(t *testing.T) {
	// State written under an older formula: the stored score disagrees
	// with what Power would compute today. The stored value is the
	// contract and must decide the order.
	records := []ScoredRecord{
		{NameWithOwner: "a/recomputes-high", FileCount: 1, LineCount: 10, TStringCount: 5, Stargazers: 50, Score: 0.01, ScannedAt: baseTime},
		{NameWithOwner: "b/recomputes-low", FileCount: 1, LineCount: 100, TStringCount: 1, Stargazers: 0, Score: 9.0, ScannedAt: baseTime},
	}

	ranked := Ranked(records)
	if ranked[0].NameWithOwner != "b/recomputes-low" {
		t.Errorf("rank 0 = %s, want b/recomputes-low", ranked[0].NameWithOwner)
	}
	if ranked[0].Score != 9.0 {
		t.Errorf("rank 0 score = %v, want the stored 9.0", ranked[0].Score)
	}
}

func TestTopBounds(t *testing.T) {
	records := []ScoredRecord{
		{NameWithOwner: "a/x", Score: 0.3, ScannedAt: baseTime},
		{NameWithOwner: "b/y", Score: 0.2, ScannedAt: baseTime},
		{NameWithOwner: "c/z", Score: 0.1, ScannedAt: baseTime},
	}

	if got := Top(records, 2); len(got) != 2 {
		t.Errorf("Top(2) returned %d records", len(got))
	}
	if got := Top(records, 0); len(got) != 3 {
		t.Errorf("Top(0) returned %d records, want all", len(got))
	}
	if got := Top(records, 10); len(got) != 3 {
		t.Errorf("Top(10) returned %d records, want all", len(got))
	}
	if got := Top(nil, 5); len(got) != 0 {
		t.Errorf("Top of empty state returned %d records", len(got))
	}
}

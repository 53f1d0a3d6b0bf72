package track

import "sort"

// Ranked returns a copy of records sorted by descending stored score, ties
// broken by repository name (lexicographic) so output is deterministic. The
// stored score is the ordering contract; it is never recomputed here, so
// states written under an older formula rank consistently with what each
// record displays. The input is not modified.
func Ranked(records []ScoredRecord) []ScoredRecord {
	out := make([]ScoredRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].NameWithOwner < out[j].NameWithOwner
	})
	return out
}

// Top returns the n highest-ranked records, or all of them when n <= 0 or
// exceeds the state size.
func Top(records []ScoredRecord, n int) []ScoredRecord {
	ranked := Ranked(records)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

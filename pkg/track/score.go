package track

// Power computes the ranking score for a scanned repository: t-string
// density (literals per non-blank, non-comment line of Python) weighted by
// popularity (stargazers + 1, so unknown repositories still rank).
//
// The formula is a tunable heuristic with three fixed properties:
//   - non-decreasing in occurrence count when density and stars are fixed
//   - non-decreasing in stars when counts are fixed
//   - zero, never a division error, for repositories with nothing to scan
func Power(r ScoredRecord) float64 {
	if r.FileCount == 0 || r.LineCount == 0 || r.TStringCount == 0 {
		return 0
	}
	density := float64(r.TStringCount) / float64(r.LineCount)
	return density * (float64(r.Stargazers) + 1.0)
}

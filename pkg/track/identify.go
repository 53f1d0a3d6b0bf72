package track

// IdentifyUpdates diffs the current candidate set against prior canonical
// state and returns the update set: every candidate that is new or has
// changed since its last scan. It is a pure function of its two inputs; the
// result order follows the candidate order but carries no meaning (the
// update set is a set, not a sequence).
//
// Classification per candidate:
//   - identity absent from state            → ReasonNew
//   - manifest blob SHA differs             → ReasonUnseenCommit
//   - SHA identical, push timestamp moved   → ReasonMetadataChanged
//   - identity present and indicator equal  → excluded
func IdentifyUpdates(candidates []Candidate, state []ScoredRecord) []UpdateRecord {
	byName := make(map[string]ScoredRecord, len(state))
	for _, rec := range state {
		byName[rec.NameWithOwner] = rec
	}

	var updates []UpdateRecord
	for _, cand := range candidates {
		prev, ok := byName[cand.NameWithOwner]
		switch {
		case !ok:
			updates = append(updates, UpdateRecord{Candidate: cand, Reason: ReasonNew})
		case prev.LastCheckedSHA != cand.SHA:
			updates = append(updates, UpdateRecord{Candidate: cand, Reason: ReasonUnseenCommit})
		case !prev.PushedAt.Equal(cand.PushedAt):
			updates = append(updates, UpdateRecord{Candidate: cand, Reason: ReasonMetadataChanged})
		}
	}
	return updates
}

package score

import (
	"sort"

	"github.com/leadsift/peoplescan/internal/model"
)

// SortByScore returns a copy of records sorted by score descending.
// The sort is stable: ties preserve the input (discovery) order, which is
// what makes selection deterministic across runs.
func SortByScore(records []model.PersonRecord) []model.PersonRecord {
	sorted := make([]model.PersonRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

// Select picks the decision makers from already-scored records.
//
// Records are walked in score-descending order; one is admitted when its
// score clears AdmitScore, or when it is the very first admission and
// clears FirstAdmitScore. Selection stops at limit. When nothing clears
// either threshold the single highest-scoring record is admitted anyway
// with "fallback" appended to its reason: every site with any extracted
// person yields at least one candidate.
func (s *Scorer) Select(records []model.PersonRecord, limit int) []model.PersonRecord {
	if len(records) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 1
	}

	sorted := SortByScore(records)

	selected := make([]model.PersonRecord, 0, limit)
	for _, p := range sorted {
		if len(selected) >= limit {
			break
		}
		if p.Score >= AdmitScore || (len(selected) == 0 && p.Score >= FirstAdmitScore) {
			selected = append(selected, p)
		}
	}

	if len(selected) == 0 {
		fallback := sorted[0]
		if fallback.RankReason == "" {
			fallback.RankReason = "fallback"
		} else {
			fallback.RankReason += ", fallback"
		}
		selected = append(selected, fallback)
	}

	return selected
}

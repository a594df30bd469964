package extract

import "github.com/leadsift/peoplescan/internal/model"

// Dedupe merges records sharing an identity key, preserving first-seen
// order. The first record for a key wins; later duplicates only backfill
// its blank fields. Dedupe is idempotent.
func Dedupe(records []model.PersonRecord) []model.PersonRecord {
	if len(records) == 0 {
		return nil
	}
	index := make(map[model.IdentityKey]int, len(records))
	out := make([]model.PersonRecord, 0, len(records))
	for i := range records {
		key := records[i].Key()
		if at, ok := index[key]; ok {
			out[at].MergeFrom(&records[i])
			continue
		}
		index[key] = len(out)
		out = append(out, records[i])
	}
	return out
}

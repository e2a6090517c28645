package conflicts

import "github.com/professional-hubs/conflicts/internal/model"

// Dedupe keeps one match per matter: the one with the highest score. On a
// tie the first match seen wins. Matters keep the order in which they were
// first seen.
func Dedupe(matches []model.ConflictMatch) []model.ConflictMatch {
	if len(matches) == 0 {
		return nil
	}
	best := make(map[int64]int, len(matches)) // matter ID -> index into out
	out := make([]model.ConflictMatch, 0, len(matches))
	for _, m := range matches {
		i, seen := best[m.MatterID]
		if !seen {
			best[m.MatterID] = len(out)
			out = append(out, m)
			continue
		}
		if m.Score > out[i].Score {
			out[i] = m
		}
	}
	return out
}

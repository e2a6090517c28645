package conflicts

import (
	"fmt"
	"sort"

	"github.com/professional-hubs/conflicts/internal/model"
)

const (
	noSearchTerm     = "no search term"
	noConflictsFound = "No conflicts of interest found"
)

// SearchTermLabel describes the query for display: the person name, then
// " / company" when a company was also given.
func SearchTermLabel(q model.ConflictQuery) string {
	person, company := q.PersonName(), q.Company()
	switch {
	case person != "" && company != "":
		return person + " / " + company
	case person != "":
		return person
	case company != "":
		return company
	default:
		return noSearchTerm
	}
}

// Assemble sorts deduplicated matches by descending score and builds the report.
func Assemble(q model.ConflictQuery, matches []model.ConflictMatch) model.ConflictReport {
	sorted := make([]model.ConflictMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	return model.ConflictReport{
		SearchTerm:   SearchTermLabel(q),
		TotalMatches: len(sorted),
		Matches:      sorted,
		Message:      summarize(sorted),
	}
}

func summarize(matches []model.ConflictMatch) string {
	if len(matches) == 0 {
		return noConflictsFound
	}
	var high, medium int
	for _, m := range matches {
		switch m.Confidence {
		case model.ConfidenceHigh:
			high++
		case model.ConfidenceMedium:
			medium++
		}
	}
	return fmt.Sprintf("Found %d potential conflict(s): %d high confidence, %d medium confidence",
		len(matches), high, medium)
}

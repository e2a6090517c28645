package conflicts

// CheckRequest describes a prospective client or party. Give the person
// fields, the company name, or both.
type CheckRequest struct {
	GivenName     string `json:"given_name,omitempty"`
	FirstSurname  string `json:"first_surname,omitempty"`
	SecondSurname string `json:"second_surname,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
}

// Match kinds.
const (
	MatchClientPerson  = "client_person"
	MatchClientCompany = "client_company"
	MatchRelatedParty  = "related_party"
)

// Confidence tiers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// Match is one matter that may be in conflict with the query.
type Match struct {
	ClientID     int64   `json:"client_id"`
	ClientName   string  `json:"client_name"`
	MatterID     int64   `json:"matter_id"`
	MatterName   string  `json:"matter_name"`
	MatterStatus string  `json:"matter_status"`
	MatchKind    string  `json:"match_kind"`
	RelationType string  `json:"relation_type,omitempty"`
	Score        float64 `json:"similarity_score"`
	Confidence   string  `json:"confidence"`
	MatchedField string  `json:"matched_field"`
}

// Report is the result of a conflict check. Matches are ordered by
// descending score with at most one entry per matter.
type Report struct {
	SearchTerm   string  `json:"search_term"`
	TotalMatches int     `json:"total_matches"`
	Matches      []Match `json:"matches"`
	Message      string  `json:"message"`
}

// HasConflicts reports whether any potential conflict was found.
func (r *Report) HasConflicts() bool {
	return r.TotalMatches > 0
}

// High returns the high-confidence matches.
func (r *Report) High() []Match {
	var out []Match
	for _, m := range r.Matches {
		if m.Confidence == ConfidenceHigh {
			out = append(out, m)
		}
	}
	return out
}

// Thresholds are the server's classification cutoffs.
type Thresholds struct {
	Floor      float64 `json:"floor"`
	HighCutoff float64 `json:"high_cutoff"`
}

// Status is the response of GET /v1/conflicts/status.
type Status struct {
	Service    string     `json:"service"`
	Status     string     `json:"status"`
	Version    string     `json:"version"`
	Thresholds Thresholds `json:"thresholds"`
}

// Health is the response of GET /health.
type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Postgres string `json:"postgres"`
	Uptime   int64  `json:"uptime_seconds"`
}

package model

import "strings"

// ConflictQuery describes a prospective client or party to check.
// Either shape (person or company) may be supplied, or both.
type ConflictQuery struct {
	GivenName     string `json:"given_name,omitempty"`
	FirstSurname  string `json:"first_surname,omitempty"`
	SecondSurname string `json:"second_surname,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
}

// PersonName joins the non-empty person parts in given/first/second order.
func (q ConflictQuery) PersonName() string {
	return JoinNameParts(q.GivenName, q.FirstSurname, q.SecondSurname)
}

// Company returns the trimmed company name.
func (q ConflictQuery) Company() string {
	return strings.TrimSpace(q.CompanyName)
}

// IsEmpty reports whether no field carries a non-blank value.
func (q ConflictQuery) IsEmpty() bool {
	return q.PersonName() == "" && q.Company() == ""
}

// MatchKind identifies the search pass that produced a match.
type MatchKind string

const (
	MatchKindClientPerson  MatchKind = "client_person"
	MatchKindClientCompany MatchKind = "client_company"
	MatchKindRelatedParty  MatchKind = "related_party"
)

// ConfidenceTier buckets a similarity score.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
)

// ConflictMatch is a single potential conflict. It only lives for the
// duration of one search.
type ConflictMatch struct {
	ClientID     int64          `json:"client_id" yaml:"client_id"`
	ClientName   string         `json:"client_name" yaml:"client_name"`
	MatterID     int64          `json:"matter_id" yaml:"matter_id"`
	MatterName   string         `json:"matter_name" yaml:"matter_name"`
	MatterStatus MatterStatus   `json:"matter_status" yaml:"matter_status"`
	MatchKind    MatchKind      `json:"match_kind" yaml:"match_kind"`
	RelationType RelationType   `json:"relation_type,omitempty" yaml:"relation_type,omitempty"`
	Score        float64        `json:"similarity_score" yaml:"similarity_score"`
	Confidence   ConfidenceTier `json:"confidence" yaml:"confidence"`
	MatchedField string         `json:"matched_field" yaml:"matched_field"`
}

// ConflictReport is the result of a conflict check.
type ConflictReport struct {
	SearchTerm   string          `json:"search_term" yaml:"search_term"`
	TotalMatches int             `json:"total_matches" yaml:"total_matches"`
	Matches      []ConflictMatch `json:"matches" yaml:"matches"`
	Message      string          `json:"message" yaml:"message"`
}

// CheckConflictsRequest is the request body for POST /v1/conflicts/check.
type CheckConflictsRequest struct {
	GivenName     string `json:"given_name,omitempty"`
	FirstSurname  string `json:"first_surname,omitempty"`
	SecondSurname string `json:"second_surname,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
}

// Query converts the request into a ConflictQuery.
func (r CheckConflictsRequest) Query() ConflictQuery {
	return ConflictQuery(r)
}

// Thresholds reports the similarity cutoffs in status responses.
type Thresholds struct {
	Floor      float64 `json:"floor"`
	HighCutoff float64 `json:"high_cutoff"`
}

// ServiceStatusResponse is the response for GET /v1/conflicts/status.
type ServiceStatusResponse struct {
	Service    string     `json:"service"`
	Status     string     `json:"status"`
	Version    string     `json:"version"`
	Thresholds Thresholds `json:"thresholds"`
}

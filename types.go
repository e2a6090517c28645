package conflicts

import "time"

// Matter statuses. Every status is searched; closed and archived matters
// still conflict.
const (
	MatterActive   = "ACTIVE"
	MatterClosed   = "CLOSED"
	MatterPending  = "PENDING"
	MatterArchived = "ARCHIVED"
)

// Relation types for related parties.
const (
	RelationPlaintiff     = "PLAINTIFF"
	RelationDefendant     = "DEFENDANT"
	RelationOpposingParty = "OPPOSING_PARTY"
	RelationCoDefendant   = "CO_DEFENDANT"
	RelationSpouse        = "SPOUSE"
	RelationSubsidiary    = "SUBSIDIARY"
	RelationParentCompany = "PARENT_COMPANY"
)

// Client is the public representation of a firm's client. A client is a
// person (given name and surnames), a company, or both.
// No internal package imports; safe to use from outside the module.
type Client struct {
	ID            int64
	FirmID        int64
	GivenName     string
	FirstSurname  string
	SecondSurname string
	CompanyName   string
}

// Matter is a legal case handled for a client.
type Matter struct {
	ID       int64
	FirmID   int64
	ClientID int64
	Name     string
	Status   string // one of the Matter* constants
	OpenedOn *time.Time
}

// RelatedParty is a non-client participant in a matter.
type RelatedParty struct {
	ID           int64
	FirmID       int64
	MatterID     int64
	Name         string
	RelationType string // one of the Relation* constants
}

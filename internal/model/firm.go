package model

import (
	"fmt"
	"strings"
	"time"
)

// MatterStatus is the lifecycle state of a matter.
type MatterStatus string

const (
	MatterStatusActive   MatterStatus = "ACTIVE"
	MatterStatusClosed   MatterStatus = "CLOSED"
	MatterStatusPending  MatterStatus = "PENDING"
	MatterStatusArchived MatterStatus = "ARCHIVED"
)

var matterStatuses = map[MatterStatus]bool{
	MatterStatusActive:   true,
	MatterStatusClosed:   true,
	MatterStatusPending:  true,
	MatterStatusArchived: true,
}

// ParseMatterStatus converts a stored status value into a MatterStatus.
// Matching is case-insensitive; unknown values are an error.
func ParseMatterStatus(s string) (MatterStatus, error) {
	st := MatterStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !matterStatuses[st] {
		return "", fmt.Errorf("model: unknown matter status %q", s)
	}
	return st, nil
}

// RelationType describes how a related party is connected to a matter.
type RelationType string

const (
	RelationPlaintiff     RelationType = "PLAINTIFF"
	RelationDefendant     RelationType = "DEFENDANT"
	RelationOpposingParty RelationType = "OPPOSING_PARTY"
	RelationCoDefendant   RelationType = "CO_DEFENDANT"
	RelationSpouse        RelationType = "SPOUSE"
	RelationSubsidiary    RelationType = "SUBSIDIARY"
	RelationParentCompany RelationType = "PARENT_COMPANY"
)

var relationTypes = map[RelationType]bool{
	RelationPlaintiff:     true,
	RelationDefendant:     true,
	RelationOpposingParty: true,
	RelationCoDefendant:   true,
	RelationSpouse:        true,
	RelationSubsidiary:    true,
	RelationParentCompany: true,
}

// ParseRelationType converts a stored relation value into a RelationType.
// Matching is case-insensitive; unknown values are an error.
func ParseRelationType(s string) (RelationType, error) {
	rt := RelationType(strings.ToUpper(strings.TrimSpace(s)))
	if !relationTypes[rt] {
		return "", fmt.Errorf("model: unknown relation type %q", s)
	}
	return rt, nil
}

// Firm is a tenant. Every client, matter and related party belongs to exactly one firm.
type Firm struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Client is a person or organization represented by the firm.
// Person clients populate the name parts; organizations populate CompanyName.
type Client struct {
	ID            int64  `json:"id"`
	FirmID        int64  `json:"firm_id"`
	GivenName     string `json:"given_name,omitempty"`
	FirstSurname  string `json:"first_surname,omitempty"`
	SecondSurname string `json:"second_surname,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	IsActive      bool   `json:"is_active"`
}

// PersonName joins the non-empty person name parts with single spaces.
func (c Client) PersonName() string {
	return JoinNameParts(c.GivenName, c.FirstSurname, c.SecondSurname)
}

// HasPersonName reports whether any person name part is set.
func (c Client) HasPersonName() bool {
	return c.PersonName() != ""
}

// DisplayName is the company name for organizations and the full name otherwise.
func (c Client) DisplayName() string {
	if name := strings.TrimSpace(c.CompanyName); name != "" {
		return name
	}
	return c.PersonName()
}

// Matter is a legal case or engagement belonging to a client.
type Matter struct {
	ID       int64        `json:"id"`
	ClientID int64        `json:"client_id"`
	FirmID   int64        `json:"firm_id"`
	Name     string       `json:"name"`
	Status   MatterStatus `json:"status"`
	OpenedOn *time.Time   `json:"opened_on,omitempty"`
	IsActive bool         `json:"is_active"`
}

// RelatedParty is a person or entity attached to a matter other than the client.
type RelatedParty struct {
	ID           int64        `json:"id"`
	MatterID     int64        `json:"matter_id"`
	FirmID       int64        `json:"firm_id"`
	Name         string       `json:"name"`
	RelationType RelationType `json:"relation_type"`
	IsActive     bool         `json:"is_active"`
}

// JoinNameParts joins the trimmed, non-empty parts with a single space.
func JoinNameParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

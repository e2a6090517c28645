package conflicts

import (
	"fmt"
	"strings"

	"github.com/professional-hubs/conflicts/internal/model"
)

// pass is one of the four searches: a query name (person or company) compared
// against one kind of candidate (clients or related parties).
type pass struct {
	kind       model.MatchKind
	queryName  func(model.ConflictQuery) string
	candidates func(*snapshot) []candidate
	describe   func(candidate) string
}

// passes run in this order; the order only matters for dedupe tie-breaks.
var passes = []pass{
	{
		kind:       model.MatchKindClientPerson,
		queryName:  model.ConflictQuery.PersonName,
		candidates: (*snapshot).personClients,
		describe:   func(candidate) string { return "existing client (person)" },
	},
	{
		kind:       model.MatchKindRelatedParty,
		queryName:  model.ConflictQuery.PersonName,
		candidates: (*snapshot).relatedParties,
		describe:   describeParty,
	},
	{
		kind:       model.MatchKindClientCompany,
		queryName:  model.ConflictQuery.Company,
		candidates: (*snapshot).companyClients,
		describe:   func(candidate) string { return "existing client (company)" },
	},
	{
		kind:       model.MatchKindRelatedParty,
		queryName:  model.ConflictQuery.Company,
		candidates: (*snapshot).relatedParties,
		describe:   describeParty,
	},
}

func describeParty(c candidate) string {
	return fmt.Sprintf("related party (%s: %s)", c.party.RelationType, c.party.Name)
}

// candidate is a name to score plus the matters a hit on it implicates.
type candidate struct {
	name    string
	client  model.Client
	matters []model.Matter
	party   *model.RelatedParty // nil for client candidates
}

// snapshot is the subset of a firm's records that can produce conflicts:
// active clients of the firm, their active matters, and the active parties
// on those matters. Input order is preserved throughout.
type snapshot struct {
	firmID          int64
	clients         []model.Client
	clientsByID     map[int64]model.Client
	mattersByClient map[int64][]model.Matter
	mattersByID     map[int64]model.Matter
	parties         []model.RelatedParty
}

func newSnapshot(firmID int64, clients []model.Client, matters []model.Matter, parties []model.RelatedParty) *snapshot {
	s := &snapshot{
		firmID:          firmID,
		clientsByID:     make(map[int64]model.Client, len(clients)),
		mattersByClient: make(map[int64][]model.Matter),
		mattersByID:     make(map[int64]model.Matter, len(matters)),
	}
	for _, c := range clients {
		if c.FirmID != firmID || !c.IsActive {
			continue
		}
		if _, dup := s.clientsByID[c.ID]; dup {
			continue
		}
		s.clients = append(s.clients, c)
		s.clientsByID[c.ID] = c
	}
	for _, m := range matters {
		if m.FirmID != firmID || !m.IsActive {
			continue
		}
		if _, ok := s.clientsByID[m.ClientID]; !ok {
			continue
		}
		s.mattersByClient[m.ClientID] = append(s.mattersByClient[m.ClientID], m)
		s.mattersByID[m.ID] = m
	}
	for _, p := range parties {
		if p.FirmID != firmID || !p.IsActive {
			continue
		}
		if _, ok := s.mattersByID[p.MatterID]; !ok {
			continue
		}
		s.parties = append(s.parties, p)
	}
	return s
}

func (s *snapshot) personClients() []candidate {
	var out []candidate
	for _, c := range s.clients {
		if c.FirmID != s.firmID || !c.HasPersonName() {
			continue
		}
		out = append(out, candidate{name: c.PersonName(), client: c, matters: s.mattersByClient[c.ID]})
	}
	return out
}

func (s *snapshot) companyClients() []candidate {
	var out []candidate
	for _, c := range s.clients {
		if c.FirmID != s.firmID || strings.TrimSpace(c.CompanyName) == "" {
			continue
		}
		out = append(out, candidate{name: c.CompanyName, client: c, matters: s.mattersByClient[c.ID]})
	}
	return out
}

func (s *snapshot) relatedParties() []candidate {
	out := make([]candidate, 0, len(s.parties))
	for i := range s.parties {
		p := &s.parties[i]
		if p.FirmID != s.firmID {
			continue
		}
		m := s.mattersByID[p.MatterID]
		out = append(out, candidate{
			name:    p.Name,
			client:  s.clientsByID[m.ClientID],
			matters: []model.Matter{m},
			party:   p,
		})
	}
	return out
}

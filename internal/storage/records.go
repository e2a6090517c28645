package storage

import (
	"context"
	"fmt"

	"github.com/professional-hubs/conflicts/internal/model"
)

// ListActiveClients returns the firm's active clients ordered by ID.
func (db *DB) ListActiveClients(ctx context.Context, firmID int64) ([]model.Client, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, firm_id, given_name, first_surname, second_surname, company_name, is_active
		 FROM clients
		 WHERE firm_id = $1 AND is_active
		 ORDER BY id`, firmID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: list clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.FirmID, &c.GivenName, &c.FirstSurname, &c.SecondSurname,
			&c.CompanyName, &c.IsActive); err != nil {
			return nil, fmt.Errorf("storage: scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list clients: %w", err)
	}
	return clients, nil
}

// ListMatters returns the firm's active matters in every status, ordered by ID.
// Closed and archived matters are included: they still give rise to conflicts.
func (db *DB) ListMatters(ctx context.Context, firmID int64) ([]model.Matter, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, client_id, firm_id, name, status, opened_on, is_active
		 FROM matters
		 WHERE firm_id = $1 AND is_active
		 ORDER BY id`, firmID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: list matters: %w", err)
	}
	defer rows.Close()

	var matters []model.Matter
	for rows.Next() {
		var (
			m      model.Matter
			status string
		)
		if err := rows.Scan(&m.ID, &m.ClientID, &m.FirmID, &m.Name, &status, &m.OpenedOn, &m.IsActive); err != nil {
			return nil, fmt.Errorf("storage: scan matter: %w", err)
		}
		if m.Status, err = model.ParseMatterStatus(status); err != nil {
			return nil, fmt.Errorf("storage: matter %d: %w", m.ID, err)
		}
		matters = append(matters, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list matters: %w", err)
	}
	return matters, nil
}

// ListRelatedParties returns the firm's active related parties ordered by ID.
func (db *DB) ListRelatedParties(ctx context.Context, firmID int64) ([]model.RelatedParty, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, matter_id, firm_id, name, relation_type, is_active
		 FROM related_parties
		 WHERE firm_id = $1 AND is_active
		 ORDER BY id`, firmID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: list related parties: %w", err)
	}
	defer rows.Close()

	var parties []model.RelatedParty
	for rows.Next() {
		var (
			p   model.RelatedParty
			rel string
		)
		if err := rows.Scan(&p.ID, &p.MatterID, &p.FirmID, &p.Name, &rel, &p.IsActive); err != nil {
			return nil, fmt.Errorf("storage: scan related party: %w", err)
		}
		if p.RelationType, err = model.ParseRelationType(rel); err != nil {
			return nil, fmt.Errorf("storage: related party %d: %w", p.ID, err)
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list related parties: %w", err)
	}
	return parties, nil
}

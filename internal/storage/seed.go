package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/professional-hubs/conflicts/internal/model"
)

// FirmRecords is a firm with its full client, matter and party tree, as
// loaded by ImportFirm. IDs and firm references inside it are ignored and
// assigned on insert.
type FirmRecords struct {
	Name    string
	Clients []ClientRecords
}

// ClientRecords is a client with its matters.
type ClientRecords struct {
	Client  model.Client
	Matters []MatterRecords
}

// MatterRecords is a matter with its related parties.
type MatterRecords struct {
	Matter  model.Matter
	Parties []model.RelatedParty
}

// ImportFirm inserts a firm and everything under it in one serializable
// transaction, rerun when it loses a serialization conflict. It returns the new firm.
func (db *DB) ImportFirm(ctx context.Context, rec FirmRecords) (model.Firm, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return model.Firm{}, fmt.Errorf("storage: import firm: name is required")
	}

	var firm model.Firm
	err := defaultImportRetry.run(ctx, db.logger, rec.Name, func() error {
		var err error
		firm, err = db.importFirmTx(ctx, rec)
		return err
	})
	if err != nil {
		return model.Firm{}, err
	}
	db.logger.Info("imported firm", "firm_id", firm.ID, "name", firm.Name, "clients", len(rec.Clients))
	return firm, nil
}

func (db *DB) importFirmTx(ctx context.Context, rec FirmRecords) (model.Firm, error) {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return model.Firm{}, fmt.Errorf("storage: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	firm := model.Firm{Name: strings.TrimSpace(rec.Name), IsActive: true}
	if err := tx.QueryRow(ctx,
		`INSERT INTO firms (name) VALUES ($1) RETURNING id`, firm.Name,
	).Scan(&firm.ID); err != nil {
		return model.Firm{}, fmt.Errorf("storage: insert firm: %w", err)
	}

	for _, cr := range rec.Clients {
		clientID, err := insertClient(ctx, tx, firm.ID, cr.Client)
		if err != nil {
			return model.Firm{}, err
		}
		for _, mr := range cr.Matters {
			matterID, err := insertMatter(ctx, tx, firm.ID, clientID, mr.Matter)
			if err != nil {
				return model.Firm{}, err
			}
			for _, p := range mr.Parties {
				if err := insertParty(ctx, tx, firm.ID, matterID, p); err != nil {
					return model.Firm{}, err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Firm{}, fmt.Errorf("storage: commit import: %w", err)
	}
	return firm, nil
}

func insertClient(ctx context.Context, tx pgx.Tx, firmID int64, c model.Client) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO clients (firm_id, given_name, first_surname, second_surname, company_name, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		firmID, strings.TrimSpace(c.GivenName), strings.TrimSpace(c.FirstSurname),
		strings.TrimSpace(c.SecondSurname), strings.TrimSpace(c.CompanyName), c.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: insert client %q: %w", c.DisplayName(), err)
	}
	return id, nil
}

func insertMatter(ctx context.Context, tx pgx.Tx, firmID, clientID int64, m model.Matter) (int64, error) {
	status := m.Status
	if status == "" {
		status = model.MatterStatusActive
	}
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO matters (firm_id, client_id, name, status, opened_on, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		firmID, clientID, m.Name, string(status), m.OpenedOn, m.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: insert matter %q: %w", m.Name, err)
	}
	return id, nil
}

func insertParty(ctx context.Context, tx pgx.Tx, firmID, matterID int64, p model.RelatedParty) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO related_parties (firm_id, matter_id, name, relation_type, is_active)
		 VALUES ($1, $2, $3, $4, $5)`,
		firmID, matterID, strings.TrimSpace(p.Name), string(p.RelationType), p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("storage: insert related party %q: %w", p.Name, err)
	}
	return nil
}

// DemoFirms returns two sample firms for local development: a Puerto Rico
// litigation practice and a smaller estate and IP office. Matter dates are
// relative to now.
func DemoFirms(now time.Time) []FirmRecords {
	daysAgo := func(n int) *time.Time {
		d := now.AddDate(0, 0, -n).Truncate(24 * time.Hour)
		return &d
	}
	person := func(given, surname string) model.Client {
		return model.Client{GivenName: given, FirstSurname: surname, IsActive: true}
	}
	company := func(name string) model.Client {
		return model.Client{CompanyName: name, IsActive: true}
	}
	matter := func(name string, status model.MatterStatus, opened int) model.Matter {
		return model.Matter{Name: name, Status: status, OpenedOn: daysAgo(opened), IsActive: true}
	}
	party := func(name string, rel model.RelationType) model.RelatedParty {
		return model.RelatedParty{Name: name, RelationType: rel, IsActive: true}
	}

	return []FirmRecords{
		{
			Name: "Bufete García & Asociados",
			Clients: []ClientRecords{
				{Client: person("Juan", "García"), Matters: []MatterRecords{{
					Matter: matter("García vs. Banco Popular - Ejecución Hipotecaria", model.MatterStatusActive, 90),
					Parties: []model.RelatedParty{
						party("Banco Popular de Puerto Rico", model.RelationOpposingParty),
					},
				}}},
				{Client: person("María", "Rodríguez"), Matters: []MatterRecords{{
					Matter: matter("Rodríguez - Divorcio y Custodia", model.MatterStatusClosed, 180),
					Parties: []model.RelatedParty{
						party("Pedro Rodríguez", model.RelationDefendant),
						party("Ana Rodríguez", model.RelationSpouse),
					},
				}}},
				{Client: company("Corporación ABC de Puerto Rico"), Matters: []MatterRecords{{
					Matter: matter("ABC Corp - Disputa Contractual con Proveedor", model.MatterStatusActive, 30),
					Parties: []model.RelatedParty{
						party("Distribuidora XYZ", model.RelationDefendant),
						party("XYZ Holdings Inc.", model.RelationParentCompany),
					},
				}}},
				{Client: person("Carlos", "Pérez"), Matters: []MatterRecords{{
					Matter: matter("Pérez - Accidente de Tránsito", model.MatterStatusPending, 15),
					Parties: []model.RelatedParty{
						party("José Martínez", model.RelationDefendant),
						party("Seguros Universal", model.RelationOpposingParty),
					},
				}}},
			},
		},
		{
			Name: "Hernández Law Office",
			Clients: []ClientRecords{
				{Client: person("Luis", "Hernández"), Matters: []MatterRecords{{
					Matter: matter("Hernández - Planificación Sucesoral", model.MatterStatusActive, 60),
					Parties: []model.RelatedParty{
						party("Rosa Hernández", model.RelationSpouse),
					},
				}}},
				{Client: company("Tech Solutions PR LLC"), Matters: []MatterRecords{{
					Matter: matter("Tech Solutions - Registro de Marca", model.MatterStatusArchived, 45),
					Parties: []model.RelatedParty{
						party("Tech Solutions USA Inc.", model.RelationParentCompany),
					},
				}}},
			},
		},
	}
}

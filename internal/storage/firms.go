package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/professional-hubs/conflicts/internal/model"
)

// GetFirm retrieves a firm by ID.
func (db *DB) GetFirm(ctx context.Context, id int64) (model.Firm, error) {
	var f model.Firm
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, is_active FROM firms WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Firm{}, fmt.Errorf("storage: firm %d: %w", id, ErrNotFound)
		}
		return model.Firm{}, fmt.Errorf("storage: get firm: %w", err)
	}
	return f, nil
}

// ListFirms returns every firm ordered by ID.
func (db *DB) ListFirms(ctx context.Context) ([]model.Firm, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, name, is_active FROM firms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: list firms: %w", err)
	}
	defer rows.Close()

	var firms []model.Firm
	for rows.Next() {
		var f model.Firm
		if err := rows.Scan(&f.ID, &f.Name, &f.IsActive); err != nil {
			return nil, fmt.Errorf("storage: scan firm: %w", err)
		}
		firms = append(firms, f)
	}
	return firms, rows.Err()
}

// CountFirms returns the number of firms on record.
func (db *DB) CountFirms(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT count(*) FROM firms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: count firms: %w", err)
	}
	return n, nil
}

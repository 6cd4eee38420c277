package holdings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/coinfolio/internal/database"
	"github.com/aristath/coinfolio/internal/domain"
	"github.com/rs/zerolog"
)

// Repository handles the holdings and asset_metadata tables.
// Every tracked asset has exactly one row in each table.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new holdings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "holdings").Logger(),
	}
}

const selectEntries = `
	SELECT m.asset_id, m.symbol, m.name, m.image, m.price, m.change_24h, m.change_7d,
		m.updated_at, COALESCE(h.quantity, 0)
	FROM asset_metadata m
	LEFT JOIN holdings h ON h.asset_id = m.asset_id
`

// List returns every tracked asset ordered by id
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, selectEntries+" ORDER BY m.asset_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return entries, nil
}

// Get returns a single tracked asset
func (r *Repository) Get(ctx context.Context, id string) (Entry, error) {
	row := r.db.QueryRowContext(ctx, selectEntries+" WHERE m.asset_id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, domain.ErrAssetNotFound
	}
	return e, err
}

// Count returns the number of tracked assets
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset_metadata").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count holdings: %w", err)
	}
	return n, nil
}

// Insert adds a new asset with its quantity
func (r *Repository) Insert(ctx context.Context, e Entry) error {
	now := time.Now().Unix()
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := assetExists(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAssetExists
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO asset_metadata (asset_id, symbol, name, image, price, change_24h, change_7d, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.Symbol, e.Name, e.Image, e.Price, e.Change24h, e.Change7d, now)
		if err != nil {
			return fmt.Errorf("failed to insert metadata for %s: %w", e.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO holdings (asset_id, quantity, updated_at) VALUES (?, ?, ?)
		`, e.ID, e.Quantity, now)
		if err != nil {
			return fmt.Errorf("failed to insert holding for %s: %w", e.ID, err)
		}
		return nil
	})
}

// SetQuantity replaces the held quantity of an existing asset
func (r *Repository) SetQuantity(ctx context.Context, id string, quantity float64) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := assetExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrAssetNotFound
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO holdings (asset_id, quantity, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(asset_id) DO UPDATE SET
				quantity = excluded.quantity,
				updated_at = excluded.updated_at
		`, id, quantity, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("failed to set quantity for %s: %w", id, err)
		}
		return nil
	})
}

// UpdateMetadata overwrites the stored metadata of an existing asset
func (r *Repository) UpdateMetadata(ctx context.Context, m domain.AssetMetadata) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE asset_metadata
		SET symbol = ?, name = ?, image = ?, price = ?, change_24h = ?, change_7d = ?, updated_at = ?
		WHERE asset_id = ?
	`, m.Symbol, m.Name, m.Image, m.Price, m.Change24h, m.Change7d, time.Now().Unix(), m.ID)
	if err != nil {
		return fmt.Errorf("failed to update metadata for %s: %w", m.ID, err)
	}
	return requireAffected(result, m.ID)
}

// Delete removes an asset and its holding
func (r *Repository) Delete(ctx context.Context, id string) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM holdings WHERE asset_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete holding %s: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM asset_metadata WHERE asset_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete metadata %s: %w", id, err)
		}
		return requireAffected(result, id)
	})
}

// Holdings returns asset id -> quantity for every tracked asset
func (r *Repository) Holdings(ctx context.Context) (domain.Holdings, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	h := make(domain.Holdings, len(entries))
	for _, e := range entries {
		h[e.ID] = e.Quantity
	}
	return h, nil
}

// Metadata returns the stored metadata of every tracked asset ordered by id
func (r *Repository) Metadata(ctx context.Context) ([]domain.AssetMetadata, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AssetMetadata, len(entries))
	for i, e := range entries {
		out[i] = e.AssetMetadata
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var updatedAt int64
	err := s.Scan(&e.ID, &e.Symbol, &e.Name, &e.Image, &e.Price, &e.Change24h, &e.Change7d, &updatedAt, &e.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to scan holding: %w", err)
	}
	e.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return e, nil
}

func assetExists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset_metadata WHERE asset_id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check asset %s: %w", id, err)
	}
	return n > 0, nil
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

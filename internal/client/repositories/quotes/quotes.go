// Package quotes caches the quote list locally so the quotes screen can
// render the last known state before a refetch lands and stay useful when
// the device is offline.
package quotes

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/homequote/homequote/internal/client/models"
	"github.com/homequote/homequote/internal/dbx"
)

type Repository interface {
	// ReplaceAll swaps the cached list for the given one atomically.
	ReplaceAll(ctx context.Context, quotes []models.Quote) error
	List(ctx context.Context) ([]models.Quote, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, quotes []models.Quote) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM quotes`); err != nil {
			return fmt.Errorf("failed to clear quotes cache: %w", err)
		}
		for _, q := range quotes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO quotes (id, address, status, amount_cents, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, q.ID, q.Address, string(q.Status), q.AmountCents, q.CreatedAt, q.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to cache quote %s: %w", q.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, address, status, amount_cents, created_at, updated_at
		FROM quotes ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached quotes: %w", err)
	}
	defer rows.Close()

	var result []models.Quote
	for rows.Next() {
		var q models.Quote
		var status string
		if err := rows.Scan(&q.ID, &q.Address, &status, &q.AmountCents, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote row: %w", err)
		}
		q.Status = models.QuoteStatus(status)
		result = append(result, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote rows: %w", err)
	}
	return result, nil
}

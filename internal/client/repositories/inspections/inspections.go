// Package inspections caches the inspection list locally, mirroring the
// quotes cache.
package inspections

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/homequote/homequote/internal/client/models"
	"github.com/homequote/homequote/internal/dbx"
)

type Repository interface {
	ReplaceAll(ctx context.Context, inspections []models.Inspection) error
	List(ctx context.Context) ([]models.Inspection, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, inspections []models.Inspection) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM inspections`); err != nil {
			return fmt.Errorf("failed to clear inspections cache: %w", err)
		}
		for _, i := range inspections {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO inspections (id, quote_id, address, status, scheduled_at, inspector_name)
				VALUES (?, ?, ?, ?, ?, ?)
			`, i.ID, i.QuoteID, i.Address, string(i.Status), i.ScheduledAt, i.InspectorName)
			if err != nil {
				return fmt.Errorf("failed to cache inspection %s: %w", i.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Inspection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, quote_id, address, status, scheduled_at, inspector_name
		FROM inspections ORDER BY scheduled_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached inspections: %w", err)
	}
	defer rows.Close()

	var result []models.Inspection
	for rows.Next() {
		var i models.Inspection
		var status string
		if err := rows.Scan(&i.ID, &i.QuoteID, &i.Address, &status, &i.ScheduledAt, &i.InspectorName); err != nil {
			return nil, fmt.Errorf("failed to scan inspection row: %w", err)
		}
		i.Status = models.InspectionStatus(status)
		result = append(result, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inspection rows: %w", err)
	}
	return result, nil
}

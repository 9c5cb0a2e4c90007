package repository

import (
	"context"
	"fmt"

	"insales/catsync/internal/domain"

	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	// SaveRows upserts the flattened hierarchy and drops rows of categories that no longer exist.
	SaveRows(ctx context.Context, rows []domain.FlatCategoryRow) error
	ListRows(ctx context.Context) ([]domain.FlatCategoryRow, error)
}

type categoryRepository struct {
	db DB
}

func NewCategoryRepository(db DB) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) SaveRows(ctx context.Context, rows []domain.FlatCategoryRow) error {
	query := `
	INSERT INTO category_rows (id, parent_id, level, path, title, url, position, is_hidden,
		products_count, in_stock_count, sort_order, data, synced_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
	ON CONFLICT (id)
	DO UPDATE SET parent_id = $2, level = $3, path = $4, title = $5, url = $6, position = $7,
		is_hidden = $8, products_count = $9, in_stock_count = $10, sort_order = $11, data = $12,
		synced_at = now()`

	batch := &pgx.Batch{}
	ids := make([]int64, 0, len(rows))
	for i, row := range rows {
		batch.Queue(query, row.ID, row.ParentID, row.Level, row.Path, row.Title, row.URL, row.Position,
			row.IsHidden, row.ProductsCount, row.InStockCount, i, row)
		ids = append(ids, row.ID)
	}
	batch.Queue(`DELETE FROM category_rows WHERE NOT (id = ANY($1))`, ids)

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save category rows: %w", err)
		}
	}

	return nil
}

func (r *categoryRepository) ListRows(ctx context.Context) ([]domain.FlatCategoryRow, error) {
	rows, err := r.db.Query(ctx, `SELECT data FROM category_rows ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list category rows: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FlatCategoryRow, error) {
		var item domain.FlatCategoryRow
		err := row.Scan(&item)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan category rows: %w", err)
	}
	return result, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"insales/catsync/internal/domain"

	"github.com/jackc/pgx/v5"
)

// MaxPageChanges is how many page changes are kept per category.
const MaxPageChanges = 50

type PositionRepository interface {
	SaveCheck(ctx context.Context, check domain.PositionCheck) error
	// LastCheck returns nil when the query was never checked for the category.
	LastCheck(ctx context.Context, categoryID int64, query string) (*domain.PositionCheck, error)
	// History returns checks of a category, newest first.
	History(ctx context.Context, categoryID int64, limit int) ([]domain.PositionCheck, error)
	LogPageChange(ctx context.Context, change domain.PageChange) error
	RecentPageChanges(ctx context.Context, categoryID int64, limit int) ([]domain.PageChange, error)
}

type positionRepository struct {
	db DB
}

func NewPositionRepository(db DB) PositionRepository {
	return &positionRepository{
		db: db,
	}
}

const checkColumns = `checked_at, category_id, title, query, yandex, google, url, change, comment`

func (r *positionRepository) SaveCheck(ctx context.Context, check domain.PositionCheck) error {
	query := `INSERT INTO position_checks (` + checkColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, check.CheckedAt, check.CategoryID, check.Title, check.Query,
		check.Yandex, check.Google, check.URL, check.Change, check.Comment)
	if err != nil {
		return fmt.Errorf("failed to save position check for category %d: %w", check.CategoryID, err)
	}
	return nil
}

func (r *positionRepository) LastCheck(ctx context.Context, categoryID int64, query string) (*domain.PositionCheck, error) {
	sql := `SELECT ` + checkColumns + ` FROM position_checks
	WHERE category_id = $1 AND query = $2
	ORDER BY checked_at DESC LIMIT 1`

	rows, err := r.db.Query(ctx, sql, categoryID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load last position check: %w", err)
	}

	check, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[domain.PositionCheck])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan last position check: %w", err)
	}
	return &check, nil
}

func (r *positionRepository) History(ctx context.Context, categoryID int64, limit int) ([]domain.PositionCheck, error) {
	sql := `SELECT ` + checkColumns + ` FROM position_checks
	WHERE category_id = $1
	ORDER BY checked_at DESC LIMIT $2`

	rows, err := r.db.Query(ctx, sql, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load position history: %w", err)
	}

	checks, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.PositionCheck])
	if err != nil {
		return nil, fmt.Errorf("failed to scan position history: %w", err)
	}
	return checks, nil
}

func (r *positionRepository) LogPageChange(ctx context.Context, change domain.PageChange) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO page_changes (changed_at, category_id, fields, comment) VALUES ($1, $2, $3, $4)`,
		change.ChangedAt, change.CategoryID, change.Fields, change.Comment)
	batch.Queue(`
	DELETE FROM page_changes WHERE category_id = $1 AND id NOT IN (
		SELECT id FROM page_changes WHERE category_id = $1 ORDER BY changed_at DESC, id DESC LIMIT $2
	)`, change.CategoryID, MaxPageChanges)

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to log page change for category %d: %w", change.CategoryID, err)
		}
	}
	return nil
}

func (r *positionRepository) RecentPageChanges(ctx context.Context, categoryID int64, limit int) ([]domain.PageChange, error) {
	rows, err := r.db.Query(ctx, `SELECT changed_at, category_id, fields, comment FROM page_changes
	WHERE category_id = $1 ORDER BY changed_at DESC, id DESC LIMIT $2`, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load page changes: %w", err)
	}

	changes, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.PageChange])
	if err != nil {
		return nil, fmt.Errorf("failed to scan page changes: %w", err)
	}
	return changes, nil
}

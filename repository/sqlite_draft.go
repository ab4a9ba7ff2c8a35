package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/denizakgul/raporly/database"
	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
)

// sqliteDraftRepo, DraftRepository'nin SQLite implementasyonu.
type sqliteDraftRepo struct {
	db database.TxQuerier
}

// NewSQLiteDraftRepo, constructor.
func NewSQLiteDraftRepo(db database.TxQuerier) DraftRepository {
	return &sqliteDraftRepo{db: db}
}

const draftColumns = `id, user_id, kind, title, content, created_at, updated_at`

func (r *sqliteDraftRepo) Create(ctx context.Context, draft *models.Draft) error {
	query := `
		INSERT INTO drafts (id, user_id, kind, title, content)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		draft.UserID,
		draft.Kind,
		draft.Title,
		draft.Content,
	).Scan(&draft.ID, &draft.CreatedAt, &draft.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	return nil
}

func (r *sqliteDraftRepo) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = ?`

	draft := &models.Draft{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&draft.ID, &draft.UserID, &draft.Kind, &draft.Title,
		&draft.Content, &draft.CreatedAt, &draft.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft by id: %w", err)
	}

	return draft, nil
}

func (r *sqliteDraftRepo) GetAllByUser(ctx context.Context, userID string) ([]models.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE user_id = ? ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Kind, &d.Title,
			&d.Content, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		drafts = append(drafts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows: %w", err)
	}

	return drafts, nil
}

func (r *sqliteDraftRepo) Update(ctx context.Context, draft *models.Draft) error {
	query := `
		UPDATE drafts SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, draft.Title, draft.Content, draft.ID)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteDraftRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteDraftRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count drafts: %w", err)
	}
	return count, nil
}

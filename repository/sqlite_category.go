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

// sqliteCategoryRepo, MacroCategoryRepository'nin SQLite implementasyonu.
type sqliteCategoryRepo struct {
	db database.TxQuerier
}

// NewSQLiteCategoryRepo, constructor — interface döner.
func NewSQLiteCategoryRepo(db database.TxQuerier) MacroCategoryRepository {
	return &sqliteCategoryRepo{db: db}
}

func (r *sqliteCategoryRepo) Create(ctx context.Context, category *models.MacroCategory) error {
	query := `
		INSERT INTO macro_categories (id, user_id, name)
		VALUES (lower(hex(randomblob(8))), ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		category.UserID,
		category.Name,
	).Scan(&category.ID, &category.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category name already in use", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create macro category: %w", err)
	}

	return nil
}

func (r *sqliteCategoryRepo) GetByID(ctx context.Context, id string) (*models.MacroCategory, error) {
	query := `SELECT id, user_id, name, created_at FROM macro_categories WHERE id = ?`

	category := &models.MacroCategory{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.UserID, &category.Name, &category.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get macro category: %w", err)
	}

	return category, nil
}

func (r *sqliteCategoryRepo) GetAllByUser(ctx context.Context, userID string) ([]models.MacroCategory, error) {
	query := `SELECT id, user_id, name, created_at FROM macro_categories WHERE user_id = ? ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get macro categories: %w", err)
	}
	defer rows.Close()

	var categories []models.MacroCategory
	for rows.Next() {
		var c models.MacroCategory
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan macro category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating macro category rows: %w", err)
	}

	return categories, nil
}

func (r *sqliteCategoryRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM macro_categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete macro category: %w", err)
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

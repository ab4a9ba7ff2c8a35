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

// sqliteMacroRepo, MacroRepository'nin SQLite implementasyonu.
type sqliteMacroRepo struct {
	db database.TxQuerier
}

// NewSQLiteMacroRepo, constructor.
// Transaction içinde kullanılmak üzere TxQuerier kabul eder —
// hem *sql.DB hem *sql.Tx geçilebilir.
func NewSQLiteMacroRepo(db database.TxQuerier) MacroRepository {
	return &sqliteMacroRepo{db: db}
}

const macroColumns = `id, user_id, category_id, name, replacement_text, created_at, updated_at`

func (r *sqliteMacroRepo) Create(ctx context.Context, macro *models.Macro) error {
	query := `
		INSERT INTO macros (id, user_id, category_id, name, replacement_text)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		macro.UserID,
		macro.CategoryID,
		macro.Name,
		macro.ReplacementText,
	).Scan(&macro.ID, &macro.CreatedAt, &macro.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: macro name already in use", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create macro: %w", err)
	}

	return nil
}

func (r *sqliteMacroRepo) GetByID(ctx context.Context, id string) (*models.Macro, error) {
	query := `SELECT ` + macroColumns + ` FROM macros WHERE id = ?`

	macro := &models.Macro{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&macro.ID, &macro.UserID, &macro.CategoryID,
		&macro.Name, &macro.ReplacementText, &macro.CreatedAt, &macro.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get macro by id: %w", err)
	}

	return macro, nil
}

func (r *sqliteMacroRepo) GetAllByUser(ctx context.Context, userID string) ([]models.Macro, error) {
	query := `SELECT ` + macroColumns + ` FROM macros WHERE user_id = ? ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get macros: %w", err)
	}
	defer rows.Close()

	var macros []models.Macro
	for rows.Next() {
		var m models.Macro
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.CategoryID,
			&m.Name, &m.ReplacementText, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan macro row: %w", err)
		}
		macros = append(macros, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating macro rows: %w", err)
	}

	return macros, nil
}

func (r *sqliteMacroRepo) Update(ctx context.Context, macro *models.Macro) error {
	query := `
		UPDATE macros SET category_id = ?, name = ?, replacement_text = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		macro.CategoryID, macro.Name, macro.ReplacementText, macro.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: macro name already in use", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update macro: %w", err)
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

func (r *sqliteMacroRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM macros WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete macro: %w", err)
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

func (r *sqliteMacroRepo) DetachCategory(ctx context.Context, categoryID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE macros SET category_id = NULL WHERE category_id = ?`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to detach macros from category: %w", err)
	}
	return nil
}

func (r *sqliteMacroRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM macros WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count macros: %w", err)
	}
	return count, nil
}

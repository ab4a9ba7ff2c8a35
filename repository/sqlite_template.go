package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/denizakgul/raporly/database"
	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
)

// sqliteTemplateRepo, TemplateRepository'nin SQLite implementasyonu.
//
// sections kolonu JSON TEXT'tir — repository serialize/deserialize eder,
// service katmanı her zaman []TemplateSection görür.
type sqliteTemplateRepo struct {
	db database.TxQuerier
}

// NewSQLiteTemplateRepo, constructor.
func NewSQLiteTemplateRepo(db database.TxQuerier) TemplateRepository {
	return &sqliteTemplateRepo{db: db}
}

const templateColumns = `id, user_id, name, modality, sections, is_global, is_published, created_at, updated_at`

func (r *sqliteTemplateRepo) Create(ctx context.Context, template *models.Template) error {
	sectionsJSON, err := json.Marshal(template.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal template sections: %w", err)
	}

	query := `
		INSERT INTO templates (id, user_id, name, modality, sections, is_global, is_published)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		template.UserID,
		template.Name,
		template.Modality,
		string(sectionsJSON),
		template.IsGlobal,
		template.IsPublished,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

func (r *sqliteTemplateRepo) GetByID(ctx context.Context, id string) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ?`

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get template by id: %w", err)
	}
	return template, nil
}

func (r *sqliteTemplateRepo) GetVisibleByUser(ctx context.Context, userID string) ([]models.Template, error) {
	// Kişisel şablonlar önce (is_global ASC), sonra isim sırası.
	query := `
		SELECT ` + templateColumns + `
		FROM templates
		WHERE user_id = ? OR (is_global = 1 AND is_published = 1)
		ORDER BY is_global, name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		var sectionsJSON string
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.Modality, &sectionsJSON,
			&t.IsGlobal, &t.IsPublished, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		if err := json.Unmarshal([]byte(sectionsJSON), &t.Sections); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template sections: %w", err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, nil
}

func (r *sqliteTemplateRepo) Update(ctx context.Context, template *models.Template) error {
	sectionsJSON, err := json.Marshal(template.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal template sections: %w", err)
	}

	query := `
		UPDATE templates SET name = ?, modality = ?, sections = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		template.Name, template.Modality, string(sectionsJSON), template.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
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

func (r *sqliteTemplateRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
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

func (r *sqliteTemplateRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	return count, nil
}

// scanTemplate, tek satırlık template sorgusunu model'e çevirir.
func scanTemplate(row *sql.Row) (*models.Template, error) {
	t := &models.Template{}
	var sectionsJSON string
	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Modality, &sectionsJSON,
		&t.IsGlobal, &t.IsPublished, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sectionsJSON), &t.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template sections: %w", err)
	}
	return t, nil
}

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

// sqlitePreferenceRepo, PreferenceRepository'nin SQLite implementasyonu.
type sqlitePreferenceRepo struct {
	db database.TxQuerier
}

// NewSQLitePreferenceRepo, constructor.
func NewSQLitePreferenceRepo(db database.TxQuerier) PreferenceRepository {
	return &sqlitePreferenceRepo{db: db}
}

func (r *sqlitePreferenceRepo) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	query := `
		SELECT user_id, theme, default_template_id, auto_save, yolo_mode, onboarding_completed, updated_at
		FROM preferences WHERE user_id = ?`

	prefs := &models.Preferences{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.Theme, &prefs.DefaultTemplateID,
		&prefs.AutoSave, &prefs.YoloMode, &prefs.OnboardingCompleted, &prefs.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return prefs, nil
}

func (r *sqlitePreferenceRepo) Upsert(ctx context.Context, prefs *models.Preferences) error {
	// ON CONFLICT: SQLite'ın upsert syntax'ı — user_id PK olduğu için
	// kayıt varsa UPDATE, yoksa INSERT olur.
	query := `
		INSERT INTO preferences (user_id, theme, default_template_id, auto_save, yolo_mode, onboarding_completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			theme = excluded.theme,
			default_template_id = excluded.default_template_id,
			auto_save = excluded.auto_save,
			yolo_mode = excluded.yolo_mode,
			onboarding_completed = excluded.onboarding_completed,
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query,
		prefs.UserID, prefs.Theme, prefs.DefaultTemplateID,
		prefs.AutoSave, prefs.YoloMode, prefs.OnboardingCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/denizakgul/raporly/database"
	"github.com/denizakgul/raporly/models"
)

// sqliteAdminRepo, AdminRepository'nin SQLite implementasyonu.
type sqliteAdminRepo struct {
	db database.TxQuerier
}

// NewSQLiteAdminRepo, constructor.
func NewSQLiteAdminRepo(db database.TxQuerier) AdminRepository {
	return &sqliteAdminRepo{db: db}
}

func (r *sqliteAdminRepo) GetStats(ctx context.Context) (*models.PlatformStats, error) {
	// Scalar subquery'ler tek round-trip'te tüm sayıları toplar.
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM templates),
			(SELECT COUNT(*) FROM macros),
			(SELECT COUNT(*) FROM drafts)`

	stats := &models.PlatformStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalUsers, &stats.TotalTemplates, &stats.TotalMacros, &stats.TotalDrafts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}

	return stats, nil
}

func (r *sqliteAdminRepo) ListUsers(ctx context.Context) ([]models.AdminUserListItem, error) {
	// Correlated subquery pattern: her kullanıcı için sayılar tek sorguda.
	// Son aktivite, kullanıcının en güncel oturum kaydından türetilir.
	query := `
		SELECT
			u.id, u.username, u.display_name, u.email, u.is_platform_admin, u.created_at,
			(SELECT MAX(datetime(s.last_activity_ms / 1000, 'unixepoch'))
				FROM sessions s WHERE s.user_id = u.id AND s.last_activity_ms IS NOT NULL),
			(SELECT COUNT(*) FROM templates t WHERE t.user_id = u.id),
			(SELECT COUNT(*) FROM macros m WHERE m.user_id = u.id),
			(SELECT COUNT(*) FROM drafts d WHERE d.user_id = u.id),
			u.stripe_customer_id IS NOT NULL
		FROM users u
		ORDER BY u.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.AdminUserListItem
	for rows.Next() {
		var u models.AdminUserListItem
		if err := rows.Scan(
			&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.IsPlatformAdmin, &u.CreatedAt,
			&u.LastActivity, &u.TemplateCount, &u.MacroCount, &u.DraftCount, &u.HasSubscription,
		); err != nil {
			return nil, fmt.Errorf("failed to scan admin user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin user rows: %w", err)
	}

	return users, nil
}

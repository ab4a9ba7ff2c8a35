package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// SessionRepository, kullanıcı oturumları için interface.
//
// last_activity_ms kolonu inaktivite takibinin kalıcı kaydıdır:
// server restart'ında in-memory takip sıfırlansa bile oturumun
// gerçekten ne zaman aktif olduğu DB'den okunur.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	// UpdateLastActivity, oturumun son aktivite zamanını (epoch ms) yazar.
	UpdateLastActivity(ctx context.Context, id string, activityMS int64) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}

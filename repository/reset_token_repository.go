// Package repository — PasswordResetRepository interface tanımı.
package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// PasswordResetRepository, şifre sıfırlama token'ları için interface.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error

	// GetByTokenHash, SHA256 hash'e göre token kaydını bulur.
	// Bulunamazsa pkg.ErrNotFound döner.
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)

	// MarkUsed, token'ı kullanılmış işaretler — tek kullanımlıktır.
	MarkUsed(ctx context.Context, id string) error

	// DeleteByUserID, bir kullanıcının TÜM reset token'larını siler.
	// Yeni token oluşturmadan önce eskileri temizlemek için.
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired, süresi dolmuş token'ları temizler.
	// Her reset isteğinde fırsat temizliği olarak çağrılır —
	// ayrı bir cron job'a gerek kalmaz.
	DeleteExpired(ctx context.Context) error

	// GetLatestByUserID, kullanıcının en son token'ını döner.
	// Cooldown kontrolü için created_at zamanına bakılır.
	GetLatestByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error)
}

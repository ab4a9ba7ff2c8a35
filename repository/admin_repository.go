package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// AdminRepository, admin paneline özel toplu sorgular için interface.
// Normal CRUD repository'lerinden ayrıdır çünkü birden fazla tabloyu
// tek sorguda kesen raporlama sorguları içerir.
type AdminRepository interface {
	// GetStats, platform geneli sayıları tek sorguda toplar.
	// OnlineUsers alanını doldurmaz — o hub'dan gelir.
	GetStats(ctx context.Context) (*models.PlatformStats, error)
	// ListUsers, kullanıcı satırlarını istatistikleriyle döner.
	ListUsers(ctx context.Context) ([]models.AdminUserListItem, error)
}

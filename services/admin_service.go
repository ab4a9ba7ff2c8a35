package services

import (
	"context"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/repository"
	"github.com/denizakgul/raporly/ws"
)

// AdminService, platform admin paneli için toplu veriler.
// Yetki kontrolü burada YAPILMAZ — middleware.RequirePlatformAdmin
// handler'a gelmeden keser. Service çağrıldıysa çağıran zaten admin'dir.
type AdminService interface {
	GetStats(ctx context.Context) (*models.PlatformStats, error)
	ListUsers(ctx context.Context) ([]models.AdminUserListItem, error)
}

// adminService, AdminService implementasyonu.
type adminService struct {
	adminRepo repository.AdminRepository
	hub       ws.EventPublisher
}

// NewAdminService, constructor.
func NewAdminService(adminRepo repository.AdminRepository, hub ws.EventPublisher) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		hub:       hub,
	}
}

// GetStats, DB sayıları + anlık online kullanıcı sayısını birleştirir.
func (s *adminService) GetStats(ctx context.Context) (*models.PlatformStats, error) {
	stats, err := s.adminRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	stats.OnlineUsers = len(s.hub.GetOnlineUserIDs())
	return stats, nil
}

// ListUsers, kullanıcı satırlarını istatistikleriyle döner.
func (s *adminService) ListUsers(ctx context.Context) ([]models.AdminUserListItem, error) {
	return s.adminRepo.ListUsers(ctx)
}

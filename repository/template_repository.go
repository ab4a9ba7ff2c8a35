package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// TemplateRepository, rapor şablonları için interface.
//
// Görünürlük kuralı: kullanıcı kendi şablonlarını ve yayımlanmış
// global şablonları görür. Listede kişisel şablonlar önce gelir.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	GetByID(ctx context.Context, id string) (*models.Template, error)
	// GetVisibleByUser, kullanıcının kişisel şablonları + yayımlanmış
	// global şablonları döner (kişisel önce, sonra isme göre).
	GetVisibleByUser(ctx context.Context, userID string) ([]models.Template, error)
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

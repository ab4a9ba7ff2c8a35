package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// MacroRepository, dikte makroları için interface.
type MacroRepository interface {
	Create(ctx context.Context, macro *models.Macro) error
	GetByID(ctx context.Context, id string) (*models.Macro, error)
	// GetAllByUser, kullanıcının tüm makrolarını isme göre sıralı döner.
	GetAllByUser(ctx context.Context, userID string) ([]models.Macro, error)
	Update(ctx context.Context, macro *models.Macro) error
	Delete(ctx context.Context, id string) error
	// DetachCategory, kategorideki tüm makroların category_id'sini NULL yapar.
	// Kategori silinirken transaction içinde çağrılır.
	DetachCategory(ctx context.Context, categoryID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

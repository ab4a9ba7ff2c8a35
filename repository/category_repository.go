package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// MacroCategoryRepository, makro kategorileri için interface.
type MacroCategoryRepository interface {
	Create(ctx context.Context, category *models.MacroCategory) error
	GetByID(ctx context.Context, id string) (*models.MacroCategory, error)
	GetAllByUser(ctx context.Context, userID string) ([]models.MacroCategory, error)
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// DraftRepository, taslaklar için interface.
//
// Bu katman content'i olduğu gibi yazar/okur — şifreleme service
// katmanında yapılır, repository ciphertext ile plaintext'i ayırt etmez.
type DraftRepository interface {
	Create(ctx context.Context, draft *models.Draft) error
	GetByID(ctx context.Context, id string) (*models.Draft, error)
	// GetAllByUser, kullanıcının taslaklarını en son güncellenen önce döner.
	GetAllByUser(ctx context.Context, userID string) ([]models.Draft, error)
	Update(ctx context.Context, draft *models.Draft) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

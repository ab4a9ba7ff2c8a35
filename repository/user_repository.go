// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz — repository interface'i üzerinden
// çalışır. Interface sayesinde testlerde fake repository kullanılır ve
// service, concrete struct'a değil soyutlamaya bağımlı olur.
package repository

import (
	"context"

	"github.com/denizakgul/raporly/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
//
// Her method context.Context alır: client bağlantıyı koparırsa context
// iptal olur ve devam eden DB sorgusu da durur.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdatePassword, kullanıcının şifre hash'ini günceller.
	// AuthService.ChangePassword ve ResetPassword tarafından çağrılır.
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error
	// UpdateStripeCustomerID, ilk checkout'ta lazy oluşturulan Stripe
	// customer kaydını kullanıcıya bağlar.
	UpdateStripeCustomerID(ctx context.Context, userID string, customerID string) error
	Count(ctx context.Context) (int, error)
	// Delete, kullanıcıyı siler. FK cascade ile sessions, preferences,
	// macros vb. ilişkili kayıtlar da silinir.
	Delete(ctx context.Context, id string) error
}

package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
)

// fakeUserRepo, repository.UserRepository'nin in-memory hali.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", pkg.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user", pkg.ErrNotFound)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user", pkg.ErrNotFound)
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("%w: user", pkg.ErrNotFound)
	}
	user.PasswordHash = newPasswordHash
	return nil
}

func (r *fakeUserRepo) UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error {
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// fakeResetRepo, repository.PasswordResetRepository'nin in-memory hali.
type fakeResetRepo struct {
	mu     sync.Mutex
	nextID int
	tokens map[string]*models.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = fmt.Sprintf("rt-%d", r.nextID)
	token.CreatedAt = time.Now()
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeResetRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			copied := *token
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: reset token", pkg.ErrNotFound)
}

func (r *fakeResetRepo) MarkUsed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return fmt.Errorf("%w: reset token", pkg.ErrNotFound)
	}
	token.Used = true
	return nil
}

func (r *fakeResetRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeResetRepo) DeleteExpired(ctx context.Context) error { return nil }

func (r *fakeResetRepo) GetLatestByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.PasswordResetToken
	for _, token := range r.tokens {
		if token.UserID != userID {
			continue
		}
		if latest == nil || token.CreatedAt.After(latest.CreatedAt) {
			latest = token
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: reset token", pkg.ErrNotFound)
	}
	copied := *latest
	return &copied, nil
}

// fakeEmailSender, gönderilen email'leri kaydeder.
type fakeEmailSender struct {
	mu   sync.Mutex
	sent []string // token'lar
}

func (s *fakeEmailSender) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, token)
	return nil
}

func TestForgotPassword_ResetTokenExpiresInTwentyMinutes(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		ID:    "u1",
		Email: "doctor@example.com",
	}))
	resetRepo := newFakeResetRepo()
	sender := &fakeEmailSender{}

	svc := NewAuthService(userRepo, newFakeSessionRepo(), resetRepo, sender, "test-secret", 15, 7)

	before := time.Now()
	require.NoError(t, svc.ForgotPassword(context.Background(), "doctor@example.com"))

	record, err := resetRepo.GetLatestByUserID(context.Background(), "u1")
	require.NoError(t, err)

	// Email şablonu "This link will expire in 20 minutes" der — saklanan
	// token'ın ömrü de 20 dakika olmalı.
	ttl := record.ExpiresAt.Sub(before)
	require.InDelta(t, (20 * time.Minute).Seconds(), ttl.Seconds(), 5)
	require.Len(t, sender.sent, 1)
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg/csrf"
	"github.com/denizakgul/raporly/services"
)

// stubAuthService, AuthHandler testleri için no-op AuthService.
type stubAuthService struct{}

func (s *stubAuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*services.AuthTokens, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, req *models.LoginRequest) (*services.AuthTokens, error) {
	return nil, nil
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshToken string) (*services.AuthTokens, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error { return nil }

func (s *stubAuthService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return nil, nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return nil
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, emailAddr string) error { return nil }

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return nil
}

func (s *stubAuthService) RevokeSession(ctx context.Context, sessionID string) error { return nil }

func TestChangePassword_RegeneratesCSRFToken(t *testing.T) {
	store := csrf.NewStore(time.Minute)
	defer store.Close()

	handler := NewAuthHandler(&stubAuthService{}, nil, store, nil, 7)

	sessionID := "sess-1"
	oldToken := store.GetOrCreate(sessionID)

	body := strings.NewReader(`{"current_password":"old-password-1","new_password":"new-password-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/me/password", body)
	ctx := context.WithValue(req.Context(), UserContextKey, &models.User{ID: "u1"})
	ctx = context.WithValue(ctx, SessionIDContextKey, sessionID)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler.ChangePassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, store.Validate(sessionID, oldToken),
		"old csrf token must be invalid after password change")
	require.NotEqual(t, oldToken, store.GetOrCreate(sessionID))
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/denizakgul/raporly/handlers"
	"github.com/denizakgul/raporly/models"
	"github.com/stretchr/testify/require"
)

func adminRequest(t *testing.T, user *models.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	if user != nil {
		ctx := context.WithValue(req.Context(), handlers.UserContextKey, user)
		req = req.WithContext(ctx)
	}
	return req
}

func TestPlatformAdmin_NonAdminGetsForbidden(t *testing.T) {
	mw := NewPlatformAdminMiddleware()
	called := false
	handler := mw.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(t, &models.User{ID: "u1", IsPlatformAdmin: false}))

	require.False(t, called)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "Forbidden", body.Message)
}

func TestPlatformAdmin_AdminPassesThrough(t *testing.T) {
	mw := NewPlatformAdminMiddleware()
	called := false
	handler := mw.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(t, &models.User{ID: "u1", IsPlatformAdmin: true}))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPlatformAdmin_MissingUserGetsUnauthorized(t *testing.T) {
	mw := NewPlatformAdminMiddleware()
	handler := mw.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(t, nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/stretchr/testify/require"
)

// stubSessionRepo, sayfa testleri için minimal SessionRepository.
type stubSessionRepo struct {
	sessions map[string]*models.Session
}

func (r *stubSessionRepo) Create(ctx context.Context, session *models.Session) error { return nil }

func (r *stubSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session", pkg.ErrNotFound)
	}
	return session, nil
}

func (r *stubSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	return nil, fmt.Errorf("%w: session", pkg.ErrNotFound)
}

func (r *stubSessionRepo) UpdateLastActivity(ctx context.Context, id string, activityMS int64) error {
	return nil
}

func (r *stubSessionRepo) DeleteByID(ctx context.Context, id string) error     { return nil }
func (r *stubSessionRepo) DeleteByUserID(ctx context.Context, id string) error { return nil }
func (r *stubSessionRepo) DeleteExpired(ctx context.Context) error             { return nil }

func newPageHandler(sessions map[string]*models.Session) *PageHandler {
	return NewPageHandler(&stubSessionRepo{sessions: sessions})
}

func TestDashboard_RedirectsWithoutSession(t *testing.T) {
	h := newPageHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login?redirect=%2Fdashboard", rec.Header().Get("Location"))
}

func TestDashboard_RedirectsWithUnknownSessionCookie(t *testing.T) {
	h := newPageHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "no-such-session"})
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
}

func TestDashboard_RedirectsWithExpiredSession(t *testing.T) {
	h := newPageHandler(map[string]*models.Session{
		"s1": {ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)},
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
}

func TestDashboard_ServesWithValidSession(t *testing.T) {
	h := newPageHandler(map[string]*models.Session{
		"s1": {ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)},
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dashboard")
}

func TestLogin_AlwaysAccessible(t *testing.T) {
	h := newPageHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

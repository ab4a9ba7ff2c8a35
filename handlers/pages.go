package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/denizakgul/raporly/repository"
)

// PageHandler, tarayıcıya sunulan sayfalar için koruma katmanı.
//
// API'nin aksine burada 401 JSON zarfı dönmeyiz: oturumu olmayan bir
// tarayıcı login sayfasına yönlendirilir ve geldiği adres redirect
// parametresiyle taşınır, giriş sonrası kaldığı yere dönebilsin.
type PageHandler struct {
	sessionRepo repository.SessionRepository
}

// NewPageHandler, constructor.
func NewPageHandler(sessionRepo repository.SessionRepository) *PageHandler {
	return &PageHandler{sessionRepo: sessionRepo}
}

// Login godoc
// GET /login — her zaman erişilebilir.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, loginPage)
}

// Dashboard godoc
// GET /dashboard — geçerli oturum çerezi gerektirir.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !h.hasValidSession(r) {
		http.Redirect(w, r, "/login?redirect="+url.QueryEscape(r.URL.Path), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, dashboardPage)
}

// hasValidSession, session_id çerezini veritabanına karşı doğrular.
func (h *PageHandler) hasValidSession(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	session, err := h.sessionRepo.GetByID(r.Context(), cookie.Value)
	if err != nil {
		return false
	}

	return session.ExpiresAt.After(time.Now())
}

const loginPage = `<!DOCTYPE html>
<html lang="tr">
<head><meta charset="utf-8"><title>Raporly — Giriş</title></head>
<body><div id="root" data-page="login"></div><script src="/assets/app.js"></script></body>
</html>
`

const dashboardPage = `<!DOCTYPE html>
<html lang="tr">
<head><meta charset="utf-8"><title>Raporly — Panel</title></head>
<body><div id="root" data-page="dashboard"></div><script src="/assets/app.js"></script></body>
</html>
`

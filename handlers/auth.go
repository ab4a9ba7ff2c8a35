// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
// Tüm akıl service'de, handler sadece köprü.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/pkg/csrf"
	"github.com/denizakgul/raporly/pkg/ratelimit"
	"github.com/denizakgul/raporly/services"
)

// Cookie adları. Middleware ve testler de kullanır.
const (
	// SessionCookieName, tarayıcı oturumunu taşıyan HttpOnly cookie.
	SessionCookieName = "session_id"
	// ActivityCookieName, son aktivite zamanının (epoch ms) client'a
	// görünür aynası. HttpOnly DEĞİLDİR — frontend geri sayım göstermek
	// için okur. Sunucu tarafı karar asla bu cookie'ye göre verilmez.
	ActivityCookieName = "last_activity"
)

// AuthHandler, auth endpoint'lerini yöneten struct.
// Service interface'leri ve rate limiter constructor'dan alınır (DI).
type AuthHandler struct {
	authService  services.AuthService
	supervisor   services.SessionSupervisor
	csrfStore    *csrf.Store
	loginLimiter *ratelimit.LoginRateLimiter
	cookieMaxAge int // saniye — refresh token ömrü ile aynı
}

// NewAuthHandler, constructor.
// loginLimiter: Login brute-force koruması. nil ise rate limiting devre dışı kalır.
func NewAuthHandler(
	authService services.AuthService,
	supervisor services.SessionSupervisor,
	csrfStore *csrf.Store,
	loginLimiter *ratelimit.LoginRateLimiter,
	refreshExpDays int,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		supervisor:   supervisor,
		csrfStore:    csrfStore,
		loginLimiter: loginLimiter,
		cookieMaxAge: refreshExpDays * 24 * 60 * 60,
	}
}

// Register godoc
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest

	// json.NewDecoder: Request body'yi Go struct'ına parse eder.
	// r.Body bir io.Reader'dır — stream olarak okunur, hepsini belleğe almaz.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.startBrowserSession(w, tokens.SessionID)
	pkg.JSON(w, http.StatusCreated, tokens)
}

// Login godoc
// POST /api/auth/login
//
// Rate limiting: IP bazlı brute-force koruması.
// Limit aşıldığında 429 Too Many Requests döner; başarılı login sayacı
// sıfırlar — meşru kullanıcı bloke olmaz.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	h.startBrowserSession(w, tokens.SessionID)
	pkg.JSON(w, http.StatusOK, tokens)
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "refresh_token": "..." }
//
// Token rotation: eski session düşer, yeni session_id cookie'si yazılır.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tokens, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.startBrowserSession(w, tokens.SessionID)
	pkg.JSON(w, http.StatusOK, tokens)
}

// Logout godoc
// POST /api/auth/logout
// Auth middleware gerektirir.
//
// Oturum DB'den silinir, supervisor takipten çıkarır (CSRF token'ı da
// düşer) ve cookie'ler temizlenir.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := r.Context().Value(SessionIDContextKey).(string)
	if sessionID != "" {
		if err := h.authService.RevokeSession(r.Context(), sessionID); err != nil {
			pkg.Error(w, err)
			return
		}
		h.supervisor.Disarm(sessionID)
	}

	h.clearBrowserSession(w)
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// CSRFToken godoc
// GET /api/auth/csrf
// Auth middleware gerektirir.
//
// Oturumun CSRF token'ını döner. Token oturum boyunca sabittir —
// aynı oturum için tekrar çağrılırsa aynı token gelir. Frontend bunu
// alıp yazma isteklerinde X-CSRF-Token header'ı olarak gönderir.
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := r.Context().Value(SessionIDContextKey).(string)
	if !ok || sessionID == "" {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "session not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"token": h.csrfStore.GetOrCreate(sessionID),
	})
}

// Me godoc
// GET /api/users/me
// Auth middleware gerektirir — context'te user bilgisi olur.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// ChangePassword godoc
// POST /api/users/me/password
// Body: { "current_password": "...", "new_password": "..." }
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.ChangePasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		pkg.Error(w, err)
		return
	}

	// Hassas operasyon sonrası CSRF token yenilenir — parola değişmeden
	// önce ele geçirilmiş bir token bu noktadan sonra işe yaramaz.
	// Client /api/auth/csrf'den yeni token'ı çeker.
	if sessionID, ok := r.Context().Value(SessionIDContextKey).(string); ok && sessionID != "" {
		h.csrfStore.Regenerate(sessionID)
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// ForgotPassword godoc
// POST /api/auth/forgot-password
// Body: { "email": "..." }
//
// Güvenlik: Email DB'de yoksa bile aynı success yanıtı döner
// (enumeration koruması). Cooldown aşımı da aynı yanıtı üretir.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "if the email exists, a reset link has been sent",
	})
}

// ResetPassword godoc
// POST /api/auth/reset-password
// Body: { "token": "...", "new_password": "..." }
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "password has been reset successfully",
	})
}

// ─── Cookie Helpers ───

// startBrowserSession, oturum cookie'sini yazar.
// HttpOnly: JS okuyamaz — XSS ile çalınamaz.
// SameSite=Lax: cross-site POST'larda gönderilmez; CSRF'in ilk savunma hattı.
// İkinci hat middleware.RequireCSRF'tir.
func (h *AuthHandler) startBrowserSession(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearBrowserSession, oturum ve aktivite cookie'lerini düşürür.
func (h *AuthHandler) clearBrowserSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:    ActivityCookieName,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}

// ─── Context Keys ───

// contextKey, context.Value çakışmalarını önleyen özel tip.
// String key kullanmak paketler arası collision'a neden olabilir.
type contextKey string

// UserContextKey, context'te kullanıcı bilgisi taşıyan key.
// AuthMiddleware tarafından eklenir, *models.User taşır.
const UserContextKey contextKey = "user"

// SessionIDContextKey, isteğin ait olduğu oturum ID'sini taşıyan key.
const SessionIDContextKey contextKey = "session_id"

// AuthSourceContextKey, isteğin nasıl doğrulandığını taşıyan key:
// "bearer" (Authorization header) veya "cookie" (session_id cookie).
// CSRF middleware'ı sadece cookie-auth isteklerde token arar.
const AuthSourceContextKey contextKey = "auth_source"

// Auth source değerleri.
const (
	AuthSourceBearer = "bearer"
	AuthSourceCookie = "cookie"
)

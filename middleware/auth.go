// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware Pattern nedir?
// Her HTTP request, handler'a ulaşmadan önce bir veya daha fazla middleware'dan geçer.
// Middleware'lar zincir şeklinde çalışır: Auth → CSRF → Activity → Handler
//
// Go'da middleware bir fonksiyondur:
//   func(next http.Handler) http.Handler
//
// "next" parametresi zincirdeki bir sonraki handler'dır.
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Eğer hata varsa next'i çağırmaz → request burada durur.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/denizakgul/raporly/handlers"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/repository"
	"github.com/denizakgul/raporly/services"
)

// AuthMiddleware, kimlik doğrulama middleware'ı.
//
// İki doğrulama yolu destekler:
//   - Bearer token (Authorization header): API client'ları ve fetch çağrıları.
//     JWT imzası doğrulanır, DB'ye session sorgusu gerekmez.
//   - session_id cookie: tarayıcının sayfa istekleri. Cookie'deki ID ile
//     session DB'den okunur — revoke edilmiş oturum anında düşer.
//
// Bearer önce denenir: header varsa cookie'ye hiç bakılmaz.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(
	authService services.AuthService,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// Require, kimlik doğrulama zorunlu kılan middleware.
// İki yol da başarısızsa → 401 Unauthorized, next ÇAĞRILMAZ.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Bearer token yolu
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := m.authService.ValidateAccessToken(tokenString)
			if err != nil {
				pkg.Error(w, err)
				return
			}

			m.proceed(w, r, next, claims.UserID, claims.SessionID, handlers.AuthSourceBearer)
			return
		}

		// 2. Cookie yolu
		cookie, err := r.Cookie(handlers.SessionCookieName)
		if err != nil || cookie.Value == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		session, err := m.sessionRepo.GetByID(r.Context(), cookie.Value)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid session")
			return
		}
		if time.Now().After(session.ExpiresAt) {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "session expired")
			return
		}

		m.proceed(w, r, next, session.UserID, session.ID, handlers.AuthSourceCookie)
	})
}

// proceed, kullanıcıyı DB'den yükler ve context'i doldurup zinciri sürdürür.
func (m *AuthMiddleware) proceed(w http.ResponseWriter, r *http.Request, next http.Handler, userID, sessionID, source string) {
	// Token/cookie geçerli ama kullanıcı silinmiş olabilir.
	user, err := m.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
		return
	}

	// Password hash'i temizle — context'te taşınmamalı
	user.PasswordHash = ""

	ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
	ctx = context.WithValue(ctx, handlers.SessionIDContextKey, sessionID)
	ctx = context.WithValue(ctx, handlers.AuthSourceContextKey, source)
	next.ServeHTTP(w, r.WithContext(ctx))
}

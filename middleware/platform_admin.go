// Package middleware — PlatformAdminMiddleware, platform admin yetkisi kontrolü.
//
// AuthMiddleware'dan SONRA çalışır — context'te user bilgisi mevcuttur.
// User struct'taki IsPlatformAdmin alanını kontrol eder.
// false ise → 403 Forbidden.
//
// Kullanım:
//
//	authMw.Require(adminMw.Require(http.HandlerFunc(adminHandler.Stats)))
package middleware

import (
	"net/http"

	"github.com/denizakgul/raporly/handlers"
	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg"
)

// PlatformAdminMiddleware, platform admin yetkisi zorunlu kılan middleware.
type PlatformAdminMiddleware struct{}

// NewPlatformAdminMiddleware, constructor.
func NewPlatformAdminMiddleware() *PlatformAdminMiddleware {
	return &PlatformAdminMiddleware{}
}

// Require, platform admin yetkisi zorunlu kılan middleware.
// Context'teki User'ın IsPlatformAdmin alanı false ise → 403.
// Mesaj kasıtlı olarak kısa: admin endpoint'lerinin varlığı hakkında
// detay sızdırılmaz.
func (m *PlatformAdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !user.IsPlatformAdmin {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Package middleware — CSRFMiddleware, cross-site request forgery koruması.
//
// AuthMiddleware'dan SONRA çalışır — context'te auth source mevcuttur.
//
// Neden sadece cookie-auth isteklerde?
// CSRF saldırısı, tarayıcının cookie'leri OTOMATIK göndermesini istismar
// eder: saldırgan sitesi kurbanın tarayıcısına bizim API'ye POST attırır,
// session_id cookie'si istemsizce gider. Bearer token ise JS tarafından
// elle header'a konur — saldırgan sitesi token'ı bilemez, dolayısıyla
// Bearer istekler doğası gereği CSRF'e kapalıdır.
//
// GET/HEAD/OPTIONS muaftır: safe method'lar state değiştirmez ve CSRF
// token'ının kendisi GET /api/auth/csrf ile alınır — o endpoint token
// isteseydi kimse ilk token'ı alamazdı.
package middleware

import (
	"net/http"

	"github.com/denizakgul/raporly/handlers"
	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/pkg/csrf"
)

// CSRFHeaderName, token'ın beklendiği HTTP header'ı.
const CSRFHeaderName = "X-CSRF-Token"

// CSRFMiddleware, yazma isteklerinde CSRF token doğrulayan middleware.
type CSRFMiddleware struct {
	store *csrf.Store
}

// NewCSRFMiddleware, constructor.
func NewCSRFMiddleware(store *csrf.Store) *CSRFMiddleware {
	return &CSRFMiddleware{store: store}
}

// Require, cookie-auth yazma isteklerinde geçerli CSRF token zorunlu kılar.
func (m *CSRFMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		source, _ := r.Context().Value(handlers.AuthSourceContextKey).(string)
		if source != handlers.AuthSourceCookie {
			next.ServeHTTP(w, r)
			return
		}

		sessionID, _ := r.Context().Value(handlers.SessionIDContextKey).(string)
		if !m.store.Validate(sessionID, r.Header.Get(CSRFHeaderName)) {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "invalid csrf token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Package middleware — ActivityMiddleware, her doğrulanmış isteği
// kullanıcı aktivitesi olarak işler.
//
// AuthMiddleware'dan SONRA çalışır — context'te user ve session mevcuttur.
// Her istek session supervisor'a bildirilir (timer sıfırlanır) ve son
// aktivite zamanı last_activity cookie'si olarak client'a aynalanır.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/denizakgul/raporly/handlers"
	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/services"
)

// ActivityMiddleware, istek bazlı aktivite takibi.
type ActivityMiddleware struct {
	supervisor services.SessionSupervisor
	timeout    time.Duration
}

// NewActivityMiddleware, constructor.
// timeout, cookie MaxAge'i için kullanılır — cookie oturum penceresi
// kadar yaşar, pencere dolunca tarayıcı cookie'yi kendisi düşürür.
func NewActivityMiddleware(supervisor services.SessionSupervisor, timeout time.Duration) *ActivityMiddleware {
	return &ActivityMiddleware{
		supervisor: supervisor,
		timeout:    timeout,
	}
}

// Track, isteği aktivite olarak kaydeder ve zinciri sürdürür.
//
// Aktivite kaydı isteği BLOKLAMAZ: supervisor çağrısı hata dönmez,
// cookie yazması başarısız olamaz. Middleware'ın tek koşulu context'te
// session olmasıdır — yoksa (auth'suz route'a yanlışlıkla takıldıysa)
// sessizce geçer.
func (m *ActivityMiddleware) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, _ := r.Context().Value(handlers.SessionIDContextKey).(string)
		if sessionID != "" {
			var userID string
			if user, ok := r.Context().Value(handlers.UserContextKey).(*models.User); ok {
				userID = user.ID
			}
			m.supervisor.RecordActivity(r.Context(), userID, sessionID)

			// Client'a görünür ayna — frontend inaktivite geri sayımını
			// bu değerden hesaplar. HttpOnly değil, kasıtlı.
			http.SetCookie(w, &http.Cookie{
				Name:     handlers.ActivityCookieName,
				Value:    fmt.Sprintf("%d", time.Now().UnixMilli()),
				Path:     "/",
				MaxAge:   int(m.timeout.Seconds()),
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r)
	})
}

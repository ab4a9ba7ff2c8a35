package models

import "time"

// Session, bir kullanıcı oturumunu temsil eder.
//
// Refresh token'ları DB'de tutarak:
//   - Çalınan token'ı iptal edebiliriz (revoke)
//   - Kullanıcının tüm oturumlarını görebiliriz
//   - Logout'ta sadece ilgili oturumu silebiliriz
//
// LastActivityMS, oturumdaki son kullanıcı aktivitesinin epoch milisaniye
// zamanıdır. nil = henüz aktivite kaydı yok, oturum taze sayılır.
// Inaktivite zaman aşımı bu alan üzerinden hesaplanır.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	RefreshToken   string    `json:"-"` // API'ye gönderilmez
	LastActivityMS *int64    `json:"last_activity_ms,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}

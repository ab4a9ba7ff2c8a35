package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT access token'ın payload'ı.
//
// SessionID de claim olarak taşınır: CSRF token'ları ve inaktivite
// takibi oturum bazında tutulduğu için her istekte hangi oturumun
// konuşulduğunu DB'ye gitmeden bilmemiz gerekir.
//
// Bu struct models paketinde tanımlanır çünkü birden fazla katman
// (services, ws, middleware) tarafından kullanılır — circular
// dependency'yi önler.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi
// taşırız — hangi ayarın nereden geldiği tek dosyadan okunur.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Session  SessionConfig
	Upload   UploadConfig
	AI       AIConfig
	Stripe   StripeConfig
	Email    EmailConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host      string
	Port      int
	PublicURL string // E-posta linkleri ve Stripe redirect'leri için (ör: https://raporly.app)
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/raporly.db)
	// DraftKey, taslak içeriğinin at-rest şifrelemesi için 64 karakterlik
	// hex anahtar (32 byte → AES-256). Boşsa taslaklar plaintext yazılır.
	DraftKey string
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// SessionConfig, oturum zaman aşımı ayarları.
// Timeout, son aktiviteden oturumun düşmesine kadar geçen süre;
// Warning, düşmeden ne kadar önce kullanıcıya uyarı gönderileceği.
type SessionConfig struct {
	Timeout time.Duration // Varsayılan: 30 dakika
	Warning time.Duration // Varsayılan: 5 dakika
}

// UploadConfig, ses dosyası yükleme ayarları.
type UploadConfig struct {
	MaxSize int64 // Byte cinsinden max dosya boyutu (varsayılan: 25MB)
}

// AIConfig, Gemini API ayarları.
type AIConfig struct {
	GeminiAPIKey       string
	GenerationModel    string // Rapor ve şablon üretimi için
	TranscriptionModel string // Ses transkripti için
}

// StripeConfig, ödeme/abonelik ayarları.
type StripeConfig struct {
	SecretKey string
	PriceID   string // Abonelik planının Stripe price ID'si
}

// EmailConfig, Resend üzerinden e-posta gönderim ayarları.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// Dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	timeoutMin, err := strconv.Atoi(getEnv("SESSION_TIMEOUT_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TIMEOUT_MINUTES: %w", err)
	}

	warningMin, err := strconv.Atoi(getEnv("SESSION_WARNING_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_WARNING_MINUTES: %w", err)
	}
	if warningMin >= timeoutMin {
		return nil, fmt.Errorf("SESSION_WARNING_MINUTES must be smaller than SESSION_TIMEOUT_MINUTES")
	}

	maxSize, err := strconv.ParseInt(getEnv("UPLOAD_MAX_SIZE", "26214400"), 10, 64) // 25MB
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "0.0.0.0"),
			Port:      port,
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:9090"),
		},
		Database: DatabaseConfig{
			Path:     getEnv("DATABASE_PATH", "./data/raporly.db"),
			DraftKey: getEnv("DRAFT_ENCRYPTION_KEY", ""),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Session: SessionConfig{
			Timeout: time.Duration(timeoutMin) * time.Minute,
			Warning: time.Duration(warningMin) * time.Minute,
		},
		Upload: UploadConfig{
			MaxSize: maxSize,
		},
		AI: AIConfig{
			GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
			GenerationModel:    getEnv("GEMINI_GENERATION_MODEL", "gemini-2.0-flash"),
			TranscriptionModel: getEnv("GEMINI_TRANSCRIPTION_MODEL", "gemini-2.0-flash"),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			PriceID:   getEnv("STRIPE_PRICE_ID", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("EMAIL_FROM", "Raporly <noreply@raporly.app>"),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

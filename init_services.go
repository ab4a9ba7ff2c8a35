// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
//
// ÖNEMLİ sıralama kuralları:
// 1. authService → supervisor'dan ÖNCE (SessionRevoker olarak enjekte edilir)
// 2. tracker → supervisor'dan ÖNCE (aktivite kaynağı)
// 3. supervisor → Hub callback'lerinden ÖNCE (registerHubCallbacks'te bağlanır)
package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/denizakgul/raporly/config"
	"github.com/denizakgul/raporly/pkg/csrf"
	"github.com/denizakgul/raporly/pkg/email"
	"github.com/denizakgul/raporly/pkg/ratelimit"
	"github.com/denizakgul/raporly/services"
	"github.com/denizakgul/raporly/ws"
	"google.golang.org/genai"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth          services.AuthService
	Tracker       services.ActivityTracker
	Supervisor    services.SessionSupervisor
	Preference    services.PreferenceService
	Macro         services.MacroService
	Template      services.TemplateService
	Generation    services.GenerationService
	Transcription services.TranscriptionService
	Draft         services.DraftService
	Billing       services.BillingService
	Admin         services.AdminService
}

// RateLimiters, tüm rate limiter instance'larını tutan container.
type RateLimiters struct {
	Login      *ratelimit.LoginRateLimiter
	Generation *ratelimit.GenerationRateLimiter
}

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
//
// Sıralama kritiktir — bkz. dosya başı yorum.
// genaiClient, API anahtarı yoksa nil'dir; AI service'ler nil client ile
// çalışmaya devam eder ve ilgili endpoint'ler yapılandırma hatası döner.
func initServices(
	db *sql.DB,
	repos *Repositories,
	hub *ws.Hub,
	csrfStore *csrf.Store,
	genaiClient *genai.Client,
	cfg *config.Config,
) (*Services, *RateLimiters, error) {
	// ─── Email service (opsiyonel) ───
	var emailSender email.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		emailSender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Server.PublicURL)
		log.Printf("[main] email service enabled (from=%s)", cfg.Email.FromEmail)
	} else {
		log.Println("[main] email service disabled (RESEND_API_KEY not set)")
	}

	// ─── Sıralama-kritik service'ler ───

	authService := services.NewAuthService(
		repos.User, repos.Session, repos.ResetToken, emailSender,
		cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
	)

	// Tracker, aktivite zaman damgalarını bellekte tutar; restart sonrası
	// DB'deki last_activity_ms kolonundan toparlar.
	tracker := services.NewActivityTracker(repos.Session, cfg.Session.Timeout)

	// Supervisor — authService'i SessionRevoker, hub'ı hem EventPublisher
	// hem SessionDisconnector olarak kullanır.
	supervisor := services.NewSessionSupervisor(
		tracker, authService, hub, hub, csrfStore,
		cfg.Session.Timeout, cfg.Session.Warning,
	)

	// ─── Rate Limiters ───
	loginLimiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)
	generationLimiter := ratelimit.NewGenerationRateLimiter(10, time.Minute, 30*time.Second)

	// ─── Diğer service'ler (sıralama bağımsız) ───
	preferenceService := services.NewPreferenceService(repos.Preference, hub)
	macroService := services.NewMacroService(db, repos.Macro, repos.MacroCategory)
	templateService := services.NewTemplateService(repos.Template, genaiClient, cfg.AI.GenerationModel)
	generationService := services.NewGenerationService(genaiClient, cfg.AI.GenerationModel, repos.Template, generationLimiter)
	transcriptionService := services.NewTranscriptionService(genaiClient, cfg.AI.TranscriptionModel)
	billingService := services.NewBillingService(repos.User, cfg.Stripe.SecretKey, cfg.Stripe.PriceID, cfg.Server.PublicURL)
	adminService := services.NewAdminService(repos.Admin, hub)

	draftService, err := services.NewDraftService(repos.Draft, cfg.Database.DraftKey)
	if err != nil {
		return nil, nil, err
	}

	svcs := &Services{
		Auth:          authService,
		Tracker:       tracker,
		Supervisor:    supervisor,
		Preference:    preferenceService,
		Macro:         macroService,
		Template:      templateService,
		Generation:    generationService,
		Transcription: transcriptionService,
		Draft:         draftService,
		Billing:       billingService,
		Admin:         adminService,
	}

	limiters := &RateLimiters{
		Login:      loginLimiter,
		Generation: generationLimiter,
	}

	return svcs, limiters, nil
}

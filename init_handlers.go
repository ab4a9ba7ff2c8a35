// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Her handler, ihtiyaç duyduğu service interface'lerini constructor'dan alır.
// Handler'lar "thin" dir — sadece HTTP parse + service call + response write.
package main

import (
	"github.com/denizakgul/raporly/config"
	"github.com/denizakgul/raporly/handlers"
	"github.com/denizakgul/raporly/pkg/csrf"
	"github.com/denizakgul/raporly/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Preference *handlers.PreferenceHandler
	Macro      *handlers.MacroHandler
	Template   *handlers.TemplateHandler
	Generate   *handlers.GenerateHandler
	Transcribe *handlers.TranscribeHandler
	Draft      *handlers.DraftHandler
	Billing    *handlers.BillingHandler
	Admin      *handlers.AdminHandler
	Pages      *handlers.PageHandler
	WS         *ws.Handler
}

// initHandlers, tüm handler'ları service ve rate limiter dependency'leri ile oluşturur.
func initHandlers(
	svcs *Services,
	repos *Repositories,
	limiters *RateLimiters,
	hub *ws.Hub,
	csrfStore *csrf.Store,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Auth:       handlers.NewAuthHandler(svcs.Auth, svcs.Supervisor, csrfStore, limiters.Login, cfg.JWT.RefreshTokenExpiry),
		Preference: handlers.NewPreferenceHandler(svcs.Preference),
		Macro:      handlers.NewMacroHandler(svcs.Macro),
		Template:   handlers.NewTemplateHandler(svcs.Template),
		Generate:   handlers.NewGenerateHandler(svcs.Generation),
		Transcribe: handlers.NewTranscribeHandler(svcs.Transcription, cfg.Upload.MaxSize),
		Draft:      handlers.NewDraftHandler(svcs.Draft),
		Billing:    handlers.NewBillingHandler(svcs.Billing),
		Admin:      handlers.NewAdminHandler(svcs.Admin),
		Pages:      handlers.NewPageHandler(repos.Session),
		WS:         ws.NewHandler(hub, svcs.Auth),
	}
}

// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: kimlik doğrulama (Bearer veya session çerezi) + CSRF + aktivite takibi
//   - authAdmin: auth + platform admin yetkisi
package main

import (
	"net/http"

	"github.com/denizakgul/raporly/config"
	"github.com/denizakgul/raporly/middleware"
	"github.com/denizakgul/raporly/pkg/csrf"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerden önce
// okunur ("/api/templates/generate" ile "/api/templates/{templateId}"
// çakışmasında Go router en spesifik pattern'i seçer), yine de okunabilirlik
// için literal'leri üstte tutuyoruz.
//
// Middleware sırası bilinçlidir: önce kimlik (kim olduğunu bilmeden CSRF
// kontrolü yapılamaz), sonra CSRF (yetkisiz istek aktivite saymamalı),
// en son aktivite takibi (bu noktaya gelen her istek gerçek bir kullanıcı
// etkileşimidir).
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	svcs *Services,
	repos *Repositories,
	csrfStore *csrf.Store,
	cfg *config.Config,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(svcs.Auth, repos.User, repos.Session)
	csrfMw := middleware.NewCSRFMiddleware(csrfStore)
	activityMw := middleware.NewActivityMiddleware(svcs.Supervisor, cfg.Session.Timeout)
	platformAdminMw := middleware.NewPlatformAdminMiddleware()

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(csrfMw.Require(activityMw.Track(http.HandlerFunc(handler))))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(csrfMw.Require(activityMw.Track(
			platformAdminMw.Require(http.HandlerFunc(handler)))))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"raporly"}`))
	})

	// Auth — public endpoint'ler (token gerekmez)
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)

	// Auth — korumalı
	mux.Handle("POST /api/auth/logout", auth(h.Auth.Logout))
	mux.Handle("GET /api/auth/csrf", auth(h.Auth.CSRFToken))

	// User
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))
	mux.Handle("POST /api/users/me/password", auth(h.Auth.ChangePassword))

	// Preferences
	mux.Handle("GET /api/preferences", auth(h.Preference.Get))
	mux.Handle("PUT /api/preferences", auth(h.Preference.Update))

	// Macros — literal path'ler ({macroId}'den önce)
	mux.Handle("POST /api/macros/expand", auth(h.Macro.Expand))
	mux.Handle("GET /api/macros/categories", auth(h.Macro.ListCategories))
	mux.Handle("POST /api/macros/categories", auth(h.Macro.CreateCategory))
	mux.Handle("DELETE /api/macros/categories/{categoryId}", auth(h.Macro.DeleteCategory))
	mux.Handle("GET /api/macros", auth(h.Macro.List))
	mux.Handle("POST /api/macros", auth(h.Macro.Create))
	mux.Handle("PUT /api/macros/{macroId}", auth(h.Macro.Update))
	mux.Handle("DELETE /api/macros/{macroId}", auth(h.Macro.Delete))

	// Templates — "generate" literal'i {templateId}'den önce
	mux.Handle("POST /api/templates/generate", auth(h.Template.Generate))
	mux.Handle("POST /api/templates/clone", auth(h.Template.Clone))
	mux.Handle("GET /api/templates", auth(h.Template.List))
	mux.Handle("POST /api/templates", auth(h.Template.Create))
	mux.Handle("GET /api/templates/{templateId}", auth(h.Template.Get))
	mux.Handle("PUT /api/templates/{templateId}", auth(h.Template.Update))
	mux.Handle("DELETE /api/templates/{templateId}", auth(h.Template.Delete))

	// Report generation — SSE stream
	mux.Handle("POST /api/generate", auth(h.Generate.Generate))

	// Transcription
	mux.Handle("POST /api/transcribe", auth(h.Transcribe.Transcribe))

	// Drafts
	mux.Handle("GET /api/drafts", auth(h.Draft.List))
	mux.Handle("POST /api/drafts", auth(h.Draft.Create))
	mux.Handle("GET /api/drafts/{draftId}", auth(h.Draft.Get))
	mux.Handle("PUT /api/drafts/{draftId}", auth(h.Draft.Update))
	mux.Handle("DELETE /api/drafts/{draftId}", auth(h.Draft.Delete))

	// Billing
	mux.Handle("POST /api/billing/checkout", auth(h.Billing.CreateCheckout))
	mux.Handle("POST /api/billing/portal", auth(h.Billing.CreatePortal))
	mux.Handle("GET /api/billing/invoices", auth(h.Billing.ListInvoices))

	// Platform Admin
	mux.Handle("GET /api/admin/stats", authAdmin(h.Admin.GetStats))
	mux.Handle("GET /api/admin/users", authAdmin(h.Admin.ListUsers))

	// Pages — tarayıcı sayfaları, API middleware'i kullanmaz.
	// Dashboard kendi içinde session çerezi doğrular ve login'e yönlendirir.
	mux.HandleFunc("GET /login", h.Pages.Login)
	mux.HandleFunc("GET /dashboard", h.Pages.Dashboard)

	// WebSocket — token query parameter ile authenticate edilir
	//
	// Neden auth middleware kullanmıyoruz?
	// WebSocket upgrade sırasında tarayıcılar custom HTTP header gönderemez.
	// Bu yüzden JWT token URL query parameter olarak gönderilir:
	//   ws://server/ws?token=JWT_TOKEN
	// WS handler kendi içinde token doğrulaması yapar.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}

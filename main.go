// Package main, raporly backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//   1.  Config'i yükle
//   2.  Database'i başlat (embedded migration'lar ile)
//   3.  Repository'leri oluştur (DB bağlantısı ile)
//   4.  CSRF store ve WebSocket Hub'ı başlat
//   5.  Gemini client'ını oluştur (API anahtarı varsa)
//   6.  Service'leri oluştur (repository'ler + hub ile)
//   7.  Hub callback'lerini supervisor'a bağla
//   8.  Handler'ları oluştur (service'ler ile)
//   9.  HTTP router'ı kur, route'ları bağla
//  10.  CORS yapılandır
//  11.  HTTP Server'ı başlat
//  12.  Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/denizakgul/raporly/config"
	"github.com/denizakgul/raporly/database"
	"github.com/denizakgul/raporly/pkg/csrf"
	"github.com/denizakgul/raporly/ws"
	"github.com/rs/cors"
	"google.golang.org/genai"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] raporly server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	db, err := database.New(cfg.Database.Path, database.EmbeddedMigrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 4. CSRF Store + WebSocket Hub ───
	//
	// CSRF token ömrü refresh token ile aynı — oturum yaşadığı sürece
	// token sabit kalır, böylece client token'ı bir kere alıp saklayabilir.
	csrfStore := csrf.NewStore(time.Duration(cfg.JWT.RefreshTokenExpiry) * 24 * time.Hour)

	// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
	// `go hub.Run()` ayrı bir goroutine'de event loop başlatır:
	// register/unregister channel'larını dinler ve client map'ini günceller.
	// Hub aynı zamanda EventPublisher interface'ini implement eder —
	// service'ler hub'a doğrudan bağımlı olmak yerine interface üzerinden erişir.
	hub := ws.NewHub()

	// ─── 5. Gemini Client (opsiyonel) ───
	//
	// API anahtarı yoksa client nil kalır; AI destekli endpoint'ler
	// (rapor üretimi, transkript, şablon üretimi) yapılandırma hatası
	// döner ama uygulamanın geri kalanı normal çalışır.
	var genaiClient *genai.Client
	if cfg.AI.GeminiAPIKey != "" {
		genaiClient, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.AI.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Fatalf("[main] failed to create gemini client: %v", err)
		}
		log.Printf("[main] ai features enabled (model=%s)", cfg.AI.GenerationModel)
	} else {
		log.Println("[main] ai features disabled (GEMINI_API_KEY not set)")
	}

	// ─── 6. Service Layer ───
	svcs, limiters, err := initServices(db.Conn, repos, hub, csrfStore, genaiClient, cfg)
	if err != nil {
		log.Fatalf("[main] failed to initialize services: %v", err)
	}

	// ─── 7. Hub Callbacks ───
	registerHubCallbacks(hub, svcs.Supervisor)
	go hub.Run()

	// ─── 8. Handler Layer ───
	h := initHandlers(svcs, repos, limiters, hub, csrfStore, cfg)

	// ─── 9. HTTP Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs, repos, csrfStore, cfg)

	// ─── 10. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Vite dev server
			cfg.Server.PublicURL,
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            false,
	})

	handler := corsHandler.Handler(mux)

	// ─── 11. HTTP Server ───
	srv := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// WriteTimeout bilinçli olarak uzun: /api/generate SSE akışı
		// dakikalar sürebilir, kısa bir WriteTimeout akışı ortadan keser.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 12. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce supervisor timer'ları durdurulur — shutdown sırasında sahte
	// "session expired" broadcast'leri gitmesin. Sonra WebSocket
	// bağlantıları kapatılır, en son HTTP server durdurulur (mevcut
	// request'lerin bitmesi için 5sn timeout).
	svcs.Supervisor.Shutdown()
	hub.Shutdown()
	csrfStore.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}

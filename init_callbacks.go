// Package main — WebSocket Hub callback wire-up.
//
// registerHubCallbacks, Hub'ın aktivite ve bağlantı callback'lerini ayarlar.
//
// Bu callback'ler neden burada (main package'da)?
// Hub ws paketinde yaşıyor, ama oturum takibi service katmanında.
// Hub'ın service'lere bağımlı olmasını istemiyoruz (Dependency Inversion).
// main package wire-up noktasıdır — tüm katmanları birbirine bağlar.
//
// Callback'ler Hub.Run() goroutine'inden ayrı goroutine'de çalışır
// (addClient/handleActivity içinde `go callback()` ile çağrılır),
// böylece Hub'ın mutex'i ile supervisor'ın timer'ları çakışmaz.
package main

import (
	"context"
	"log"

	"github.com/denizakgul/raporly/services"
	"github.com/denizakgul/raporly/ws"
)

// registerHubCallbacks, tüm Hub callback'lerini register eder.
//
// - onConnect: yeni WebSocket bağlantısı açıldığında oturum takibe alınır.
//   Sunucu restart'ından sonra bile çalışır — tracker DB fallback'i ile
//   son aktiviteyi bulur, supervisor kalan süreye göre timer kurar.
// - onActivity: client bir kullanıcı etkileşimi bildirdiğinde (click,
//   keydown vs.) supervisor'a iletilir. Supervisor zaman damgasını
//   kaydeder ve timeout penceresini baştan başlatır. Bu aynı zamanda
//   cross-tab senkronizasyonun temelidir: hangi sekme aktivite üretirse
//   üretsin pencere hepsinin adına yenilenir.
func registerHubCallbacks(hub *ws.Hub, supervisor services.SessionSupervisor) {
	hub.SetOnConnect(func(userID, sessionID string) {
		supervisor.Arm(userID, sessionID)
		log.Printf("[session] session %s armed for user %s", sessionID, userID)
	})

	hub.SetOnActivity(func(userID, sessionID, kind string) {
		supervisor.RecordActivity(context.Background(), userID, sessionID)
	})
}

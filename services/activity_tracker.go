package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/denizakgul/raporly/pkg"
	"github.com/denizakgul/raporly/repository"
)

// ActivityTracker, oturum başına son kullanıcı aktivitesini takip eder.
//
// İki katmanlı kayıt:
//   - In-memory map: sıcak yol. Her HTTP isteği ve WS activity event'i
//     buraya yazar, expiry kontrolü buradan okur.
//   - sessions.last_activity_ms kolonu: kalıcı kayıt. Server restart'ında
//     in-memory map boşalır ama DB'deki değer ayakta kalır.
//
// Zaman epoch milisaniye olarak tutulur — frontend'in Date.now() değeri
// ile aynı birim, karşılaştırmalar dönüşümsüz yapılır.
type ActivityTracker interface {
	// Record, oturumun son aktivite zamanını şimdi olarak işaretler.
	Record(ctx context.Context, sessionID string)
	// Last, oturumun son aktivite zamanını (epoch ms) döner.
	// Kayıt yoksa ok=false döner — oturum taze sayılır.
	Last(ctx context.Context, sessionID string) (int64, bool)
	// IsExpired, oturumun inaktivite penceresini aşıp aşmadığını söyler.
	// Hiç kayıt yoksa false döner: yeni oturum expired başlatılamaz.
	IsExpired(ctx context.Context, sessionID string) bool
	// Clear, oturumun aktivite kaydını düşürür (logout/expiry sonrası).
	Clear(sessionID string)
}

// activityTracker, ActivityTracker implementasyonu.
type activityTracker struct {
	sessionRepo repository.SessionRepository
	timeout     time.Duration

	mu   sync.RWMutex
	last map[string]int64 // sessionID → epoch ms

	// now, test edilebilirlik için enjekte edilir — testler sahte saat verir.
	now func() time.Time
}

// NewActivityTracker, constructor.
func NewActivityTracker(sessionRepo repository.SessionRepository, timeout time.Duration) ActivityTracker {
	return &activityTracker{
		sessionRepo: sessionRepo,
		timeout:     timeout,
		last:        make(map[string]int64),
		now:         time.Now,
	}
}

// Record, aktiviteyi önce in-memory işaretler, sonra DB'ye yazar.
//
// DB yazması best-effort'tur: SQLite geçici olarak kilitliyse bile
// kullanıcının oturumu haksız yere sonlanmamalı — in-memory kayıt
// expiry hesabı için yeterlidir.
func (t *activityTracker) Record(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}

	ms := t.now().UnixMilli()

	t.mu.Lock()
	t.last[sessionID] = ms
	t.mu.Unlock()

	if err := t.sessionRepo.UpdateLastActivity(ctx, sessionID, ms); err != nil {
		if !errors.Is(err, pkg.ErrNotFound) {
			log.Printf("[activity] failed to persist last activity for session %s: %v", sessionID, err)
		}
	}
}

// Last, in-memory kaydı döner; yoksa DB'ye düşer (restart senaryosu).
func (t *activityTracker) Last(ctx context.Context, sessionID string) (int64, bool) {
	t.mu.RLock()
	ms, ok := t.last[sessionID]
	t.mu.RUnlock()
	if ok {
		return ms, true
	}

	session, err := t.sessionRepo.GetByID(ctx, sessionID)
	if err != nil || session.LastActivityMS == nil {
		return 0, false
	}

	// DB'den okunan değeri sıcak yola al.
	t.mu.Lock()
	t.last[sessionID] = *session.LastActivityMS
	t.mu.Unlock()

	return *session.LastActivityMS, true
}

// IsExpired, son aktiviteden bu yana timeout geçip geçmediğini söyler.
func (t *activityTracker) IsExpired(ctx context.Context, sessionID string) bool {
	ms, ok := t.Last(ctx, sessionID)
	if !ok {
		// Kayıt yok = taze oturum. Login olup henüz hiçbir şey yapmamış
		// kullanıcı expired sayılsaydı giriş anında atılırdı.
		return false
	}
	elapsed := t.now().UnixMilli() - ms
	return elapsed >= t.timeout.Milliseconds()
}

// Clear, in-memory kaydı düşürür. DB tarafı session silinince zaten gider.
func (t *activityTracker) Clear(sessionID string) {
	t.mu.Lock()
	delete(t.last, sessionID)
	t.mu.Unlock()
}

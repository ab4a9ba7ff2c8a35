// GenerationRateLimiter — AI üretim uçları için kullanıcı bazlı rate limiting.
//
// LoginRateLimiter'dan farklar:
//   - Key: userID (IP değil) — authenticated endpoint, kullanıcı bazlı takip.
//   - Cooldown: window ve ceza süresi ayrıdır. Limit aşıldığında kullanıcı
//     cooldown bitene kadar hiçbir üretim isteği gönderemez.
//
// Gemini çağrıları hem yavaş hem ücretlidir; kısa window (1 dakika)
// içinde agresif istek gönderen kullanıcıya uzunca bir ceza uygulanır.
package ratelimit

import (
	"sync"
	"time"
)

// generationBucket, bir kullanıcı için istek sayacı ve cooldown bilgisi.
type generationBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time // zero value = cooldown yok
}

// GenerationRateLimiter, kullanıcı bazlı AI istek koruması.
//
//	limiter := NewGenerationRateLimiter(10, time.Minute, 30*time.Second)
//	if !limiter.Allow(userID) { // 429 }
type GenerationRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*generationBucket
	maxRequests int
	window      time.Duration
	cooldown    time.Duration
	stopCleanup chan struct{}
}

// NewGenerationRateLimiter, yeni limiter oluşturur ve arka plan
// temizleme goroutine'ini başlatır.
func NewGenerationRateLimiter(maxRequests int, window, cooldown time.Duration) *GenerationRateLimiter {
	rl := &GenerationRateLimiter{
		buckets:     make(map[string]*generationBucket),
		maxRequests: maxRequests,
		window:      window,
		cooldown:    cooldown,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow, kullanıcının üretim isteğine izin verilip verilmediğini söyler.
//
// Akış:
//  1. Cooldown'daysa → reject.
//  2. Window dolmuşsa → yeni pencere başlat.
//  3. Window içindeyse → count artır, limit aşıldıysa cooldown başlat.
func (rl *GenerationRateLimiter) Allow(userID string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[userID]
	if !exists {
		rl.buckets[userID] = &generationBucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() && now.Before(b.cooldownUntil) {
		return false
	}

	if !b.cooldownUntil.IsZero() {
		// Cooldown bitti — yeni pencere
		b.count = 1
		b.windowStart = now
		b.cooldownUntil = time.Time{}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxRequests {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}

	return true
}

// CooldownSeconds, kalan cooldown süresini saniye cinsinden döner.
// Cooldown yoksa 0.
func (rl *GenerationRateLimiter) CooldownSeconds(userID string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[userID]
	if !exists || b.cooldownUntil.IsZero() {
		return 0
	}

	remaining := time.Until(b.cooldownUntil)
	if remaining <= 0 {
		return 0
	}

	return int(remaining.Seconds()) + 1 // +1 yuvarlama
}

func (rl *GenerationRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup — silme koşulu: hem window geçmiş hem cooldown bitmiş.
// Cooldown'daki kullanıcının bucket'ı yanlışlıkla silinmez.
func (rl *GenerationRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, b := range rl.buckets {
		windowExpired := now.Sub(b.windowStart) > rl.window
		cooldownExpired := b.cooldownUntil.IsZero() || now.After(b.cooldownUntil)

		if windowExpired && cooldownExpired {
			delete(rl.buckets, userID)
		}
	}
}

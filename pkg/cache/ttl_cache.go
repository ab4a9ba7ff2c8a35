// Package cache — Generic in-memory TTL cache.
//
// TTLCache, süresi dolan kayıtları otomatik düşüren thread-safe,
// generic bir cache'tir. Projede iki yerde kullanılır:
//   - CSRF token store: oturum başına tek token, oturum ömrü kadar TTL
//   - Tercih mirror'ı: DB'deki tercihlerin hızlı, kayıp-toleranslı kopyası
//
// Her entry bir son kullanma zamanı taşır; geçtikten sonra Get miss döner.
// Fiziksel silme periyodik cleanup goroutine'inde yapılır — Get hızlı
// kalır (RLock yeterli) ve map sınırsız büyümez.
package cache

import (
	"sync"
	"time"
)

// entry, cache'teki tek bir kayıt.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, generic in-memory TTL cache.
//
//	c := cache.New[string, string](30*time.Minute, 5*time.Minute)
//	c.Set("key", "value")
//	val, ok := c.Get("key")
//
// sync.RWMutex ile korunur — birden fazla goroutine aynı anda okuyabilir.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration

	// Close() çağrıldığında kapatılır, cleanup goroutine'i durur.
	stopCleanup chan struct{}
}

// New, yeni bir TTLCache oluşturur ve cleanup goroutine'ini başlatır.
//
// ttl: her entry'nin yaşam süresi.
// cleanupInterval: süresi dolanların ne sıklıkla fiziksel silineceği;
// ttl'den küçük olmalıdır, aksi halde map gereksiz büyür.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, cache'ten bir değer okur.
// (value, true) döner eğer key varsa ve süresi dolmamışsa.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, cache'e bir değer yazar (TTL yeniden başlar).
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Touch, key mevcutsa TTL'ini uzatır (sliding expiry).
// CSRF store'da aktif oturumun token'ı oturum yaşadıkça yaşasın diye.
func (c *TTLCache[K, V]) Touch(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return false
	}
	e.expiresAt = time.Now().Add(c.ttl)
	c.entries[key] = e
	return true
}

// Delete, belirli bir key'i cache'ten siler.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeleteFunc, predicate'in true döndüğü tüm key'leri siler.
func (c *TTLCache[K, V]) DeleteFunc(predicate func(key K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if predicate(key) {
			delete(c.entries, key)
		}
	}
}

// Clear, tüm cache'i boşaltır.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len, cache'teki toplam entry sayısını döner (süresi dolmuşlar dahil).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, cleanup goroutine'ini durdurur.
// Cache artık kullanılmayacaksa çağrılmalıdır (goroutine leak önleme).
func (c *TTLCache[K, V]) Close() {
	close(c.stopCleanup)
}

// evictExpired, süresi dolan entry'leri map'ten fiziksel olarak siler.
func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

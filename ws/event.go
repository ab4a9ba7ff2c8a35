// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Kullanıcı bir sekmede aktivite yapar → client "activity" event'i gönderir
// 2. Hub, OnActivity callback'i ile session supervisor'a haber verir
// 3. Supervisor timer'ı sıfırlar; uyarı/expiry anında Hub üzerinden
//    kullanıcının TÜM bağlantılarına (tüm sekmeler) event gönderilir
// 4. Frontend event'i alır, uyarı modalı gösterir veya login'e yönlendirir
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "heartbeat", "session_warning" vb.
// Data: Event'e özgü payload — aktivite bilgisi, uyarı mesajı vb.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//   Frontend eksik event tespit etmek için seq'i takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// ────────────────────────────────────────────
// Operation sabitleri
// ────────────────────────────────────────────

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
	OpActivity  = "activity"  // Kullanıcı etkileşimi (tıklama, yazma vb.) — session timer'ı sıfırlar
)

// Server → Client operasyonları
const (
	OpHeartbeatAck     = "heartbeat_ack"     // Heartbeat'e yanıt — "seni duydum"
	OpSessionWarning   = "session_warning"   // Oturum yakında sona erecek — uyarı modalı göster
	OpSessionExpired   = "session_expired"   // Oturum sona erdi — login'e yönlendir
	OpPreferenceUpdate = "preference_update" // Tercihler başka bir sekmede güncellendi
)

// ActivityData, activity event'inin payload'ı (Client → Server).
//
// Kind, aktivitenin türünü söyler. Sadece tanımlı türler kabul edilir —
// bilinmeyen bir tür gelirse event sessizce yok sayılır.
type ActivityData struct {
	Kind string `json:"kind"`
}

// validActivityKinds, client'tan kabul edilen etkileşim türleri —
// DOM'un pointerdown/pointermove/keydown/scroll/touchstart/click
// event'leri. mousemove pointermove'un eski-tarayıcı eşdeğeri olarak
// ayrıca kabul edilir.
var validActivityKinds = map[string]bool{
	"pointerdown": true,
	"pointermove": true,
	"keydown":     true,
	"scroll":      true,
	"touchstart":  true,
	"click":       true,
	"mousemove":   true,
}

// Valid, aktivite türünün tanımlı olup olmadığını kontrol eder.
func (d ActivityData) Valid() bool {
	return validActivityKinds[d.Kind]
}

// SessionWarningData, session_warning event'inin payload'ı (Server → Client).
type SessionWarningData struct {
	MinutesRemaining int    `json:"minutes_remaining"`
	Message          string `json:"message"`
}

// SessionExpiredData, session_expired event'inin payload'ı (Server → Client).
type SessionExpiredData struct {
	Reason string `json:"reason"`
}

// PreferenceUpdateData, preference_update event'inin payload'ı (Server → Client).
//
// Tercihler bir sekmede güncellendiğinde kullanıcının diğer sekmeleri
// bu event ile senkronize olur. Payload tam tercih setini taşır —
// partial diff göndermek client tarafında merge karmaşası yaratır.
// models.Preferences ile aynı alanları taşır; ws paketinin models'a
// bağımlılığını kırmak için ayrı tanımlanır.
type PreferenceUpdateData struct {
	Theme               string  `json:"theme"`
	DefaultTemplateID   *string `json:"default_template_id"`
	AutoSave            bool    `json:"auto_save"`
	YoloMode            bool    `json:"yolo_mode"`
	OnboardingCompleted bool    `json:"onboarding_completed"`
	CompactMode         bool    `json:"compact_mode"`
}

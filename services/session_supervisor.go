package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/denizakgul/raporly/pkg/csrf"
	"github.com/denizakgul/raporly/ws"
)

// SupervisorState, bir oturumun zaman aşımı durum makinesindeki yeri.
//
// Geçişler:
//
//	Idle → Armed            (Arm: oturum takibe alındı)
//	Armed → WarningFired    (uyarı zamanı geldi, session_warning gönderildi)
//	WarningFired → Armed    (kullanıcı aktivite yaptı, timer sıfırlandı)
//	Armed/WarningFired → Expired  (pencere doldu, oturum sonlandırıldı)
//	* → Idle                (Disarm: logout veya bağlantı takipten çıktı)
//
// Expired terminal'dir — expired bir oturum tekrar arm edilemez,
// kullanıcı yeniden login olur ve YENİ bir session ID alır.
type SupervisorState int

const (
	StateIdle SupervisorState = iota
	StateArmed
	StateWarningFired
	StateExpired
)

// String, loglama için okunabilir durum adı.
func (s SupervisorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateWarningFired:
		return "warning_fired"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// SessionRevoker, supervisor'ın expiry anında oturumu sonlandırmak için
// kullandığı dar interface. AuthService bunu implicit olarak karşılar —
// supervisor'ın Login/Register gibi metodlara ihtiyacı yoktur.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, sessionID string) error
}

// SessionDisconnector, expired oturumun WebSocket bağlantılarını koparır.
// ws.Hub bunu karşılar.
type SessionDisconnector interface {
	DisconnectSession(userID, sessionID string)
}

// SessionSupervisor, oturum başına inaktivite zaman aşımını yönetir.
//
// Neden client-side setTimeout yerine sunucuda?
// Uyarı ve expiry kararı sunucuda tek bir yerden verilir ve Hub üzerinden
// kullanıcının TÜM sekmelerine aynı anda yayınlanır. Her sekmenin kendi
// timer'ını tutması senkronizasyon sorunu yaratırdı: bir sekmede aktivite
// olurken diğeri expire olabilirdi. Burada herhangi bir sekmeden gelen
// aktivite (HTTP veya WS) tek timer'ı sıfırlar, tüm sekmeler aynı anda
// uyarılır ve aynı anda expire olur.
type SessionSupervisor interface {
	// Arm, oturumu takibe alır. Zaten armed ise no-op; oturum bu arada
	// expire olduysa (ör. server restart sonrası DB'den okunan son
	// aktivite eski) hemen expire edilir.
	Arm(userID, sessionID string)
	// RecordActivity, aktiviteyi kaydeder ve timer'ı tam pencereye sıfırlar.
	// WarningFired durumundaki oturum Armed'a geri döner.
	RecordActivity(ctx context.Context, userID, sessionID string)
	// Disarm, oturumu takipten çıkarır (logout).
	Disarm(sessionID string)
	// State, oturumun anlık durumunu döner. Takipte değilse StateIdle.
	State(sessionID string) SupervisorState
	// Shutdown, tüm timer'ları durdurur (graceful shutdown).
	Shutdown()
}

// watchedSession, takipteki tek bir oturumun timer'ları ve durumu.
type watchedSession struct {
	userID      string
	state       SupervisorState
	warnTimer   *time.Timer
	expireTimer *time.Timer
}

// sessionSupervisor, SessionSupervisor implementasyonu.
type sessionSupervisor struct {
	tracker      ActivityTracker
	revoker      SessionRevoker
	publisher    ws.EventPublisher
	disconnector SessionDisconnector
	csrfStore    *csrf.Store

	timeout time.Duration // inaktivite penceresi (default 30dk)
	warning time.Duration // expiry'den ne kadar önce uyarılır (default 5dk)

	mu       sync.Mutex
	sessions map[string]*watchedSession
}

// NewSessionSupervisor, constructor.
//
// timeout ve warning config'den gelir — testler kısa süreler enjekte eder.
func NewSessionSupervisor(
	tracker ActivityTracker,
	revoker SessionRevoker,
	publisher ws.EventPublisher,
	disconnector SessionDisconnector,
	csrfStore *csrf.Store,
	timeout, warning time.Duration,
) SessionSupervisor {
	return &sessionSupervisor{
		tracker:      tracker,
		revoker:      revoker,
		publisher:    publisher,
		disconnector: disconnector,
		csrfStore:    csrfStore,
		timeout:      timeout,
		warning:      warning,
		sessions:     make(map[string]*watchedSession),
	}
}

// Arm, oturumu takibe alır.
func (sv *sessionSupervisor) Arm(userID, sessionID string) {
	if sessionID == "" {
		return
	}

	// Takibe almadan önce gerçek expiry kontrolü: server restart sonrası
	// ilk istekte DB'deki son aktivite çok eski olabilir.
	if sv.tracker.IsExpired(context.Background(), sessionID) {
		sv.expire(userID, sessionID)
		return
	}

	sv.mu.Lock()
	defer sv.mu.Unlock()

	if entry, ok := sv.sessions[sessionID]; ok {
		if entry.state == StateExpired {
			return // terminal — yeniden arm edilemez
		}
		return // zaten takipte
	}

	remaining := sv.remaining(sessionID)
	sv.sessions[sessionID] = sv.schedule(userID, sessionID, remaining)
	log.Printf("[session] armed session %s for user %s (expires in %s)", sessionID, userID, remaining)
}

// RecordActivity, aktiviteyi işler ve pencereyi tam süreye sıfırlar.
func (sv *sessionSupervisor) RecordActivity(ctx context.Context, userID, sessionID string) {
	if sessionID == "" {
		return
	}

	sv.mu.Lock()
	existing, ok := sv.sessions[sessionID]
	if ok && existing.state == StateExpired {
		sv.mu.Unlock()
		return // expired oturumda aktivite işlenmez
	}
	sv.mu.Unlock()

	sv.tracker.Record(ctx, sessionID)

	sv.mu.Lock()
	defer sv.mu.Unlock()

	if existing, ok := sv.sessions[sessionID]; ok {
		existing.stopTimers()
		if existing.state == StateWarningFired {
			log.Printf("[session] warning cleared for session %s after activity", sessionID)
		}
	}
	sv.sessions[sessionID] = sv.schedule(userID, sessionID, sv.timeout)
}

// Disarm, oturumu takipten çıkarır.
func (sv *sessionSupervisor) Disarm(sessionID string) {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if entry, ok := sv.sessions[sessionID]; ok {
		entry.stopTimers()
		delete(sv.sessions, sessionID)
	}
	sv.tracker.Clear(sessionID)
	sv.csrfStore.Clear(sessionID)
}

// State, oturumun anlık durumunu döner.
func (sv *sessionSupervisor) State(sessionID string) SupervisorState {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if entry, ok := sv.sessions[sessionID]; ok {
		return entry.state
	}
	return StateIdle
}

// Shutdown, tüm timer'ları durdurur.
func (sv *sessionSupervisor) Shutdown() {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	for _, entry := range sv.sessions {
		entry.stopTimers()
	}
	sv.sessions = make(map[string]*watchedSession)
	log.Println("[session] supervisor shut down")
}

// ─── Private Helpers ───

// remaining, oturumun kalan inaktivite süresini hesaplar.
// Hiç aktivite kaydı yoksa tam pencere döner (taze oturum).
func (sv *sessionSupervisor) remaining(sessionID string) time.Duration {
	last, ok := sv.tracker.Last(context.Background(), sessionID)
	if !ok {
		return sv.timeout
	}
	elapsed := time.Duration(time.Now().UnixMilli()-last) * time.Millisecond
	remaining := sv.timeout - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// schedule, kalan süreye göre uyarı ve expiry timer'larını kurar.
// Çağıran sv.mu'yu tutmalıdır.
func (sv *sessionSupervisor) schedule(userID, sessionID string, remaining time.Duration) *watchedSession {
	entry := &watchedSession{
		userID: userID,
		state:  StateArmed,
	}

	warnDelay := remaining - sv.warning
	if warnDelay < 0 {
		warnDelay = 0
	}

	entry.warnTimer = time.AfterFunc(warnDelay, func() {
		sv.fireWarning(userID, sessionID)
	})
	entry.expireTimer = time.AfterFunc(remaining, func() {
		sv.fireExpiry(userID, sessionID)
	})

	return entry
}

// fireWarning, uyarı timer'ı dolduğunda çalışır.
func (sv *sessionSupervisor) fireWarning(userID, sessionID string) {
	sv.mu.Lock()
	entry, ok := sv.sessions[sessionID]
	if !ok || entry.state != StateArmed {
		sv.mu.Unlock()
		return
	}
	entry.state = StateWarningFired
	sv.mu.Unlock()

	minutes := int(sv.warning.Minutes())
	sv.publisher.BroadcastToUser(userID, ws.Event{
		Op: ws.OpSessionWarning,
		Data: ws.SessionWarningData{
			MinutesRemaining: minutes,
			Message:          fmt.Sprintf("%d minutes remaining", minutes),
		},
	})
	log.Printf("[session] warning fired for session %s (user %s)", sessionID, userID)
}

// fireExpiry, expiry timer'ı dolduğunda çalışır.
//
// Timer tetiklenmesi ile aktivite kaydı yarışabilir — gerçek expiry
// tracker üzerinden yeniden doğrulanır. Aktivite timer'dan önce
// işlendiyse oturum expire edilmez, yeniden arm edilir.
func (sv *sessionSupervisor) fireExpiry(userID, sessionID string) {
	if !sv.tracker.IsExpired(context.Background(), sessionID) {
		sv.mu.Lock()
		if entry, ok := sv.sessions[sessionID]; ok && entry.state != StateExpired {
			entry.stopTimers()
			delete(sv.sessions, sessionID)
		}
		sv.mu.Unlock()
		sv.Arm(userID, sessionID)
		return
	}

	sv.expire(userID, sessionID)
}

// expire, oturumu kalıcı olarak sonlandırır.
//
// Sıralama: önce DB'deki session silinir (token artık geçersiz), sonra
// CSRF token'ı düşürülür, en son client'lar bilgilendirilip bağlantılar
// koparılır. Ters sıra olsaydı client "expired" haberini alıp hemen yeni
// bir istekle hâlâ geçerli token kullanabilirdi.
func (sv *sessionSupervisor) expire(userID, sessionID string) {
	sv.mu.Lock()
	entry, ok := sv.sessions[sessionID]
	if ok {
		if entry.state == StateExpired {
			sv.mu.Unlock()
			return
		}
		entry.stopTimers()
		entry.state = StateExpired
	} else {
		sv.sessions[sessionID] = &watchedSession{userID: userID, state: StateExpired}
	}
	sv.mu.Unlock()

	if err := sv.revoker.RevokeSession(context.Background(), sessionID); err != nil {
		log.Printf("[session] failed to revoke expired session %s: %v", sessionID, err)
	}

	sv.csrfStore.Clear(sessionID)
	sv.tracker.Clear(sessionID)

	sv.publisher.BroadcastToUser(userID, ws.Event{
		Op:   ws.OpSessionExpired,
		Data: ws.SessionExpiredData{Reason: "session expired due to inactivity"},
	})

	if sv.disconnector != nil {
		sv.disconnector.DisconnectSession(userID, sessionID)
	}

	// Terminal kayıt bir pencere boyunca tutulur: elinde hâlâ geçerli
	// access token'ı olan bir sekmenin geç gelen Arm/RecordActivity
	// çağrısı ölü oturumu diriltemesin. Pencere dolunca kayıt düşürülür —
	// map sunucu ömrü boyunca büyümez.
	time.AfterFunc(sv.timeout, func() {
		sv.mu.Lock()
		if entry, ok := sv.sessions[sessionID]; ok && entry.state == StateExpired {
			delete(sv.sessions, sessionID)
		}
		sv.mu.Unlock()
	})

	log.Printf("[session] session %s expired for user %s", sessionID, userID)
}

// stopTimers, her iki timer'ı da durdurur. Çağıran lock tutmalıdır.
func (w *watchedSession) stopTimers() {
	if w.warnTimer != nil {
		w.warnTimer.Stop()
	}
	if w.expireTimer != nil {
		w.expireTimer.Stop()
	}
}

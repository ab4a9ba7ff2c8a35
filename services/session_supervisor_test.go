package services

import (
	"context"
	"testing"
	"time"

	"github.com/denizakgul/raporly/models"
	"github.com/denizakgul/raporly/pkg/csrf"
	"github.com/denizakgul/raporly/ws"
	"github.com/stretchr/testify/require"
)

// supervisorFixture, kısa sürelerle kurulmuş bir supervisor ve fake'leri.
type supervisorFixture struct {
	supervisor   SessionSupervisor
	tracker      ActivityTracker
	sessionRepo  *fakeSessionRepo
	publisher    *fakePublisher
	revoker      *fakeRevoker
	disconnector *fakeDisconnector
	csrfStore    *csrf.Store
}

// newSupervisorFixture, timer tabanlı davranışı test edilebilir kılmak için
// milisaniye mertebesinde pencereler kullanır.
func newSupervisorFixture(t *testing.T, timeout, warning time.Duration) *supervisorFixture {
	t.Helper()

	sessionRepo := newFakeSessionRepo()
	require.NoError(t, sessionRepo.Create(context.Background(), &models.Session{
		ID:        "s1",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	tracker := NewActivityTracker(sessionRepo, timeout)
	publisher := &fakePublisher{}
	revoker := &fakeRevoker{}
	disconnector := &fakeDisconnector{}
	csrfStore := csrf.NewStore(time.Hour)
	t.Cleanup(csrfStore.Close)

	supervisor := NewSessionSupervisor(tracker, revoker, publisher, disconnector, csrfStore, timeout, warning)
	t.Cleanup(supervisor.Shutdown)

	return &supervisorFixture{
		supervisor:   supervisor,
		tracker:      tracker,
		sessionRepo:  sessionRepo,
		publisher:    publisher,
		revoker:      revoker,
		disconnector: disconnector,
		csrfStore:    csrfStore,
	}
}

func TestSupervisor_WarningThenExpiry(t *testing.T) {
	fx := newSupervisorFixture(t, 200*time.Millisecond, 100*time.Millisecond)

	fx.supervisor.RecordActivity(context.Background(), "u1", "s1")
	require.Equal(t, StateArmed, fx.supervisor.State("s1"))

	// Önce uyarı gelir, oturum hâlâ ayakta.
	require.Eventually(t, func() bool {
		return fx.supervisor.State("s1") == StateWarningFired
	}, time.Second, 5*time.Millisecond)
	require.Empty(t, fx.revoker.revokedIDs())

	// Pencere dolunca expire olur.
	require.Eventually(t, func() bool {
		return fx.supervisor.State("s1") == StateExpired
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, []string{"s1"}, fx.revoker.revokedIDs())
	require.Equal(t, []string{"s1"}, fx.disconnector.disconnectedIDs())

	// Event sırası: önce session_warning, sonra session_expired.
	ops := fx.publisher.ops()
	require.Equal(t, []string{ws.OpSessionWarning, ws.OpSessionExpired}, ops)
}

func TestSupervisor_ActivityRearmsAfterWarning(t *testing.T) {
	fx := newSupervisorFixture(t, 300*time.Millisecond, 150*time.Millisecond)

	fx.supervisor.RecordActivity(context.Background(), "u1", "s1")

	require.Eventually(t, func() bool {
		return fx.supervisor.State("s1") == StateWarningFired
	}, time.Second, 5*time.Millisecond)

	// Uyarıdan sonra aktivite: oturum Armed'a döner, pencere baştan başlar.
	fx.supervisor.RecordActivity(context.Background(), "u1", "s1")
	require.Equal(t, StateArmed, fx.supervisor.State("s1"))

	// Eski expiry zamanı geçse bile oturum ayakta kalmalı.
	time.Sleep(200 * time.Millisecond)
	require.NotEqual(t, StateExpired, fx.supervisor.State("s1"))
	require.Empty(t, fx.revoker.revokedIDs())
}

func TestSupervisor_ArmFreshSessionGetsFullWindow(t *testing.T) {
	fx := newSupervisorFixture(t, 200*time.Millisecond, 50*time.Millisecond)

	// Hiç aktivite kaydı olmayan oturum tam pencere ile arm edilir,
	// anında expire EDİLMEZ.
	fx.supervisor.Arm("u1", "s1")
	require.Equal(t, StateArmed, fx.supervisor.State("s1"))
	require.Empty(t, fx.revoker.revokedIDs())
}

func TestSupervisor_ArmAlreadyExpiredSession(t *testing.T) {
	fx := newSupervisorFixture(t, 100*time.Millisecond, 50*time.Millisecond)

	// Restart senaryosu: DB'deki son aktivite çok eski.
	staleMS := time.Now().Add(-time.Hour).UnixMilli()
	require.NoError(t, fx.sessionRepo.UpdateLastActivity(context.Background(), "s1", staleMS))

	fx.supervisor.Arm("u1", "s1")

	require.Equal(t, StateExpired, fx.supervisor.State("s1"))
	require.Equal(t, []string{"s1"}, fx.revoker.revokedIDs())

	// Expired terminal — yeniden arm edilemez.
	fx.supervisor.Arm("u1", "s1")
	require.Equal(t, StateExpired, fx.supervisor.State("s1"))
	require.Equal(t, []string{"s1"}, fx.revoker.revokedIDs())
}

func TestSupervisor_ExpiredEntryEvictedAfterRetention(t *testing.T) {
	fx := newSupervisorFixture(t, 40*time.Millisecond, 20*time.Millisecond)

	staleMS := time.Now().Add(-time.Hour).UnixMilli()
	require.NoError(t, fx.sessionRepo.UpdateLastActivity(context.Background(), "s1", staleMS))

	fx.supervisor.Arm("u1", "s1")
	require.Equal(t, StateExpired, fx.supervisor.State("s1"))

	// Terminal kayıt süresiz tutulmaz — pencere dolunca map'ten düşer.
	require.Eventually(t, func() bool {
		return fx.supervisor.State("s1") == StateIdle
	}, time.Second, 5*time.Millisecond)

	// Eviction ek revoke üretmez.
	require.Equal(t, []string{"s1"}, fx.revoker.revokedIDs())
}

func TestSupervisor_DisarmStopsTracking(t *testing.T) {
	fx := newSupervisorFixture(t, 100*time.Millisecond, 50*time.Millisecond)

	fx.supervisor.RecordActivity(context.Background(), "u1", "s1")
	token := fx.csrfStore.GetOrCreate("s1")

	fx.supervisor.Disarm("s1")
	require.Equal(t, StateIdle, fx.supervisor.State("s1"))

	// Disarm CSRF token'ı da düşürür.
	require.False(t, fx.csrfStore.Validate("s1", token))

	// Timer'lar durduruldu — eski pencere dolsa bile revoke gelmez.
	time.Sleep(150 * time.Millisecond)
	require.Empty(t, fx.revoker.revokedIDs())
}

func TestSupervisor_ExpiryClearsCSRFToken(t *testing.T) {
	fx := newSupervisorFixture(t, 80*time.Millisecond, 40*time.Millisecond)

	token := fx.csrfStore.GetOrCreate("s1")
	fx.supervisor.RecordActivity(context.Background(), "u1", "s1")

	require.Eventually(t, func() bool {
		return fx.supervisor.State("s1") == StateExpired
	}, time.Second, 5*time.Millisecond)

	require.False(t, fx.csrfStore.Validate("s1", token))
}

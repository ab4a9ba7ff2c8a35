package csrf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(time.Hour)
	t.Cleanup(store.Close)
	return store
}

func TestGetOrCreate_StablePerSession(t *testing.T) {
	store := newTestStore(t)

	first := store.GetOrCreate("session-1")
	require.NotEmpty(t, first)

	// Aynı oturum için her çağrı aynı token'ı dönmeli — açık sekmeler
	// birbirinin token'ını geçersizleştirmemeli.
	for i := 0; i < 5; i++ {
		require.Equal(t, first, store.GetOrCreate("session-1"))
	}
}

func TestGetOrCreate_DistinctAcrossSessions(t *testing.T) {
	store := newTestStore(t)

	a := store.GetOrCreate("session-a")
	b := store.GetOrCreate("session-b")

	require.NotEqual(t, a, b)
	require.True(t, store.Validate("session-a", a))
	require.True(t, store.Validate("session-b", b))
	// Çapraz doğrulama başarısız olmalı.
	require.False(t, store.Validate("session-a", b))
	require.False(t, store.Validate("session-b", a))
}

func TestRegenerate_InvalidatesOldToken(t *testing.T) {
	store := newTestStore(t)

	old := store.GetOrCreate("session-1")
	fresh := store.Regenerate("session-1")

	require.NotEqual(t, old, fresh)
	require.False(t, store.Validate("session-1", old))
	require.True(t, store.Validate("session-1", fresh))
}

func TestValidate_RejectsTamperedToken(t *testing.T) {
	store := newTestStore(t)

	token := store.GetOrCreate("session-1")

	// Tek byte'ı değiştir — uzunluk aynı kalır, içerik farklı.
	tampered := []byte(token)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	require.False(t, store.Validate("session-1", string(tampered)))
}

func TestValidate_RejectsLengthMismatchAndEmpty(t *testing.T) {
	store := newTestStore(t)

	token := store.GetOrCreate("session-1")

	require.False(t, store.Validate("session-1", ""))
	require.False(t, store.Validate("session-1", token+"x"))
	require.False(t, store.Validate("session-1", token[:len(token)-1]))
}

func TestValidate_UnknownSession(t *testing.T) {
	store := newTestStore(t)

	require.False(t, store.Validate("no-such-session", "anything"))
}

func TestClear_DropsToken(t *testing.T) {
	store := newTestStore(t)

	token := store.GetOrCreate("session-1")
	store.Clear("session-1")

	require.False(t, store.Validate("session-1", token))

	// Clear sonrası yeni oturum yeni token alır.
	fresh := store.GetOrCreate("session-1")
	require.NotEqual(t, token, fresh)
}

func TestNewToken_FallbackProducesNonEmpty(t *testing.T) {
	// Fallback yolunun kendisi de doğrulanabilir bir token üretmeli.
	token := fallbackToken()
	require.NotEmpty(t, token)
	require.NotEqual(t, token, fallbackToken())
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerationLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewGenerationRateLimiter(3, time.Minute, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("u1"), "request %d should be allowed", i+1)
	}
	require.False(t, rl.Allow("u1"))
}

func TestGenerationLimiter_CooldownBlocksFurtherRequests(t *testing.T) {
	rl := NewGenerationRateLimiter(1, time.Minute, time.Minute)

	require.True(t, rl.Allow("u1"))
	// Limit aşıldı — cooldown başlar, sonraki istekler de reddedilir.
	require.False(t, rl.Allow("u1"))
	require.False(t, rl.Allow("u1"))
}

func TestGenerationLimiter_UsersIndependent(t *testing.T) {
	rl := NewGenerationRateLimiter(1, time.Minute, time.Minute)

	require.True(t, rl.Allow("u1"))
	require.False(t, rl.Allow("u1"))
	// Başka kullanıcı etkilenmez.
	require.True(t, rl.Allow("u2"))
}

func TestGenerationLimiter_CooldownSeconds(t *testing.T) {
	rl := NewGenerationRateLimiter(1, time.Minute, 30*time.Second)

	require.Equal(t, 0, rl.CooldownSeconds("u1"))

	require.True(t, rl.Allow("u1"))
	require.False(t, rl.Allow("u1"))

	secs := rl.CooldownSeconds("u1")
	require.Greater(t, secs, 0)
	require.LessOrEqual(t, secs, 31)
}

func TestGenerationLimiter_CooldownExpiryResetsWindow(t *testing.T) {
	rl := NewGenerationRateLimiter(1, 50*time.Millisecond, 50*time.Millisecond)

	require.True(t, rl.Allow("u1"))
	require.False(t, rl.Allow("u1"))

	time.Sleep(60 * time.Millisecond)
	require.True(t, rl.Allow("u1"))
}

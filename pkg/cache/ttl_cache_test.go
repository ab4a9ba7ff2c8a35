package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := New[string, int](time.Hour, time.Hour)
	t.Cleanup(c.Close)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New[string, string](30*time.Millisecond, time.Hour)
	t.Cleanup(c.Close)

	c.Set("k", "v")
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestTTLCache_TouchExtendsLifetime(t *testing.T) {
	c := New[string, string](60*time.Millisecond, time.Hour)
	t.Cleanup(c.Close)

	c.Set("k", "v")
	time.Sleep(40 * time.Millisecond)
	require.True(t, c.Touch("k"))
	time.Sleep(40 * time.Millisecond)

	// Touch olmasaydı 80ms'de düşmüştü.
	_, ok := c.Get("k")
	require.True(t, ok)
}

func TestTTLCache_Delete(t *testing.T) {
	c := New[string, int](time.Hour, time.Hour)
	t.Cleanup(c.Close)

	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestTTLCache_DeleteFunc(t *testing.T) {
	c := New[string, int](time.Hour, time.Hour)
	t.Cleanup(c.Close)

	c.Set("user:1", 1)
	c.Set("user:2", 2)
	c.Set("other", 3)

	c.DeleteFunc(func(key string) bool { return key == "user:1" || key == "user:2" })

	require.Equal(t, 1, c.Len())
	_, ok := c.Get("other")
	require.True(t, ok)
}

package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivityData_ValidKinds(t *testing.T) {
	kinds := []string{
		"pointerdown", "pointermove", "keydown",
		"scroll", "touchstart", "click",
		"mousemove", // legacy pointermove eşdeğeri
	}
	for _, kind := range kinds {
		data := ActivityData{Kind: kind}
		require.True(t, data.Valid(), "kind %q should be valid", kind)
	}
}

func TestActivityData_InvalidKinds(t *testing.T) {
	for _, kind := range []string{"", "heartbeat", "CLICK", "hover", "focus", "navigation"} {
		data := ActivityData{Kind: kind}
		require.False(t, data.Valid(), "kind %q should be rejected", kind)
	}
}

package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThrottle(t *testing.T) {
	t.Parallel()

	t.Run("burst then refuse", func(t *testing.T) {
		t.Parallel()
		throttle := NewThrottle(1, 2)
		assert.True(t, throttle.Allow("10.0.0.1"))
		assert.True(t, throttle.Allow("10.0.0.1"))
		assert.False(t, throttle.Allow("10.0.0.1"))
		assert.True(t, throttle.Allow("10.0.0.2"), "keys are limited independently")
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		throttle := NewThrottle(0, 0)
		for range 100 {
			assert.True(t, throttle.Allow("10.0.0.1"))
		}
	})

	t.Run("nil throttle allows", func(t *testing.T) {
		t.Parallel()
		var throttle *Throttle
		assert.True(t, throttle.Allow("10.0.0.1"))
	})
}

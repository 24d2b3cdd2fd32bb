package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_Publish_dispatches_to_subscribers(t *testing.T) {
	bus := NewBus()

	var received []Notification
	bus.Subscribe(func(n Notification) {
		received = append(received, n)
	})

	bus.Errorf("test error: %d", 42)
	bus.Infof("info msg")
	bus.Warnf("warn msg")

	require.Len(t, received, 3)
	assert.Equal(t, LevelError, received[0].Level)
	assert.Equal(t, "test error: 42", received[0].Message)
	assert.Equal(t, LevelInfo, received[1].Level)
	assert.Equal(t, LevelWarning, received[2].Level)
}

func TestBus_Publish_sets_created_at(t *testing.T) {
	bus := NewBus()

	var received Notification
	bus.Subscribe(func(n Notification) {
		received = n
	})

	bus.Infof("stamped")

	assert.False(t, received.CreatedAt.IsZero())
}

func TestBus_Publish_without_subscribers_is_noop(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Infof("nobody listening")
	})
}

func TestBus_Subscribe_multiple(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(func(Notification) { calls++ })
	bus.Subscribe(func(Notification) { calls++ })

	bus.Warnf("fan out")

	assert.Equal(t, 2, calls)
}

package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/calmops/folio/internal/tui/notify"
)

func note(msg string) notify.Notification {
	return notify.Notification{Level: notify.LevelInfo, Message: msg}
}

func TestToastController_Push(t *testing.T) {
	c := NewToastController()
	assert.False(t, c.HasToasts())

	c.Push(note("hello"))

	assert.True(t, c.HasToasts())
	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "hello", c.Toasts()[0].notification.Message)
}

func TestToastController_Push_evicts_oldest(t *testing.T) {
	c := NewToastController()
	for i := 0; i < defaultMaxToasts+2; i++ {
		c.Push(note(string(rune('a' + i))))
	}

	toasts := c.Toasts()
	assert.Len(t, toasts, defaultMaxToasts)
	assert.Equal(t, "c", toasts[0].notification.Message, "oldest evicted first")
}

func TestToastController_Tick_expires(t *testing.T) {
	c := NewToastController()
	c.Push(note("short lived"))

	c.Tick(defaultToastTTL - time.Millisecond)
	assert.True(t, c.HasToasts())

	c.Tick(time.Millisecond)
	assert.False(t, c.HasToasts())
}

func TestToastController_Dismiss(t *testing.T) {
	c := NewToastController()
	c.Push(note("first"))
	c.Push(note("second"))

	c.Dismiss()

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "first", c.Toasts()[0].notification.Message)
}

func TestToastController_DismissAll(t *testing.T) {
	c := NewToastController()
	c.Push(note("a"))
	c.Push(note("b"))

	c.DismissAll()

	assert.False(t, c.HasToasts())
}

func TestToastController_Ticking(t *testing.T) {
	c := NewToastController()
	assert.False(t, c.Ticking())

	c.SetTicking(true)
	assert.True(t, c.Ticking())
}

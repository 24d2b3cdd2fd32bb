package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/calmops/folio/internal/core/styles"
	"github.com/calmops/folio/internal/tui/notify"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications stacked vertically (oldest at
// top, newest at bottom), right-aligned above the status bar.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack as a single string.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	var style lipgloss.Style

	switch t.notification.Level {
	case notify.LevelError:
		style = styles.ToastError
	case notify.LevelWarning:
		style = styles.ToastWarning
	default:
		style = styles.ToastInfo
	}

	return style.Width(toastWidth).Render(t.notification.Message)
}

// Overlay draws the toast stack over the bottom-right corner of
// background, which is assumed to span width columns.
func (v *ToastView) Overlay(background string, width int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")
	toastLines := strings.Split(toastContent, "\n")
	if len(toastLines) >= len(bgLines) {
		return background
	}

	toastW := lipgloss.Width(toastContent)
	keepW := max(width-toastW-1, 0)

	start := len(bgLines) - len(toastLines)
	for i, tl := range toastLines {
		kept := ansi.Truncate(bgLines[start+i], keepW, "")
		pad := keepW - ansi.StringWidth(kept)
		if pad < 0 {
			pad = 0
		}
		bgLines[start+i] = kept + strings.Repeat(" ", pad) + tl
	}
	return strings.Join(bgLines, "\n")
}

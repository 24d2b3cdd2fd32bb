// Package styles provides shared lipgloss styles for the reader chrome.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultPalette is the built-in theme.
var DefaultPalette = Palette{
	Primary:    lipgloss.Color("#7aa2f7"),
	Foreground: lipgloss.Color("#c0caf5"),
	Muted:      lipgloss.Color("#565f89"),
	Surface:    lipgloss.Color("#3b4261"),
	Warning:    lipgloss.Color("#e0af68"),
	Error:      lipgloss.Color("#f7768e"),
}

var (
	// Highlight marks the current search match inside the text body.
	Highlight = lipgloss.NewStyle().Reverse(true)

	// StatusBar styles the bottom bar (title, progress, search state).
	StatusBar = lipgloss.NewStyle().
			Foreground(DefaultPalette.Foreground).
			Background(DefaultPalette.Surface).
			Padding(0, 1)

	// ToastInfo, ToastWarning and ToastError style transient messages.
	ToastInfo = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DefaultPalette.Primary).
			Padding(0, 1)

	ToastWarning = ToastInfo.BorderForeground(DefaultPalette.Warning)

	ToastError = ToastInfo.BorderForeground(DefaultPalette.Error)

	// PromptLabel styles the search prompt prefix.
	PromptLabel = lipgloss.NewStyle().
			Foreground(DefaultPalette.Primary).
			Bold(true)

	// ListSelected styles the selected table-of-contents entry.
	ListSelected = lipgloss.NewStyle().
			Foreground(DefaultPalette.Primary).
			Bold(true)

	// ListItem styles unselected entries.
	ListItem = lipgloss.NewStyle().
			Foreground(DefaultPalette.Foreground)

	// DialogTitle styles overlay window titles.
	DialogTitle = lipgloss.NewStyle().
			Foreground(DefaultPalette.Primary).
			Bold(true).
			Underline(true)

	// MutedText styles secondary information.
	MutedText = lipgloss.NewStyle().
			Foreground(DefaultPalette.Muted)
)

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/calmops/folio/internal/core/styles"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready || m.state == stateLoading {
		return m.spin.View() + " opening books..."
	}

	var body string
	switch m.state {
	case stateTOC:
		body = m.tocView()
	case stateMetadata:
		body = m.metadataView()
	default:
		body = m.viewport.View()
	}

	var bottom string
	if m.state == stateSearchInput {
		bottom = styles.PromptLabel.Render("search") + " " + m.searchInput.View()
	} else {
		bottom = m.statusBar()
	}

	return m.toastView.Overlay(body+"\n"+bottom, m.width)
}

// refreshViewport repaints the viewport content from the active
// session. Called whenever the text, width, highlight, or active book
// changes.
func (m *Model) refreshViewport() {
	s := m.session()
	if s == nil {
		m.viewport.SetContent("")
		return
	}

	c := s.Content
	height := c.Height()
	var b strings.Builder
	for y := 0; y < height; y++ {
		line, _ := c.VisualLineAt(y)
		if s.highlight.active && y == s.highlight.at.Y {
			line = highlightLine(line, s.highlight, c.IsRightToLeft())
		}
		b.WriteString(line)
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	m.viewport.SetContent(b.String())
}

// highlightLine paints the matched range. Rune offsets are only
// meaningful on plain left-to-right lines; reordered or pre-styled
// lines get a whole-line highlight instead.
func highlightLine(line string, hl highlightState, rtl bool) string {
	if rtl || strings.ContainsRune(line, '\x1b') {
		return styles.Highlight.Render(line)
	}

	runes := []rune(line)
	start := hl.at.X
	if start < 0 || start >= len(runes) {
		return styles.Highlight.Render(line)
	}

	// The match may continue onto following wrapped lines; clip to this one.
	end := start + utf8.RuneCountInString(hl.match)
	if end > len(runes) {
		end = len(runes)
	}

	return string(runes[:start]) +
		styles.Highlight.Render(string(runes[start:end])) +
		string(runes[end:])
}

func (m Model) statusBar() string {
	s := m.session()
	if s == nil {
		return ""
	}

	title := s.Book.Meta().Title
	if title == "" {
		title = filepath.Base(s.Book.Path())
	}

	parts := []string{fmt.Sprintf("%d%%", int(m.progress()*100))}
	if len(m.sessions) > 1 {
		parts = append(parts, fmt.Sprintf("book %d/%d", m.active+1, len(m.sessions)))
	}
	if s.Content.IsRightToLeft() {
		parts = append(parts, "rtl")
	}
	if s.search != nil {
		parts = append(parts, "search: "+s.search.Pattern)
	}
	right := strings.Join(parts, " | ")

	// StatusBar pads one column each side.
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBar.Width(m.width).Render(title + strings.Repeat(" ", gap) + right)
}

func (m Model) tocView() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Contents"))
	b.WriteString("\n\n")

	for i, p := range m.tocPoints {
		style := styles.ListItem
		prefix := "  "
		if i == m.tocIndex {
			style = styles.ListSelected
			prefix = "> "
		}
		b.WriteString(style.Render(prefix + p.ID))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("enter: go  esc: close"))
	return padToHeight(b.String(), m.viewport.Height)
}

func (m Model) metadataView() string {
	s := m.session()
	meta := s.Book.Meta()

	direction := "left-to-right"
	if s.Content.IsRightToLeft() {
		direction = "right-to-left"
	}

	rows := []struct{ k, v string }{
		{"Title", meta.Title},
		{"Author", meta.Author},
		{"Path", s.Book.Path()},
		{"Lines", fmt.Sprintf("%d", s.Content.Height())},
		{"Direction", direction},
		{"Progress", fmt.Sprintf("%d%%", int(s.Progress*100))},
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Metadata"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-10s", r.k)))
		b.WriteString(r.v)
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("any key: close"))
	return padToHeight(b.String(), m.viewport.Height)
}

// padToHeight bottom-pads s with blank lines so overlays keep the
// status bar on the last row.
func padToHeight(s string, height int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= height {
		return s
	}
	return s + strings.Repeat("\n", height-lines)
}

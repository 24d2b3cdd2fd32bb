package reader

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
)

// Line is one rendered row of a segment. Logical is the plain,
// logical-order text used for matching and offset math; Visual is the
// string actually painted, which may carry ANSI styling.
//
// Implementations of Layout must keep Logical in logical (reading)
// order even for right-to-left scripts. Visual reordering belongs
// exclusively to the paint path; search and sentence segmentation
// depend on this guarantee.
type Line struct {
	Logical string
	Visual  string
}

// Layout turns a segment's markup into wrapped lines at a given width.
type Layout interface {
	Render(markup string, width int) []Line
}

// WrapLayout is the plain provider: markup is word-wrapped as-is and
// the logical and visual forms coincide.
type WrapLayout struct{}

// Render implements Layout.
func (WrapLayout) Render(markup string, width int) []Line {
	if width <= 0 {
		width = 80
	}

	wrapped := wordwrap.String(markup, width)
	rows := strings.Split(wrapped, "\n")

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{Logical: row, Visual: row})
	}
	return lines
}

// GlamourLayout renders markdown through glamour for display while
// recovering logical text by stripping the styling back off. Used when
// the pretty rendering preference is enabled.
type GlamourLayout struct {
	style string
}

// NewGlamourLayout creates a glamour-backed provider. An empty style
// selects glamour's auto style.
func NewGlamourLayout(style string) *GlamourLayout {
	return &GlamourLayout{style: style}
}

// Render implements Layout. Glamour failures fall back to the plain
// provider so a bad style name never blanks the document.
func (g *GlamourLayout) Render(markup string, width int) []Line {
	if width <= 0 {
		width = 80
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if g.style != "" {
		opts = append(opts, glamour.WithStylePath(g.style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return WrapLayout{}.Render(markup, width)
	}

	out, err := renderer.Render(markup)
	if err != nil {
		return WrapLayout{}.Render(markup, width)
	}

	rows := strings.Split(strings.Trim(out, "\n"), "\n")
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			Logical: strings.TrimRight(ansi.Strip(row), " "),
			Visual:  row,
		})
	}
	return lines
}

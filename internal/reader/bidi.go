package reader

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/bidi"
)

// justifyThreshold gates full justification: only lines wider than this
// fraction of the target width are stretched, so short trailing lines
// of a paragraph keep their natural spacing.
const justifyThreshold = 0.8

// ReorderRTL prepares a logical right-to-left line for painting. The
// line is either full-justified to exactly width columns (when justify
// is set and the line is long enough) or right-padded so the padding
// lands on the correct visual side, then run through the Unicode
// bidirectional algorithm. Whitespace-only lines pass through
// unchanged. The function is pure: identical input always yields
// identical output.
func ReorderRTL(line string, width int, justify bool) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return line
	}

	words := strings.Fields(trimmed)
	lineWidth := runewidth.StringWidth(trimmed)

	if justify && len(words) > 1 && float64(lineWidth) > float64(width)*justifyThreshold {
		trimmed = justifyLine(words, width)
	} else if pad := width - lineWidth; pad > 0 {
		trimmed += strings.Repeat(" ", pad)
	}

	return displayOrder(trimmed)
}

// justifyLine redistributes inter-word spacing so the line occupies
// exactly width columns. The remainder spaces go to the first
// (spaces mod slots) gaps, a deterministic bias on gap selection in
// logical order.
func justifyLine(words []string, width int) string {
	total := 0
	for _, w := range words {
		total += runewidth.StringWidth(w)
	}

	slots := len(words) - 1
	spaces := width - total
	if spaces < slots {
		// Line already overflows the target; keep single spaces.
		spaces = slots
	}

	base := spaces / slots
	extra := spaces % slots

	var b strings.Builder
	for i, w := range words[:len(words)-1] {
		b.WriteString(w)
		n := base
		if i < extra {
			n++
		}
		b.WriteString(strings.Repeat(" ", n))
	}
	b.WriteString(words[len(words)-1])
	return b.String()
}

// displayOrder applies the Unicode bidirectional algorithm to a
// logical-order line, producing the visual string to paint.
func displayOrder(s string) string {
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return s
	}

	ordering, err := p.Order()
	if err != nil {
		return s
	}

	var b strings.Builder
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = bidi.ReverseString(text)
		}
		b.WriteString(text)
	}
	return b.String()
}

// ContainsRTLScript reports whether s contains any strong right-to-left
// script runes. Used as the session-level heuristic that flags a whole
// document right-to-left from its file name.
func ContainsRTLScript(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hebrew, r) || unicode.Is(unicode.Arabic, r) || unicode.Is(unicode.Syriac, r) {
			return true
		}
	}
	return false
}

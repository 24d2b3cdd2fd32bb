// Package reader implements the document search and cross-edition
// alignment engine: virtual line addressing over lazily-measured
// segments, wrap-tolerant phrase search, right-to-left line reordering
// and justification, sentence segmentation, and fingerprint alignment
// between parallel editions.
package reader

import (
	"github.com/calmops/folio/internal/book"
)

// Named engine heuristics. These are deliberately small: the engine is
// scroll-oriented and single-document, not an index.
const (
	// DefaultLookaheadLines is how many consecutive virtual lines are
	// joined into one chunk so phrase and sentence matching can span
	// wrapped lines.
	DefaultLookaheadLines = 10

	// DefaultFingerprintSentences is how many full sentences form an
	// alignment fingerprint after the leading partial one is dropped.
	DefaultFingerprintSentences = 4

	// DefaultAlignRadius bounds the alignment scan around the
	// proportional estimate. -1 scans the whole document.
	DefaultAlignRadius = 1000
)

// Tuning overrides the engine heuristics. Zero fields fall back to the
// defaults above.
type Tuning struct {
	LookaheadLines       int
	FingerprintSentences int
}

func (t Tuning) withDefaults() Tuning {
	if t.LookaheadLines <= 0 {
		t.LookaheadLines = DefaultLookaheadLines
	}
	if t.FingerprintSentences <= 0 {
		t.FingerprintSentences = DefaultFingerprintSentences
	}
	return t
}

// Highlighter receives search-match presentation side effects. The
// engine clears any existing highlight before showing a new one.
type Highlighter interface {
	ClearHighlight()
	ShowHighlight(match string, at Coordinate)
}

// Options configure a Content.
type Options struct {
	Layout      Layout      // required
	Width       int         // initial render width
	Justify     bool        // full-justify right-to-left lines
	Highlighter Highlighter // optional
	Tuning      Tuning
}

// NavPoint links a table-of-contents anchor to the first virtual line
// of its segment.
type NavPoint struct {
	ID   string
	Line int
}

// Content is the rendered form of one document: an ordered, immutable
// sequence of segments addressable by global virtual line number. The
// segment sequence is only mutated at construction; the right-to-left
// flag is the one post-construction transition and it is idempotent.
type Content struct {
	segments    []*renderedSegment
	tuning      Tuning
	highlighter Highlighter
	rtl         bool
	width       int
}

// NewContent renders the book's segments through the layout provider.
func NewContent(segments []book.Segment, opts Options) *Content {
	layout := opts.Layout
	if layout == nil {
		layout = WrapLayout{}
	}

	c := &Content{
		tuning:      opts.Tuning.withDefaults(),
		highlighter: opts.Highlighter,
		width:       opts.Width,
	}
	for _, seg := range segments {
		c.segments = append(c.segments, newRenderedSegment(seg, layout, opts.Width, opts.Justify))
	}
	return c
}

// Height is the document's total virtual height: the sum of all segment
// heights at the current width.
func (c *Content) Height() int {
	total := 0
	for _, seg := range c.segments {
		total += seg.height()
	}
	return total
}

// Width returns the current render width.
func (c *Content) Width() int { return c.width }

// SetWidth reflows the document. All cached heights and any line-to-
// segment mapping derived from them are invalidated.
func (c *Content) SetWidth(width int) {
	if width == c.width {
		return
	}
	c.width = width
	for _, seg := range c.segments {
		seg.invalidate(width)
	}
}

// LineTextAt maps the global line y to (segment, local line) and
// returns that line's plain text. The second return is false when y is
// outside [0, Height()); callers treat that as "no content here", not
// failure. applyRTLFix=false returns the logical (un-reordered) text
// even for right-to-left segments, which phrase matching and sentence
// segmentation require for substring offsets to be meaningful.
func (c *Content) LineTextAt(y int, applyRTLFix bool) (string, bool) {
	if y < 0 {
		return "", false
	}

	acc := 0
	for _, seg := range c.segments {
		h := seg.height()
		if acc+h > y {
			return seg.lineText(y-acc, applyRTLFix), true
		}
		acc += h
	}
	return "", false
}

// VisualLineAt returns the string to paint for global line y.
func (c *Content) VisualLineAt(y int) (string, bool) {
	if y < 0 {
		return "", false
	}

	acc := 0
	for _, seg := range c.segments {
		h := seg.height()
		if acc+h > y {
			return seg.visualLine(y - acc), true
		}
		acc += h
	}
	return "", false
}

// MarkRightToLeft flags the document and every segment right-to-left.
// The transition is idempotent and cascades atomically; heights are
// unaffected, so no reflow happens.
func (c *Content) MarkRightToLeft() {
	c.rtl = true
	for _, seg := range c.segments {
		seg.rtl = true
	}
}

// IsRightToLeft reports the document-level right-to-left flag.
func (c *Content) IsRightToLeft() bool { return c.rtl }

// NavPoints returns every navigable segment's anchor with the global
// line it starts on, in document order.
func (c *Content) NavPoints() []NavPoint {
	var points []NavPoint
	acc := 0
	for _, seg := range c.segments {
		if seg.seg.NavPoint != "" {
			points = append(points, NavPoint{ID: seg.seg.NavPoint, Line: acc})
		}
		acc += seg.height()
	}
	return points
}

// lookahead joins up to LookaheadLines consecutive logical lines
// starting at y in the given direction (+1 forward, -1 backward) with
// single spaces. It also returns the rune length of the candidate
// line's own text, which the search dedup check needs.
func (c *Content) lookahead(y, dir int) (chunk string, firstLen int) {
	var parts []string
	for i := 0; i < c.tuning.LookaheadLines; i++ {
		text, ok := c.LineTextAt(y+i*dir, false)
		if !ok {
			break
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	first, _ := c.LineTextAt(y, false)
	return joinLines(parts), runeLen(first)
}

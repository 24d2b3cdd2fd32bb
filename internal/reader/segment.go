package reader

import (
	"github.com/calmops/folio/internal/book"
)

// imageLabel is the logical text of an image segment's single virtual
// line. It deliberately contains no sentence boundary so images never
// contribute to alignment fingerprints.
const imageLabel = "IMAGE"

// renderedSegment binds one book segment to the layout provider and
// caches its wrapped lines. Heights are lazy: the first access at the
// current width runs layout; SetWidth on the owning Content invalidates
// the cache (reflow).
type renderedSegment struct {
	seg     book.Segment
	layout  Layout
	width   int
	justify bool
	rtl     bool
	lines   []Line
}

func newRenderedSegment(seg book.Segment, layout Layout, width int, justify bool) *renderedSegment {
	return &renderedSegment{seg: seg, layout: layout, width: width, justify: justify}
}

func (s *renderedSegment) invalidate(width int) {
	s.width = width
	s.lines = nil
}

func (s *renderedSegment) ensure() {
	if s.lines != nil {
		return
	}

	if s.seg.Type == book.TypeImage {
		s.lines = []Line{{Logical: imageLabel, Visual: imageLabel}}
		return
	}
	s.lines = s.layout.Render(s.seg.Content, s.width)
}

func (s *renderedSegment) height() int {
	s.ensure()
	return len(s.lines)
}

// lineText returns the segment-local line's plain text. With
// applyRTLFix set and the segment flagged right-to-left, the text is
// justified/padded and visually reordered; otherwise the logical form
// is returned, which is what search and sentence segmentation require.
func (s *renderedSegment) lineText(local int, applyRTLFix bool) string {
	s.ensure()
	if local < 0 || local >= len(s.lines) {
		return ""
	}

	if applyRTLFix && s.rtl {
		return ReorderRTL(s.lines[local].Logical, s.width, s.justify)
	}
	return s.lines[local].Logical
}

// visualLine returns the string to paint for the segment-local line.
func (s *renderedSegment) visualLine(local int) string {
	s.ensure()
	if local < 0 || local >= len(s.lines) {
		return ""
	}

	if s.rtl {
		return ReorderRTL(s.lines[local].Logical, s.width, s.justify)
	}
	return s.lines[local].Visual
}

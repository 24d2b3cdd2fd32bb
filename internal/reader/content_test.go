package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmops/folio/internal/book"
)

// lineLayout renders markup one line per newline, ignoring width. It
// keeps test fixtures' line boundaries exact.
type lineLayout struct{}

func (lineLayout) Render(markup string, _ int) []Line {
	rows := strings.Split(markup, "\n")
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{Logical: row, Visual: row})
	}
	return lines
}

func textSegment(lines ...string) book.Segment {
	return book.Segment{Type: book.TypeText, Content: strings.Join(lines, "\n")}
}

func newTestContent(t *testing.T, opts Options, segments ...book.Segment) *Content {
	t.Helper()
	if opts.Layout == nil {
		opts.Layout = lineLayout{}
	}
	if opts.Width == 0 {
		opts.Width = 40
	}
	return NewContent(segments, opts)
}

func TestContent_LineTextAt_SegmentBoundaries(t *testing.T) {
	c := newTestContent(t, Options{},
		textSegment("a1", "a2", "a3", "a4", "a5"),
		book.Segment{Type: book.TypeImage, Content: "cover.png"},
		textSegment("c1", "c2", "c3"),
	)

	require.Equal(t, 9, c.Height())

	// Global line 6 resolves into the third segment's local line 0:
	// 6 - 5 (text) - 1 (image placeholder).
	got, ok := c.LineTextAt(6, false)
	require.True(t, ok)
	assert.Equal(t, "c1", got)

	got, ok = c.LineTextAt(5, false)
	require.True(t, ok)
	assert.Equal(t, "IMAGE", got)

	got, ok = c.LineTextAt(0, false)
	require.True(t, ok)
	assert.Equal(t, "a1", got)

	got, ok = c.LineTextAt(8, false)
	require.True(t, ok)
	assert.Equal(t, "c3", got)
}

func TestContent_LineTextAt_OutOfRange(t *testing.T) {
	c := newTestContent(t, Options{}, textSegment("only"))

	for _, y := range []int{-1, 1, 100} {
		_, ok := c.LineTextAt(y, false)
		assert.False(t, ok, "y=%d", y)
	}
}

func TestContent_MarkRightToLeft(t *testing.T) {
	logical := "שלום עולם"
	c := newTestContent(t, Options{Width: 20}, textSegment(logical))

	got, ok := c.LineTextAt(0, true)
	require.True(t, ok)
	assert.Equal(t, logical, got, "no reordering before the flag is set")

	c.MarkRightToLeft()
	c.MarkRightToLeft() // idempotent

	assert.True(t, c.IsRightToLeft())

	got, ok = c.LineTextAt(0, true)
	require.True(t, ok)
	assert.Equal(t, ReorderRTL(logical, 20, false), got)

	// The logical variant stays untouched; substring offsets depend on it.
	got, ok = c.LineTextAt(0, false)
	require.True(t, ok)
	assert.Equal(t, logical, got)
}

func TestContent_SetWidth_Reflows(t *testing.T) {
	text := strings.Repeat("word ", 20)
	c := NewContent(
		[]book.Segment{{Type: book.TypeText, Content: strings.TrimSpace(text)}},
		Options{Layout: WrapLayout{}, Width: 100},
	)

	wide := c.Height()
	c.SetWidth(20)
	narrow := c.Height()

	assert.Greater(t, narrow, wide, "narrower width must produce more lines")
}

func TestContent_NavPoints(t *testing.T) {
	c := newTestContent(t, Options{},
		book.Segment{Type: book.TypeText, Content: "one\ntwo", NavPoint: "ch1"},
		textSegment("plain"),
		book.Segment{Type: book.TypeText, Content: "three", NavPoint: "ch2"},
	)

	points := c.NavPoints()
	require.Len(t, points, 2)
	assert.Equal(t, NavPoint{ID: "ch1", Line: 0}, points[0])
	assert.Equal(t, NavPoint{ID: "ch2", Line: 3}, points[1])
}

func TestContent_VisualLineAt(t *testing.T) {
	c := newTestContent(t, Options{Width: 10}, textSegment("abc"))

	got, ok := c.VisualLineAt(0)
	require.True(t, ok)
	assert.Equal(t, "abc", got)

	_, ok = c.VisualLineAt(5)
	assert.False(t, ok)
}

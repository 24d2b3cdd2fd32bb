package tui

import (
	"path/filepath"
	"time"

	"github.com/calmops/folio/internal/book"
	"github.com/calmops/folio/internal/core/config"
	"github.com/calmops/folio/internal/data/stores"
	"github.com/calmops/folio/internal/reader"
)

// highlightState records the active search match so the render pass can
// paint it. It implements reader.Highlighter.
type highlightState struct {
	active bool
	match  string
	at     reader.Coordinate
}

func (h *highlightState) ClearHighlight() {
	h.active = false
	h.match = ""
	h.at = reader.Coordinate{}
}

func (h *highlightState) ShowHighlight(match string, at reader.Coordinate) {
	h.active = true
	h.match = match
	h.at = at
}

// searchState tracks an in-progress phrase search: the pattern, the
// coordinate of the last accepted match, and where the reader was when
// the search started so esc can jump back.
type searchState struct {
	Pattern  string
	Cur      reader.Coordinate
	Forward  bool
	Matched  bool
	SavedPos float64
}

// Session is one open book: the parsed document, its laid-out content,
// and the persisted reading state.
type Session struct {
	Book      book.Book
	Content   *reader.Content
	History   stores.History
	Progress  float64
	highlight highlightState
	search    *searchState
}

// NewSession lays out a loaded book at the given text width. Right-to-left
// handling is switched on when the filename carries an RTL script, so
// Hebrew or Arabic editions render correctly without any configuration.
func NewSession(b book.Book, hist stores.History, cfg *config.Config, width int) *Session {
	var layout reader.Layout = reader.WrapLayout{}
	if cfg.Reading.Pretty {
		layout = reader.NewGlamourLayout(cfg.Reading.PrettyStyle)
	}

	s := &Session{
		Book:     b,
		History:  hist,
		Progress: hist.ReadingProgress,
	}
	s.Content = reader.NewContent(b.Segments(), reader.Options{
		Layout:      layout,
		Width:       width,
		Justify:     cfg.Reading.Justify,
		Highlighter: &s.highlight,
		Tuning: reader.Tuning{
			LookaheadLines:       cfg.Engine.LookaheadLines,
			FingerprintSentences: cfg.Engine.FingerprintSentences,
		},
	})

	if reader.ContainsRTLScript(filepath.Base(b.Path())) {
		s.Content.MarkRightToLeft()
	}
	return s
}

// nowFn is swapped out in tests.
var nowFn = time.Now

// FinalHistory snapshots the session into a persistable history row.
func (s *Session) FinalHistory(now time.Time) stores.History {
	meta := s.Book.Meta()
	return stores.History{
		Filepath:        s.Book.Path(),
		Title:           meta.Title,
		Author:          meta.Author,
		ReadingProgress: s.Progress,
		LastRead:        now,
	}
}

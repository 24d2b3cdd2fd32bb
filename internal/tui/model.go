// Package tui implements the terminal reader: a Bubble Tea model over
// the reader engine with search, table-of-contents and metadata
// overlays, toast notifications, and aligned switching between
// parallel editions.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/calmops/folio/internal/book"
	"github.com/calmops/folio/internal/core/config"
	"github.com/calmops/folio/internal/core/logging"
	"github.com/calmops/folio/internal/corpus"
	"github.com/calmops/folio/internal/data/stores"
	"github.com/calmops/folio/internal/reader"
	"github.com/calmops/folio/internal/tui/notify"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateLoading UIState = iota
	stateReading
	stateSearchInput
	stateTOC
	stateMetadata
)

// Options configures the TUI.
type Options struct {
	Config  *config.Config
	History *stores.HistoryStore
	Bus     *notify.Bus
	Paths   []string // book files to open, in tab order
}

// Model is the main Bubble Tea model for the reader.
type Model struct {
	cfg     *config.Config
	history *stores.HistoryStore
	bus     *notify.Bus
	paths   []string

	sessions []*Session
	active   int

	viewport    viewport.Model
	searchInput textinput.Model
	spin        spinner.Model
	toasts      *ToastController
	toastView   *ToastView

	state         UIState
	searchForward bool
	tocPoints     []reader.NavPoint
	tocIndex      int

	corpusIndex *corpus.Index
	corpusTried bool

	width    int
	height   int
	ready    bool
	quitting bool
	err      error

	log zerolog.Logger
}

// New builds the model. Books are loaded asynchronously on Init.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	controller := NewToastController()

	return Model{
		cfg:         opts.Config,
		history:     opts.History,
		bus:         opts.Bus,
		paths:       opts.Paths,
		searchInput: ti,
		spin:        spin,
		toasts:      controller,
		toastView:   NewToastView(controller),
		state:       stateLoading,
		log:         logging.Component("tui"),
	}
}

// Err returns the fatal startup error, if any.
func (m Model) Err() error { return m.err }

// FinalHistories snapshots every open session for persistence on exit.
func (m Model) FinalHistories() []stores.History {
	items := make([]stores.History, 0, len(m.sessions))
	for _, s := range m.sessions {
		items = append(items, s.FinalHistory(nowFn()))
	}
	return items
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadSessions())
}

// loadSessions parses and lays out every requested book off the Update
// loop. Reading history rows are created eagerly so the first quit
// already has something to update.
func (m Model) loadSessions() tea.Cmd {
	cfg, hist, paths, width := m.cfg, m.history, m.paths, m.cfg.Reading.MaxTextWidth
	return func() tea.Msg {
		sessions := make([]*Session, 0, len(paths))
		for _, path := range paths {
			b, err := book.Load(path)
			if err != nil {
				return loadFailedMsg{err: fmt.Errorf("open %s: %w", path, err)}
			}

			row, err := hist.GetOrCreate(context.Background(), b.Path())
			if err != nil {
				return loadFailedMsg{err: fmt.Errorf("reading history for %s: %w", path, err)}
			}

			sessions = append(sessions, NewSession(b, row, cfg, width))
		}
		return sessionsLoadedMsg{sessions: sessions}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case sessionsLoadedMsg:
		m.sessions = msg.sessions
		m.state = stateReading
		if m.ready {
			m.reflow()
		}
		m.log.Debug().Int("books", len(m.sessions)).Msg("sessions loaded")
		return m, nil

	case loadFailedMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateSearchInput:
		return m.handleSearchInputKey(msg)
	case stateTOC:
		m.handleTOCKey(msg)
		return m, nil
	case stateMetadata:
		m.state = stateReading
		return m, nil
	case stateReading:
		cmd := m.handleReadingKey(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleReadingKey(msg tea.KeyMsg) tea.Cmd {
	action, bound := m.cfg.ActionFor(msg.String())
	if !bound {
		return nil
	}

	s := m.session()
	if s == nil {
		if action == config.ActionQuit {
			m.quitting = true
			return tea.Quit
		}
		return nil
	}

	switch action {
	case config.ActionQuit:
		if s.search != nil {
			m.cancelSearch()
			return nil
		}
		m.quitting = true
		return tea.Quit
	case config.ActionScrollDown:
		m.scrollBy(1)
	case config.ActionScrollUp:
		m.scrollBy(-1)
	case config.ActionPageDown:
		m.scrollBy(m.viewport.Height)
	case config.ActionPageUp:
		m.scrollBy(-m.viewport.Height)
	case config.ActionHome:
		m.viewport.SetYOffset(0)
		m.syncProgress()
	case config.ActionEnd:
		m.viewport.SetYOffset(m.maxScroll())
		m.syncProgress()
	case config.ActionSearchForward:
		m.openSearchPrompt(true)
	case config.ActionSearchBackward:
		m.openSearchPrompt(false)
	case config.ActionNextMatch:
		return m.stepSearch(true)
	case config.ActionPrevMatch:
		return m.stepSearch(false)
	case config.ActionSwitchBook:
		return m.switchBook()
	case config.ActionOpenTOC:
		return m.openTOC()
	case config.ActionOpenMetadata:
		m.state = stateMetadata
	}
	return nil
}

func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := m.submitSearch()
		return m, cmd
	case "esc":
		m.state = stateReading
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleTOCKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		if m.tocIndex < len(m.tocPoints)-1 {
			m.tocIndex++
		}
	case "k", "up":
		if m.tocIndex > 0 {
			m.tocIndex--
		}
	case "enter":
		m.viewport.SetYOffset(m.clampOffset(m.tocPoints[m.tocIndex].Line))
		m.syncProgress()
		m.state = stateReading
	case "esc", "q", "t":
		m.state = stateReading
	}
}

// resize reflows every session to the new text width and restores each
// reading position proportionally.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	if !m.ready {
		m.viewport = viewport.New(width, max(height-1, 1))
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = max(height-1, 1)
	}
	m.reflow()
}

func (m *Model) reflow() {
	tw := m.textWidth()
	for _, s := range m.sessions {
		s.Content.SetWidth(tw)
	}
	if s := m.session(); s != nil {
		m.refreshViewport()
		m.viewport.SetYOffset(m.clampOffset(int(math.Round(s.Progress * float64(m.maxScroll())))))
	}
}

// textWidth caps the render width at the configured maximum.
func (m *Model) textWidth() int {
	tw := m.cfg.Reading.MaxTextWidth
	if m.width > 0 && m.width < tw {
		tw = m.width
	}
	return tw
}

func (m *Model) session() *Session {
	if len(m.sessions) == 0 {
		return nil
	}
	return m.sessions[m.active]
}

func (m *Model) maxScroll() int {
	s := m.session()
	if s == nil || m.viewport.Height <= 0 {
		return 0
	}
	return max(0, s.Content.Height()-m.viewport.Height)
}

func (m *Model) clampOffset(off int) int {
	if off < 0 {
		return 0
	}
	if ms := m.maxScroll(); off > ms {
		return ms
	}
	return off
}

func (m *Model) scrollBy(delta int) {
	m.viewport.SetYOffset(m.clampOffset(m.viewport.YOffset + delta))
	m.syncProgress()
}

// scrollToLine brings y into view, placing it in the upper third when a
// jump is needed.
func (m *Model) scrollToLine(y int) {
	top := m.viewport.YOffset
	if y >= top && y < top+m.viewport.Height {
		return
	}
	m.viewport.SetYOffset(m.clampOffset(y - m.viewport.Height/3))
}

// progress is the fraction of the scrollable range consumed.
func (m *Model) progress() float64 {
	ms := m.maxScroll()
	if ms <= 0 {
		return 0
	}
	return float64(m.viewport.YOffset) / float64(ms)
}

func (m *Model) syncProgress() {
	if s := m.session(); s != nil {
		s.Progress = m.progress()
	}
}

// notifyf publishes on the bus (log sinks and other subscribers) and
// shows a toast.
func (m *Model) notifyf(level notify.Level, format string, args ...any) tea.Cmd {
	n := notify.Notification{Level: level, Message: fmt.Sprintf(format, args...)}
	m.bus.Publish(n)
	m.toasts.Push(n)
	if !m.toasts.Ticking() {
		m.toasts.SetTicking(true)
		return scheduleToastTick()
	}
	return nil
}

func (m *Model) openSearchPrompt(forward bool) {
	m.searchForward = forward
	if forward {
		m.searchInput.Prompt = "/"
	} else {
		m.searchInput.Prompt = "?"
	}
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	m.state = stateSearchInput
}

func (m *Model) submitSearch() tea.Cmd {
	pattern := strings.TrimSpace(m.searchInput.Value())
	m.state = stateReading
	m.searchInput.Blur()

	s := m.session()
	if s == nil {
		return nil
	}
	if pattern == "" {
		return m.notifyf(notify.LevelWarning, "empty search pattern")
	}

	y := m.viewport.YOffset
	seed := reader.StartOfLine(y)
	if !m.searchForward {
		seed = reader.EndOfLine(s.Content.Width(), y)
	}

	s.search = &searchState{
		Pattern:  pattern,
		Cur:      seed,
		Forward:  m.searchForward,
		SavedPos: m.progress(),
	}
	return m.stepSearch(true)
}

// stepSearch advances the active search: along=true steps in the
// search's own direction (n), along=false steps against it (N).
func (m *Model) stepSearch(along bool) tea.Cmd {
	s := m.session()
	if s == nil || s.search == nil {
		return nil
	}

	forward := s.search.Forward == along
	coord, ok := s.Content.SearchNext(s.search.Pattern, s.search.Cur, forward)
	if !ok {
		cmd := m.notifyf(notify.LevelWarning, "no match: %s", s.search.Pattern)
		if !s.search.Matched {
			// The very first probe missed; there is nothing to step
			// through, so drop the search entirely.
			s.search = nil
		}
		return cmd
	}

	s.search.Cur = coord
	s.search.Matched = true
	m.scrollToLine(coord.Y)
	m.syncProgress()
	m.refreshViewport()
	return nil
}

// cancelSearch dismisses the search and jumps back to where the reader
// was when it started.
func (m *Model) cancelSearch() {
	s := m.session()
	if s == nil || s.search == nil {
		return
	}

	saved := s.search.SavedPos
	s.search = nil
	s.highlight.ClearHighlight()
	m.viewport.SetYOffset(m.clampOffset(int(math.Round(saved * float64(m.maxScroll())))))
	m.syncProgress()
	m.refreshViewport()
}

// switchBook rotates to the next open book. The new book first lands on
// the proportional position; when the corpus index knows the sentence
// under the old position, the target is refined by fingerprint
// alignment. The switch itself always completes.
func (m *Model) switchBook() tea.Cmd {
	if len(m.sessions) < 2 {
		return m.notifyf(notify.LevelInfo, "no other book open")
	}

	cur := m.session()
	fp := cur.Content.Fingerprint(m.viewport.YOffset)
	cur.Progress = m.progress()
	if cur.search != nil {
		cur.search = nil
		cur.highlight.ClearHighlight()
	}

	m.active = (m.active + 1) % len(m.sessions)
	next := m.session()
	m.refreshViewport()

	target := m.clampOffset(int(math.Round(next.Progress * float64(m.maxScroll()))))
	m.viewport.SetYOffset(target)
	m.syncProgress()

	counterpart, ok := m.counterpartFingerprint(fp)
	if !ok {
		return m.notifyf(notify.LevelWarning, "couldn't align books")
	}

	line, ok := next.Content.Align(context.Background(), counterpart,
		reader.Coordinate{X: -1, Y: target}, m.cfg.Engine.AlignRadius)
	if !ok {
		return m.notifyf(notify.LevelWarning, "couldn't align books")
	}

	m.viewport.SetYOffset(m.clampOffset(line))
	m.syncProgress()
	return nil
}

// counterpartFingerprint translates a fingerprint to the other
// edition's sentence via the corpus index.
func (m *Model) counterpartFingerprint(fp string) (string, bool) {
	if fp == "" {
		return "", false
	}
	idx := m.loadCorpusIndex()
	if idx == nil {
		return "", false
	}
	return idx.Lookup(fp)
}

// loadCorpusIndex lazily loads the first corpus index whose rule
// matches any open book. Failures are logged once and treated as "no
// index".
func (m *Model) loadCorpusIndex() *corpus.Index {
	if m.corpusTried {
		return m.corpusIndex
	}
	m.corpusTried = true

	for _, s := range m.sessions {
		path, ok := m.cfg.IndexFor(s.Book.Path())
		if !ok {
			continue
		}
		idx, err := corpus.Load(path)
		if err != nil {
			m.log.Warn().Err(err).Str("index", path).Msg("corpus index load failed")
			continue
		}
		m.corpusIndex = idx
		m.log.Debug().Str("index", path).Int("pairs", idx.Pairs()).Msg("corpus index loaded")
		break
	}
	return m.corpusIndex
}

func (m *Model) openTOC() tea.Cmd {
	s := m.session()
	points := s.Content.NavPoints()
	if len(points) == 0 {
		return m.notifyf(notify.LevelInfo, "no chapter anchors in this book")
	}

	m.tocPoints = points
	m.tocIndex = 0
	for i, p := range points {
		if p.Line <= m.viewport.YOffset {
			m.tocIndex = i
		}
	}
	m.state = stateTOC
	return nil
}

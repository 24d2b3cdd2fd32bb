package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmops/folio/internal/core/config"
	"github.com/calmops/folio/internal/data/db"
	"github.com/calmops/folio/internal/data/stores"
	"github.com/calmops/folio/internal/tui/notify"
	"github.com/calmops/folio/pkg/tuitest"
)

// newTestModel writes the given books into a temp dir, loads them, and
// delivers the initial window size, leaving the model in reading state.
func newTestModel(t *testing.T, books map[string]string, order []string, cfgMut func(dir string, cfg *config.Config)) Model {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "cfg", "folio.yml"), dir)
	require.NoError(t, err)
	if cfgMut != nil {
		cfgMut(dir, cfg)
	}

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	paths := make([]string, 0, len(order))
	for _, name := range order {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(books[name]), 0o644))
		paths = append(paths, p)
	}

	m := New(Options{
		Config:  cfg,
		History: stores.NewHistoryStore(database),
		Bus:     notify.NewBus(),
		Paths:   paths,
	})

	msg := m.loadSessions()()
	loaded, ok := msg.(sessionsLoadedMsg)
	require.True(t, ok, "book loading failed: %#v", msg)

	return apply(t, m, loaded, tuitest.WindowSize(80, 24))
}

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		mod, _ := m.Update(msg)
		m = mod.(Model)
	}
	return m
}

func applyCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mod, cmd := m.Update(msg)
	return mod.(Model), cmd
}

func longBook(lead string, fillers int) string {
	var b strings.Builder
	b.WriteString(lead)
	b.WriteString("\n\n")
	for i := 0; i < fillers; i++ {
		fmt.Fprintf(&b, "Plain filler paragraph number %d with several harmless words.\n\n", i)
	}
	return b.String()
}

func TestModel_LoadsBooks(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": "---\ntitle: A Book\n---\nhello world."},
		[]string{"a.md"}, nil)

	require.Equal(t, stateReading, m.state)
	require.Len(t, m.sessions, 1)
	assert.Equal(t, "A Book", m.session().Book.Meta().Title)
	assert.Greater(t, m.session().Content.Height(), 0)
	assert.Contains(t, tuitest.StripANSI(m.View()), "A Book")
}

func TestModel_ScrollUpdatesProgress(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": longBook("Opening paragraph.", 40)},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("j"))
	assert.Equal(t, 1, m.viewport.YOffset)
	assert.Greater(t, m.session().Progress, 0.0)

	m = apply(t, m, tuitest.KeyRunes("G"))
	assert.Equal(t, m.maxScroll(), m.viewport.YOffset)
	assert.InDelta(t, 1.0, m.session().Progress, 1e-9)

	m = apply(t, m, tuitest.KeyRunes("g"))
	assert.Equal(t, 0, m.viewport.YOffset)
}

func TestModel_UnboundKeyIsIgnored(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": longBook("Opening paragraph.", 10)},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("x"))
	assert.Equal(t, stateReading, m.state)
	assert.Equal(t, 0, m.viewport.YOffset)
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": "hello."},
		[]string{"a.md"}, nil)

	mod, cmd := applyCmd(t, m, tuitest.KeyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, mod.quitting)
}

func TestModel_SearchFindsPhraseAndHighlights(t *testing.T) {
	content := longBook("Opening paragraph.", 30) +
		"The target phrase hides here near the end of the book.\n"
	m := newTestModel(t,
		map[string]string{"a.md": content},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("/"))
	require.Equal(t, stateSearchInput, m.state)

	m = apply(t, m, tuitest.KeyRunes("TARGET phrase"), tuitest.KeyEnter())

	require.Equal(t, stateReading, m.state)
	s := m.session()
	require.NotNil(t, s.search)
	assert.True(t, s.search.Matched)
	assert.True(t, s.highlight.active)
	assert.Greater(t, m.viewport.YOffset, 0, "viewport jumped to the match")
}

func TestModel_SearchMissShowsToast(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": longBook("Opening paragraph.", 10)},
		[]string{"a.md"}, nil)

	m = apply(t, m,
		tuitest.KeyRunes("/"),
		tuitest.KeyRunes("zebra quux"),
		tuitest.KeyEnter())

	assert.Nil(t, m.session().search, "initial miss drops the search")
	require.True(t, m.toasts.HasToasts())
	assert.Contains(t, m.toasts.Toasts()[0].notification.Message, "no match")
}

func TestModel_EscCancelsSearchAndRestoresPosition(t *testing.T) {
	content := longBook("Opening paragraph.", 30) +
		"The target phrase hides here near the end of the book.\n"
	m := newTestModel(t,
		map[string]string{"a.md": content},
		[]string{"a.md"}, nil)

	m = apply(t, m,
		tuitest.KeyRunes("/"),
		tuitest.KeyRunes("target phrase"),
		tuitest.KeyEnter())
	require.NotNil(t, m.session().search)
	require.Greater(t, m.viewport.YOffset, 0)

	m = apply(t, m, tuitest.KeyEsc())

	assert.Nil(t, m.session().search)
	assert.False(t, m.session().highlight.active)
	assert.Equal(t, 0, m.viewport.YOffset, "restored to where the search started")
}

func TestModel_EmptySearchRejected(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": "hello world."},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("/"), tuitest.KeyEnter())

	assert.Equal(t, stateReading, m.state)
	assert.Nil(t, m.session().search)
	require.True(t, m.toasts.HasToasts())
	assert.Contains(t, m.toasts.Toasts()[0].notification.Message, "empty search")
}

func TestModel_SwitchBookAligned(t *testing.T) {
	eng := "Alpha one. Bravo two. Charlie three. Delta four. Echo five. Foxtrot six.\n"
	other := longBook(
		"Opening line here. Target one. Target two. Target three. Target four. Tail end.",
		30)
	index := `[{"eng": "Bravo two. Charlie three. Delta four. Echo five.",` +
		` "heb": "Target one. Target two. Target three. Target four."}]`

	m := newTestModel(t,
		map[string]string{"eng.md": eng, "other.md": other},
		[]string{"eng.md", "other.md"},
		func(dir string, cfg *config.Config) {
			idxPath := filepath.Join(dir, "index.json")
			require.NoError(t, os.WriteFile(idxPath, []byte(index), 0o644))
			cfg.Corpus = []config.CorpusRule{{Pattern: "**/eng.md", Index: idxPath}}
		})

	m = apply(t, m, tuitest.KeyTab())

	assert.Equal(t, 1, m.active)
	assert.Equal(t, 1, m.viewport.YOffset,
		"landed one line past the matched fingerprint")
	assert.False(t, m.toasts.HasToasts())
}

func TestModel_SwitchBookWithoutIndexStillSwitches(t *testing.T) {
	m := newTestModel(t,
		map[string]string{
			"a.md": longBook("First book opening sentence. Another one.", 5),
			"b.md": longBook("Second book opening sentence. Another one.", 5),
		},
		[]string{"a.md", "b.md"}, nil)

	m = apply(t, m, tuitest.KeyTab())

	assert.Equal(t, 1, m.active)
	assert.Equal(t, 0, m.viewport.YOffset, "proportional position kept")
	require.True(t, m.toasts.HasToasts())
	assert.Contains(t, m.toasts.Toasts()[0].notification.Message, "couldn't align")
}

func TestModel_SwitchBookSingleSession(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": "hello."},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyTab())

	assert.Equal(t, 0, m.active)
	require.True(t, m.toasts.HasToasts())
}

func TestModel_TOCNavigation(t *testing.T) {
	var b strings.Builder
	b.WriteString("# One\n\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "chapter one filler paragraph %d.\n\n", i)
	}
	b.WriteString("# Two\n\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "chapter two filler paragraph %d.\n\n", i)
	}

	m := newTestModel(t,
		map[string]string{"a.md": b.String()},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("t"))
	require.Equal(t, stateTOC, m.state)
	require.Len(t, m.tocPoints, 2)
	assert.Equal(t, "one", m.tocPoints[0].ID)
	assert.Equal(t, "two", m.tocPoints[1].ID)

	m = apply(t, m, tuitest.KeyRunes("j"), tuitest.KeyEnter())
	assert.Equal(t, stateReading, m.state)
	assert.Equal(t, m.tocPoints[1].Line, m.viewport.YOffset)
}

func TestModel_TOCWithoutAnchors(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": "just a paragraph."},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("t"))

	assert.Equal(t, stateReading, m.state)
	require.True(t, m.toasts.HasToasts())
	assert.Contains(t, m.toasts.Toasts()[0].notification.Message, "no chapter anchors")
}

func TestModel_MetadataOverlay(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": "---\ntitle: T\nauthor: Au\n---\nbody text."},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("m"))
	require.Equal(t, stateMetadata, m.state)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Au")

	m = apply(t, m, tuitest.KeyRunes("x"))
	assert.Equal(t, stateReading, m.state)
}

func TestModel_FinalHistories(t *testing.T) {
	m := newTestModel(t,
		map[string]string{"a.md": longBook("Opening paragraph.", 40)},
		[]string{"a.md"}, nil)

	m = apply(t, m, tuitest.KeyRunes("G"))

	items := m.FinalHistories()
	require.Len(t, items, 1)
	assert.Equal(t, m.session().Book.Path(), items[0].Filepath)
	assert.InDelta(t, 1.0, items[0].ReadingProgress, 1e-9)
	assert.False(t, items[0].LastRead.IsZero())
}

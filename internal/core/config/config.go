// Package config handles configuration loading and validation for folio.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/calmops/folio/internal/reader"
)

// Built-in action names for keybindings.
const (
	ActionQuit           = "quit"
	ActionScrollDown     = "scroll_down"
	ActionScrollUp       = "scroll_up"
	ActionPageDown       = "page_down"
	ActionPageUp         = "page_up"
	ActionHome           = "home"
	ActionEnd            = "end"
	ActionSearchForward  = "search_forward"
	ActionSearchBackward = "search_backward"
	ActionNextMatch      = "next_match"
	ActionPrevMatch      = "prev_match"
	ActionSwitchBook     = "switch_book"
	ActionOpenTOC        = "open_toc"
	ActionOpenMetadata   = "open_metadata"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"q":      {Action: ActionQuit, Help: "quit / cancel search"},
	"esc":    {Action: ActionQuit, Help: "quit / cancel search"},
	"j":      {Action: ActionScrollDown, Help: "scroll down"},
	"down":   {Action: ActionScrollDown, Help: "scroll down"},
	"k":      {Action: ActionScrollUp, Help: "scroll up"},
	"up":     {Action: ActionScrollUp, Help: "scroll up"},
	"pgdown": {Action: ActionPageDown, Help: "page down"},
	" ":      {Action: ActionPageDown, Help: "page down"},
	"pgup":   {Action: ActionPageUp, Help: "page up"},
	"g":      {Action: ActionHome, Help: "go to start"},
	"G":      {Action: ActionEnd, Help: "go to end"},
	"/":      {Action: ActionSearchForward, Help: "search forward"},
	"?":      {Action: ActionSearchBackward, Help: "search backward"},
	"n":      {Action: ActionNextMatch, Help: "next match"},
	"N":      {Action: ActionPrevMatch, Help: "previous match"},
	"tab":    {Action: ActionSwitchBook, Help: "switch book (aligned)"},
	"t":      {Action: ActionOpenTOC, Help: "table of contents"},
	"m":      {Action: ActionOpenMetadata, Help: "metadata"},
}

// Config holds the application configuration.
type Config struct {
	Reading     Reading               `yaml:"reading"`
	Engine      Engine                `yaml:"engine"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	Corpus      []CorpusRule          `yaml:"corpus"`
	Database    Database              `yaml:"database"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// Reading holds presentation preferences.
type Reading struct {
	// MaxTextWidth caps the render width in columns.
	MaxTextWidth int `yaml:"max_text_width"`
	// Justify enables full justification of right-to-left lines.
	Justify bool `yaml:"justify"`
	// Pretty renders markdown segments through glamour instead of
	// plain word wrapping.
	Pretty bool `yaml:"pretty"`
	// PrettyStyle is the glamour style name (empty = auto).
	PrettyStyle string `yaml:"pretty_style"`
}

// Engine holds the search/alignment heuristics. These are the named
// forms of the engine's magic constants; leave them alone unless both
// editions' corpus index was built with matching values.
type Engine struct {
	// LookaheadLines is the number of consecutive virtual lines joined
	// so matches can span wrapped lines.
	LookaheadLines int `yaml:"lookahead_lines"`
	// FingerprintSentences is the number of full sentences forming an
	// alignment fingerprint.
	FingerprintSentences int `yaml:"fingerprint_sentences"`
	// AlignRadius bounds the alignment scan in lines around the
	// proportional estimate; -1 scans the whole document.
	AlignRadius int `yaml:"align_radius"`
}

// CorpusRule binds books to a parallel-sentence index file. The first
// rule whose pattern matches the book's path wins.
type CorpusRule struct {
	// Pattern is a doublestar glob matched against the book path and
	// its base name.
	Pattern string `yaml:"pattern"`
	// Index is the path of the parallel-sentence index file.
	Index string `yaml:"index"`
}

// Database holds SQLite connection tuning.
type Database struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout_ms"`
}

// Keybinding defines a TUI keybinding action.
type Keybinding struct {
	Action string `yaml:"action"` // built-in action name
	Help   string `yaml:"help"`   // help text shown in the TUI
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Reading: Reading{
			MaxTextWidth: 80,
			Justify:      true,
		},
		Engine: Engine{
			LookaheadLines:       reader.DefaultLookaheadLines,
			FingerprintSentences: reader.DefaultFingerprintSentences,
			AlignRadius:          reader.DefaultAlignRadius,
		},
		Database: Database{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Keybindings: map[string]Keybinding{},
	}
}

// Load reads the config file at path, applies defaults for anything
// unset, merges user keybindings over the built-ins, and validates. A
// missing file is not an error: defaults apply.
func Load(path, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DataDir = dataDir
	cfg.Keybindings = mergeKeybindings(cfg.Keybindings)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil && !fileExists(path) {
		// Best effort: leave a commented starter config for discoverability.
		_ = os.WriteFile(path, []byte(starterConfig), 0o644)
	}

	return &cfg, nil
}

// mergeKeybindings layers user overrides over the defaults. A user
// entry with an empty action unbinds the key.
func mergeKeybindings(user map[string]Keybinding) map[string]Keybinding {
	merged := make(map[string]Keybinding, len(defaultKeybindings)+len(user))
	for k, v := range defaultKeybindings {
		merged[k] = v
	}
	for k, v := range user {
		if v.Action == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return merged
}

// ActionFor resolves a key press to a bound action name.
func (c *Config) ActionFor(key string) (string, bool) {
	kb, ok := c.Keybindings[key]
	return kb.Action, ok
}

// IndexFor returns the corpus index path configured for the book at
// path, if any rule matches.
func (c *Config) IndexFor(path string) (string, bool) {
	for _, rule := range c.Corpus {
		if rule.Matches(path) {
			return rule.Index, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

const starterConfig = `# folio configuration
#
# reading:
#   max_text_width: 80
#   justify: true
#   pretty: false
#
# engine:
#   lookahead_lines: 10
#   fingerprint_sentences: 4
#   align_radius: 1000   # -1 scans the whole document
#
# corpus:
#   - pattern: "**/war-and-peace*"
#     index: ~/books/war-and-peace.matches.json
#
# keybindings:
#   b: {action: switch_book, help: "switch book"}
`

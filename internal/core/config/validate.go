package config

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// knownActions guards against typos in user keybindings.
var knownActions = map[string]bool{
	ActionQuit:           true,
	ActionScrollDown:     true,
	ActionScrollUp:       true,
	ActionPageDown:       true,
	ActionPageUp:         true,
	ActionHome:           true,
	ActionEnd:            true,
	ActionSearchForward:  true,
	ActionSearchBackward: true,
	ActionNextMatch:      true,
	ActionPrevMatch:      true,
	ActionSwitchBook:     true,
	ActionOpenTOC:        true,
	ActionOpenMetadata:   true,
}

// Validate checks the configuration for values the engine cannot work
// with. It is called by Load; callers constructing a Config by hand
// should call it themselves.
func (c *Config) Validate() error {
	if c.Reading.MaxTextWidth <= 0 {
		return fmt.Errorf("reading.max_text_width must be positive, got %d", c.Reading.MaxTextWidth)
	}

	if c.Engine.LookaheadLines <= 0 {
		return fmt.Errorf("engine.lookahead_lines must be positive, got %d", c.Engine.LookaheadLines)
	}
	if c.Engine.FingerprintSentences <= 0 {
		return fmt.Errorf("engine.fingerprint_sentences must be positive, got %d", c.Engine.FingerprintSentences)
	}
	if c.Engine.AlignRadius < -1 || c.Engine.AlignRadius == 0 {
		return fmt.Errorf("engine.align_radius must be positive or -1, got %d", c.Engine.AlignRadius)
	}

	for i, rule := range c.Corpus {
		if rule.Pattern == "" {
			return fmt.Errorf("corpus[%d]: pattern is required", i)
		}
		if !doublestar.ValidatePattern(rule.Pattern) {
			return fmt.Errorf("corpus[%d]: invalid glob pattern %q", i, rule.Pattern)
		}
		if rule.Index == "" {
			return fmt.Errorf("corpus[%d]: index is required", i)
		}
	}

	for key, kb := range c.Keybindings {
		if !knownActions[kb.Action] {
			return fmt.Errorf("keybindings[%s]: unknown action %q", key, kb.Action)
		}
	}

	return nil
}

// Matches reports whether the rule's pattern matches the book path or
// its base name.
func (r CorpusRule) Matches(path string) bool {
	if ok, err := doublestar.Match(r.Pattern, filepath.ToSlash(path)); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match(r.Pattern, filepath.Base(path))
	return err == nil && ok
}

package reader

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// compilePhrase builds the whitespace-agnostic pattern: words joined by
// one-or-more-whitespace, case-insensitive, dot matching newlines.
// This makes the match tolerant to the exact wrap width of the
// reflowed text. Returns false for a blank pattern; an empty regex
// would match everywhere and callers are expected to reject blank
// submissions before reaching the engine anyway.
func compilePhrase(pattern string) (*regexp.Regexp, bool) {
	words := strings.Fields(pattern)
	if len(words) == 0 {
		return nil, false
	}

	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	re, err := regexp.Compile(`(?is)` + strings.Join(quoted, `\s+`))
	if err != nil {
		return nil, false
	}
	return re, true
}

// SearchNext locates the next (or previous) occurrence of the phrase
// pattern starting from cur. Matches may span wrapped lines: each
// candidate line is extended with a lookahead window in the scan
// direction and a match is only attributed to the candidate when it
// starts within the candidate's own text, so a cross-line match is
// counted exactly once. On the cursor line, forward accepts only
// matches strictly past cur.X and backward only strictly before it,
// which makes repeated stepping terminate. There is no wraparound past
// the document ends.
//
// On acceptance any existing highlight is cleared, the new one is
// shown, and the match coordinate is returned. A miss returns ok=false
// with the cursor untouched; the caller surfaces the "no match" notice.
func (c *Content) SearchNext(pattern string, cur Coordinate, forward bool) (Coordinate, bool) {
	re, ok := compilePhrase(pattern)
	if !ok {
		return Coordinate{}, false
	}

	height := c.Height()
	dir := 1
	if !forward {
		dir = -1
	}

	for y := cur.Y; y >= 0 && y < height; y += dir {
		chunk, firstLen := c.lookahead(y, dir)
		if chunk == "" {
			continue
		}

		if coord, ok := c.acceptMatch(re, chunk, firstLen, y, cur, forward); ok {
			if c.highlighter != nil {
				c.highlighter.ClearHighlight()
				c.highlighter.ShowHighlight(coord.match, coord.at)
			}
			return coord.at, true
		}
	}

	return Coordinate{}, false
}

type matchResult struct {
	match string
	at    Coordinate
}

// acceptMatch scans the chunk's matches for the first one attributable
// to the candidate line y that passes the cursor check. Backward
// stepping wants the nearest previous occurrence, so on a backward scan
// the last acceptable match of the line wins.
func (c *Content) acceptMatch(re *regexp.Regexp, chunk string, firstLen, y int, cur Coordinate, forward bool) (matchResult, bool) {
	var result matchResult
	var found bool

	for _, loc := range re.FindAllStringIndex(chunk, -1) {
		start := utf8.RuneCountInString(chunk[:loc[0]])
		if start > firstLen {
			// Truly starts on a later line; it will be found again when
			// that line becomes the candidate.
			break
		}

		if y == cur.Y {
			if forward && start <= cur.X {
				continue
			}
			if !forward && start >= cur.X {
				continue
			}
		}

		result = matchResult{match: chunk[loc[0]:loc[1]], at: Coordinate{X: start, Y: y}}
		found = true
		if forward {
			return result, true
		}
	}

	return result, found
}

// joinLines joins non-empty lines with single spaces.
func joinLines(parts []string) string {
	return strings.Join(parts, " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

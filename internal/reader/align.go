package reader

import (
	"context"
	"strings"
)

// alignCancelStride is how many scanned lines pass between context
// checks during an alignment scan. A radius == -1 scan is the one
// operation whose latency scales with document size, so it honors
// cancellation at this granularity.
const alignCancelStride = 512

// Fingerprint recovers the sentence fingerprint anchored at line y:
// the lookahead window's logical text is segmented into sentences, the
// first (likely partial) sentence is dropped, and the next up to
// FingerprintSentences are joined with single spaces. Returns "" when
// no full sentence follows the anchor.
func (c *Content) Fingerprint(y int) string {
	chunk, _ := c.lookahead(y, 1)
	sentences := SplitSentences(chunk)
	if len(sentences) <= 1 {
		return ""
	}

	rest := sentences[1:]
	if n := c.tuning.FingerprintSentences; len(rest) > n {
		rest = rest[:n]
	}
	return strings.Join(rest, " ")
}

// Align scans for the line whose fingerprint — computed with the
// identical lookahead + segmentation + drop-first procedure — exactly
// equals the given one. The scan covers [around.Y-radius, around.Y+radius]
// clipped to the document, or the whole document when radius is -1.
// The first match wins and the returned line is one past it, so the
// viewport lands just after the matched fragment begins.
//
// A miss (including an empty fingerprint and a canceled context)
// returns ok=false; the caller reports the failure without moving the
// target viewport. Alignment must only run on explicit user action:
// this is an O(height x lookahead) scan.
func (c *Content) Align(ctx context.Context, fingerprint string, around Coordinate, radius int) (int, bool) {
	if fingerprint == "" {
		return 0, false
	}

	height := c.Height()
	start, end := 0, height
	if radius >= 0 {
		start = max(0, around.Y-radius)
		end = min(around.Y+radius, height)
	}

	for y := start; y < end; y++ {
		if (y-start)%alignCancelStride == 0 && ctx.Err() != nil {
			return 0, false
		}
		if c.Fingerprint(y) == fingerprint {
			return y + 1, true
		}
	}
	return 0, false
}

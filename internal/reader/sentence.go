package reader

import "strings"

// SplitSentences splits text into sentence units. Whitespace runs are
// normalized to single spaces, then the literal period is the sole
// sentence boundary, kept attached to the preceding fragment. A
// trailing fragment without a terminal period is retained; empty
// fragments are dropped.
//
// This is intentionally simplistic: an abbreviation's internal period
// is treated as a sentence end. The alignment engine only needs the
// segmentation to be deterministic and identical on both editions, not
// linguistically correct.
func SplitSentences(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	var sentences []string
	rest := normalized
	for {
		i := strings.IndexByte(rest, '.')
		if i < 0 {
			break
		}
		if frag := strings.TrimSpace(rest[:i]); frag != "" {
			sentences = append(sentences, frag+".")
		}
		rest = rest[i+1:]
	}

	if frag := strings.TrimSpace(rest); frag != "" {
		sentences = append(sentences, frag)
	}
	return sentences
}

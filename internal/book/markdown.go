package book

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Markdown is a plain markdown (or plain text) document. Blocks are
// separated by blank lines; headings become navigation anchors and
// standalone image references become image segments.
type Markdown struct {
	path     string
	meta     Meta
	segments []Segment
}

var _ Book = (*Markdown)(nil)

var imageRe = regexp.MustCompile(`^!\[[^\]]*\]\(([^)\s]+)\)$`)

// LoadMarkdown parses the file at path into a Markdown book. An
// optional yaml front matter block (between two "---" lines) supplies
// title and author; otherwise the first heading or the file name is
// used as the title.
func LoadMarkdown(path string) (*Markdown, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read book: %w", err)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	meta, body := splitFrontMatter(text)

	b := &Markdown{path: path, meta: meta}
	for _, block := range splitBlocks(body) {
		b.segments = append(b.segments, parseBlock(block))
	}

	if b.meta.Title == "" {
		b.meta.Title = firstHeading(b.segments)
	}
	if b.meta.Title == "" {
		base := filepath.Base(path)
		b.meta.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return b, nil
}

func (b *Markdown) Path() string        { return b.path }
func (b *Markdown) Meta() Meta          { return b.meta }
func (b *Markdown) Segments() []Segment { return b.segments }

// splitFrontMatter separates an optional leading yaml front matter
// block from the document body. Malformed front matter is treated as
// body text rather than an error.
func splitFrontMatter(text string) (Meta, string) {
	var meta Meta
	if !strings.HasPrefix(text, "---\n") {
		return meta, text
	}

	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, text
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return Meta{}, text
	}

	body := rest[end+len("\n---"):]
	return meta, strings.TrimPrefix(body, "\n")
}

// splitBlocks splits the body on blank-line boundaries.
func splitBlocks(body string) []string {
	var blocks []string
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func parseBlock(block string) Segment {
	if m := imageRe.FindStringSubmatch(block); m != nil {
		return Segment{Type: TypeImage, Content: m[1]}
	}

	seg := Segment{Type: TypeText, Content: block}
	if strings.HasPrefix(block, "#") {
		seg.NavPoint = headingAnchor(block)
	}
	return seg
}

// headingAnchor derives a stable anchor id from the first heading line.
func headingAnchor(block string) string {
	line := block
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimLeft(line, "# ")
	anchor := strings.ToLower(strings.Join(strings.Fields(line), "-"))
	return anchor
}

func firstHeading(segments []Segment) string {
	for _, seg := range segments {
		if seg.Type == TypeText && strings.HasPrefix(seg.Content, "#") {
			line := seg.Content
			if i := strings.IndexByte(line, '\n'); i >= 0 {
				line = line[:i]
			}
			return strings.TrimSpace(strings.TrimLeft(line, "# "))
		}
	}
	return ""
}

// Load opens a book by file extension. Markdown and plain text share
// the markdown loader; anything else is rejected so the caller can
// surface a clear message instead of garbled segments.
func Load(path string) (Book, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt", "":
		return LoadMarkdown(path)
	default:
		return nil, fmt.Errorf("unsupported book format: %s", filepath.Ext(path))
	}
}

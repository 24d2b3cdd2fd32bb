// Package book defines the document model consumed by the reader: an
// ordered, immutable sequence of renderable segments plus title/author
// metadata. Format decoding stays behind the Book interface; the only
// loader shipped here is a thin markdown adapter.
package book

// SegmentType discriminates renderable units.
type SegmentType int

const (
	// TypeText is a markup block rendered as wrapped lines.
	TypeText SegmentType = iota
	// TypeImage is an image reference occupying one placeholder line.
	TypeImage
)

// Segment is one renderable unit of a document.
type Segment struct {
	Type SegmentType
	// Content holds markup for text segments and the image reference
	// for image segments.
	Content string
	// NavPoint is an optional table-of-contents anchor. Empty means the
	// segment is not navigable.
	NavPoint string
}

// Meta is the document's identifying metadata.
type Meta struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// Book exposes one parsed document. The segment sequence never changes
// after construction.
type Book interface {
	Path() string
	Meta() Meta
	Segments() []Segment
}

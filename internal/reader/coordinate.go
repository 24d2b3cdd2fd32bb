package reader

// Coordinate addresses a position in a document's logical text space.
// Y is a global virtual line index into the document's rendered height;
// X is a rune offset within that line's logical (pre-bidi) text.
type Coordinate struct {
	X int
	Y int
}

// StartOfLine returns a coordinate seeding a forward search from the
// very beginning of line y. X is -1 so a match at offset zero still
// counts as strictly past the cursor.
func StartOfLine(y int) Coordinate {
	return Coordinate{X: -1, Y: y}
}

// EndOfLine returns a coordinate one past the end of line y for a line
// of the given width, seeding a backward search.
func EndOfLine(width, y int) Coordinate {
	return Coordinate{X: width, Y: y}
}

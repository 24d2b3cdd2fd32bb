package tui

// sessionsLoadedMsg delivers the parsed and laid-out books from the
// background loader.
type sessionsLoadedMsg struct {
	sessions []*Session
}

// loadFailedMsg aborts startup when a book cannot be opened.
type loadFailedMsg struct {
	err error
}

package tui

// Async operation messages.
type classifyDoneMsg struct {
	err error
}

type saveDoneMsg struct {
	err error
}

type imageLoadedMsg struct {
	err  error
	path string
}

type historyChangedMsg struct {
	err error
}

// Error handling.
type errorMsg struct {
	err error
}

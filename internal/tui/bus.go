package tui

import tea "github.com/charmbracelet/bubbletea"

// bus carries messages produced outside the bubbletea event loop (controller
// events and capture requests) into it. The model re-arms listen after every
// message it receives.
type bus struct {
	ch chan tea.Msg
}

func newBus() *bus {
	return &bus{ch: make(chan tea.Msg, 64)}
}

// post blocks until there is room. It must not be called from Update.
func (b *bus) post(msg tea.Msg) {
	b.ch <- msg
}

// tryPost drops msg when the buffer is full.
func (b *bus) tryPost(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

func (b *bus) listen() tea.Cmd {
	return func() tea.Msg {
		return <-b.ch
	}
}

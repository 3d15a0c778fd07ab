package pubsub

import (
	tea "github.com/charmbracelet/bubbletea"
)

// EventCmd wraps ev in a tea.Cmd so an Update function can hand it back to the
// runtime instead of handling it inline. The resulting message is the Event
// value itself.
func EventCmd[K comparable, T any](ev Event[K, T]) tea.Cmd {
	return func() tea.Msg {
		return ev
	}
}

package tui

import (
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
)

// waitForState blocks until the controller publishes a state.
func waitForState(states <-chan converter.State) tea.Cmd {
	if states == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg{state: s}
	}
}

// waitForToast blocks until a notification is queued.
func waitForToast(toasts <-chan notify.Toast) tea.Cmd {
	if toasts == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-toasts
		if !ok {
			return nil
		}
		return toastMsg{toast: t}
	}
}

func expireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// latestState is a one-slot mailbox: a new state replaces any snapshot the
// UI has not picked up yet, so the controller never waits on rendering.
// It must have a single writer.
type latestState chan converter.State

func newLatestState() latestState {
	return make(latestState, 1)
}

func (l latestState) publish(s converter.State) {
	select {
	case <-l:
	default:
	}
	l <- s
}

// Package tui provides the Bubble Tea integration for Rockfall.
// It handles the terminal UI loop, input mapping, menus and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
)

// TickMsg is sent to trigger a game frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// LevelsChangedMsg reports that a level file was written or removed.
type LevelsChangedMsg struct {
	Path string
}

// WatchErrorMsg reports a file watcher failure.
type WatchErrorMsg struct {
	Err error
}

// watchCmd waits for the next change reported by w.
// It returns nil once the watcher is closed.
func watchCmd(w *levels.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case p, ok := <-w.Events:
			if !ok {
				return nil
			}
			return LevelsChangedMsg{Path: p}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return WatchErrorMsg{Err: err}
		}
	}
}

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/registry"
)

func menuUpdate(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}

	m := menuUpdate(t, NewMenuModel(cfg), tea.KeyMsg{Type: tea.KeyTab})
	if res := m.Result(); !res.WantsScoreboard {
		t.Errorf("tab should open the scoreboard: %+v", res)
	}

	m = menuUpdate(t, NewMenuModel(cfg), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if res := m.Result(); !res.Quit {
		t.Errorf("q should quit: %+v", res)
	}
}

func TestMenuResize(t *testing.T) {
	m := menuUpdate(t, NewMenuModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}), tea.WindowSizeMsg{Width: 100, Height: 40})
	if cfg := m.Config(); cfg.ScreenW != 100 || cfg.ScreenH != 40 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLevelMenuSelection(t *testing.T) {
	levels := []registry.LevelInfo{{ID: "01-a", Name: "A"}, {ID: "02-b", Name: "B"}}
	m := NewLevelMenuModel("TEST", levels, 80, 24)

	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(LevelMenuModel)
	}

	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyDown}) // Clamped at the last level
	if _, ok := m.Selected(); ok {
		t.Fatal("nothing selected yet")
	}
	step(tea.KeyMsg{Type: tea.KeyEnter})

	id, ok := m.Selected()
	if !ok || id != "02-b" {
		t.Errorf("Selected() = %q, %v; want 02-b", id, ok)
	}
}

func TestLevelMenuStartFromBeginning(t *testing.T) {
	m := NewLevelMenuModel("TEST", []registry.LevelInfo{{ID: "01-a", Name: "A"}}, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(LevelMenuModel)

	id, ok := m.Selected()
	if !ok || id != "" {
		t.Errorf("Selected() = %q, %v; want empty id", id, ok)
	}
}

func TestLevelMenuBack(t *testing.T) {
	m := NewLevelMenuModel("TEST", nil, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(LevelMenuModel)
	if !m.WantsBack() {
		t.Error("esc should go back")
	}
	if _, ok := m.Selected(); ok {
		t.Error("back is not a selection")
	}
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	s := NewSessionModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, Options{})

	step := func(msg tea.Msg) {
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if s.current != screenScores {
		t.Fatalf("screen = %v, want scoreboard", s.current)
	}
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if s.current != screenMenu {
		t.Fatalf("screen = %v, want menu", s.current)
	}
	step(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !s.quitting {
		t.Error("q in the menu should end the session")
	}
}

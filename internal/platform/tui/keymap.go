package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rockfall/internal/core"
)

// Default key timing. Terminals report a held key as a stream of repeated
// key presses, so holding is inferred from repeats.
const (
	DefaultHoldTimeout  = 150 * time.Millisecond
	DefaultRepeatWindow = 600 * time.Millisecond
)

// KeyMapper translates Bubble Tea key messages to game actions.
//
// A first press of a direction is a tap and goes to the frame's pressed list.
// Pressing the same direction again within the repeat window marks it as held
// instead; the hold ends when no repeat arrives within the hold timeout or a
// different direction is pressed.
type KeyMapper struct {
	holdTimeout  time.Duration
	repeatWindow time.Duration

	lastDir core.Action
	lastAt  time.Time
	held    core.Action
	heldAt  time.Time
}

// NewKeyMapper creates a new key mapper with default bindings and timing.
func NewKeyMapper() *KeyMapper {
	return NewKeyMapperWithTiming(DefaultHoldTimeout, DefaultRepeatWindow)
}

// NewKeyMapperWithTiming creates a key mapper with custom hold inference timing.
// Non-positive values fall back to the defaults.
func NewKeyMapperWithTiming(holdTimeout, repeatWindow time.Duration) *KeyMapper {
	if holdTimeout <= 0 {
		holdTimeout = DefaultHoldTimeout
	}
	if repeatWindow <= 0 {
		repeatWindow = DefaultRepeatWindow
	}
	return &KeyMapper{holdTimeout: holdTimeout, repeatWindow: repeatWindow}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "w", "up", "k":
		return core.ActionUp, false
	case "s", "down", "j":
		return core.ActionDown, false
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case "enter", " ":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message received at now.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame, now time.Time) bool {
	action, isQuit := km.MapKey(msg)
	if isQuit {
		return true
	}
	if action == core.ActionNone {
		return false
	}
	if !action.IsDirection() {
		frame.Press(action)
		return false
	}

	if action == km.lastDir && now.Sub(km.lastAt) <= km.repeatWindow {
		km.held = action
		km.heldAt = now
	} else {
		frame.Press(action)
		if km.held != action {
			km.held = core.ActionNone
		}
	}
	km.lastDir = action
	km.lastAt = now
	return false
}

// Held returns the direction currently held at now, or ActionNone.
// An expired hold also forgets the last direction so the next press is a tap.
func (km *KeyMapper) Held(now time.Time) core.Action {
	if km.held != core.ActionNone && now.Sub(km.heldAt) > km.holdTimeout {
		km.Release()
	}
	return km.held
}

// Release drops any held direction.
func (km *KeyMapper) Release() {
	km.held = core.ActionNone
	km.lastDir = core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}

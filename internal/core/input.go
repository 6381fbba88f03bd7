package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow
	ActionDown           // S, J, Down arrow
	ActionLeft           // A, H, Left arrow
	ActionRight          // D, L, Right arrow
	ActionConfirm        // Enter, Space - confirm / next level
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R - restart the current level
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether the action is one of the four movement actions.
func (a Action) IsDirection() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}

// InputFrame is the input for one platform frame.
//
// Pressed lists discrete presses in the order they arrived (taps).
// Held is the direction currently held down, or ActionNone.
type InputFrame struct {
	Pressed []Action
	Held    Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Pressed: make([]Action, 0, 4)}
}

// Press appends a discrete press for this frame.
func (f *InputFrame) Press(a Action) {
	f.Pressed = append(f.Pressed, a)
}

// Has returns true if the action was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	for _, p := range f.Pressed {
		if p == a {
			return true
		}
	}
	return false
}

// Directions returns the directional presses in arrival order.
func (f InputFrame) Directions() []Action {
	out := make([]Action, 0, len(f.Pressed))
	for _, p := range f.Pressed {
		if p.IsDirection() {
			out = append(out, p)
		}
	}
	return out
}

// Clear resets the frame for reuse. Held is kept.
func (f *InputFrame) Clear() {
	f.Pressed = f.Pressed[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := InputFrame{Pressed: make([]Action, len(f.Pressed)), Held: f.Held}
	copy(clone.Pressed, f.Pressed)
	return clone
}

package core

import "testing"

func TestInputFrameKeepsPressOrder(t *testing.T) {
	f := NewInputFrame()
	f.Press(ActionRight)
	f.Press(ActionPause)
	f.Press(ActionUp)
	f.Press(ActionRight)

	dirs := f.Directions()
	want := []Action{ActionRight, ActionUp, ActionRight}
	if len(dirs) != len(want) {
		t.Fatalf("Directions() = %v, expected %v", dirs, want)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("Directions()[%d] = %v, expected %v", i, dirs[i], want[i])
		}
	}
	if !f.Has(ActionPause) || f.Has(ActionQuit) {
		t.Error("Has() reported wrong presses")
	}
}

func TestInputFrameClearKeepsHeld(t *testing.T) {
	f := NewInputFrame()
	f.Held = ActionLeft
	f.Press(ActionLeft)

	c := f.Clone()
	f.Clear()

	if len(f.Pressed) != 0 {
		t.Error("Clear() left presses behind")
	}
	if f.Held != ActionLeft {
		t.Error("Clear() dropped the held direction")
	}
	if len(c.Pressed) != 1 || c.Held != ActionLeft {
		t.Errorf("Clone() = %+v, expected independent copy", c)
	}
}

func TestActionIsDirection(t *testing.T) {
	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if !a.IsDirection() {
			t.Errorf("%v should be a direction", a)
		}
	}
	for _, a := range []Action{ActionNone, ActionConfirm, ActionPause, ActionQuit} {
		if a.IsDirection() {
			t.Errorf("%v should not be a direction", a)
		}
	}
}

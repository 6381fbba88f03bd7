package core

import "fmt"

// MoveKind is the outcome of resolving one player intent.
type MoveKind uint8

const (
	MoveBlocked MoveKind = iota // no state change
	MoveWalk
	MoveDig
	MoveCollect
	MovePush
	MoveExit
)

// String returns the string representation of a move kind.
func (k MoveKind) String() string {
	switch k {
	case MoveBlocked:
		return "blocked"
	case MoveWalk:
		return "walk"
	case MoveDig:
		return "dig"
	case MoveCollect:
		return "collect"
	case MovePush:
		return "push"
	case MoveExit:
		return "exit"
	default:
		return "unknown"
	}
}

// MoveResult describes what a single intent did.
type MoveResult struct {
	Kind   MoveKind
	From   Pos
	To     Pos
	Events []Event
}

// Changed reports whether the intent mutated the world.
func (r MoveResult) Changed() bool {
	return r.Kind != MoveBlocked
}

// resolveIntent applies one cardinal intent to the player.
// Exactly one outcome happens per call:
//
//	Empty   -> walk
//	Dirt    -> dig (dirt removed, player moves)
//	Diamond -> collect (counter incremented, player moves)
//	Exit    -> level complete, only once the exit has spawned
//	Boulder -> horizontal push when the cell beyond is Empty and in bounds
//	other   -> blocked, no change
func (s *State) resolveIntent(d Dir) (MoveResult, error) {
	dx, dy := d.Delta()
	if dx == 0 && dy == 0 {
		return MoveResult{}, fmt.Errorf("intent %s: %w", d, ErrInvalidIntent)
	}

	w := s.World
	player := w.Player()
	if player == nil || !w.PlayerAlive() {
		return MoveResult{Kind: MoveBlocked}, nil
	}

	from := player.Pos
	to := from.Step(d)
	result := MoveResult{Kind: MoveBlocked, From: from, To: to}

	target, ok := w.Lookup(to)
	if !ok {
		result.Events = append(result.Events, Event{Kind: EventPlayerBlocked, Pos: to, EntityID: player.ID})
		return result, nil
	}

	switch target {
	case Empty:
		result.Kind = MoveWalk

	case Dirt:
		dirt, err := w.Remove(to)
		if err != nil {
			return result, err
		}
		result.Kind = MoveDig
		result.Events = append(result.Events, Event{Kind: EventDirtDug, Pos: to, EntityID: dirt.ID})

	case Diamond:
		diamond, err := w.Remove(to)
		if err != nil {
			return result, err
		}
		s.DiamondsCollected++
		result.Kind = MoveCollect
		result.Events = append(result.Events, Event{Kind: EventDiamondCollected, Pos: to, EntityID: diamond.ID})

	case Exit:
		if !s.ExitSpawned {
			break
		}
		if _, err := w.Remove(to); err != nil {
			return result, err
		}
		result.Kind = MoveExit

	case Boulder:
		if dy != 0 {
			break
		}
		beyond := to.Step(d)
		if k, ok := w.Lookup(beyond); !ok || k != Empty {
			break
		}
		boulder := w.EntityAt(to)
		if err := w.Move(to, beyond); err != nil {
			return result, err
		}
		boulder.Motion = Motion{}
		result.Kind = MovePush
		result.Events = append(result.Events, Event{Kind: EventBoulderPushed, Pos: beyond, EntityID: boulder.ID})
	}

	if result.Kind == MoveBlocked {
		result.Events = append(result.Events, Event{Kind: EventPlayerBlocked, Pos: to, EntityID: player.ID})
		return result, nil
	}

	if err := w.Move(from, to); err != nil {
		return result, err
	}
	result.Events = append(result.Events, Event{Kind: EventPlayerMoved, Pos: to, EntityID: player.ID})
	if result.Kind == MoveExit {
		result.Events = append(result.Events, Event{Kind: EventExitReached, Pos: to, EntityID: player.ID})
	}
	return result, nil
}

// ApplyIntent resolves a single (dx, dy) intent outside the tick queue.
// It returns true if the world changed. Non-unit vectors are rejected
// without touching the world. Events produced here are reported by the
// next call to Tick.
func (s *State) ApplyIntent(dx, dy int) bool {
	if s.Status != OutcomeContinue {
		return false
	}
	d, ok := DirFromDelta(dx, dy)
	if !ok {
		return false
	}
	res, err := s.resolveIntent(d)
	if err != nil {
		return false
	}
	s.pending = append(s.pending, res.Events...)
	if res.Kind == MoveExit {
		s.Status = OutcomeLevelComplete
	}
	if res.Changed() {
		s.pendingChanged = true
	}
	return res.Changed()
}

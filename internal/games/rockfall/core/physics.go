package core

// LooseMoveKind classifies how a loose object moved during a physics pass.
type LooseMoveKind uint8

const (
	LooseStay LooseMoveKind = iota
	LooseFall
	LooseRollLeft
	LooseRollRight
	LooseCrush // fell into the player's cell
)

// LooseMove records a loose object changing position.
type LooseMove struct {
	EntityID int
	Kind     Kind
	From     Pos
	To       Pos
	Move     LooseMoveKind
}

// PhysicsResult contains everything a single physics pass did.
type PhysicsResult struct {
	Moves   []LooseMove
	Events  []Event
	Crushed bool // true if a loose object fell onto the player
}

// StepPhysics resolves one gravity step for every loose object.
//
// Scan order: rows bottom to top, and within each row columns right to left.
// Each object moves at most one tile per pass; an object that already moved
// this pass is skipped when the scan reaches its new cell (rolling left
// lands it in the next scan position).
//
// Per object, exactly one of:
//  1. Fall: the cell below is Empty.
//  2. Crush: the cell below is the Player and the object was already falling.
//  3. Roll: the cell below is loose; try left, then right. A side is clear
//     when both the side cell and the cell diagonally below it are Empty.
//  4. Stay: anything else.
func (w *World) StepPhysics() PhysicsResult {
	result := PhysicsResult{
		Moves:  make([]LooseMove, 0),
		Events: make([]Event, 0),
	}
	moved := make(map[*Entity]bool)

	for y := w.H - 1; y >= 0; y-- {
		for x := w.W - 1; x >= 0; x-- {
			e := w.entities[y*w.W+x]
			if e == nil || !e.Kind.IsLoose() || moved[e] {
				continue
			}

			from := e.Pos
			prev := e.Motion
			move, to := resolveLoose(w, e.Kind, from, prev)

			if move != LooseStay {
				if err := w.Move(from, to); err != nil {
					// resolveLoose only targets in-bounds cells; treat as stationary.
					move = LooseStay
				} else {
					moved[e] = true
					result.Moves = append(result.Moves, LooseMove{
						EntityID: e.ID,
						Kind:     e.Kind,
						From:     from,
						To:       to,
						Move:     move,
					})
				}
			}

			falling := move == LooseFall || move == LooseCrush
			rolling := move == LooseRollLeft || move == LooseRollRight
			e.Motion = Motion{
				Falling:            falling,
				Rolling:            rolling,
				JustLanded:         prev.Falling && !falling,
				JustStartedRolling: !prev.Rolling && rolling,
			}

			if e.Motion.JustLanded {
				result.Events = append(result.Events, Event{Kind: landedEvent(e.Kind), Pos: e.Pos, EntityID: e.ID})
			}
			if e.Motion.JustStartedRolling {
				result.Events = append(result.Events, Event{Kind: rollEvent(e.Kind), Pos: e.Pos, EntityID: e.ID})
			}
			if move == LooseCrush {
				result.Crushed = true
				result.Events = append(result.Events, Event{Kind: EventPlayerCrushed, Pos: to, EntityID: e.ID})
			}
		}
	}

	return result
}

// resolveLoose decides what a loose object at p does this pass.
// Boulders and diamonds share the same geometry.
func resolveLoose(w *World, k Kind, p Pos, prev Motion) (LooseMoveKind, Pos) {
	switch k {
	case Boulder, Diamond:
		below := p.Below()
		switch bk := w.Get(below); {
		case bk == Empty:
			return LooseFall, below
		case bk == Player && prev.Falling:
			return LooseCrush, below
		case bk.IsLoose():
			left := p.Add(-1, 0)
			if w.Get(left) == Empty && w.Get(left.Below()) == Empty {
				return LooseRollLeft, left
			}
			right := p.Add(1, 0)
			if w.Get(right) == Empty && w.Get(right.Below()) == Empty {
				return LooseRollRight, right
			}
		}
		return LooseStay, p
	default:
		return LooseStay, p
	}
}

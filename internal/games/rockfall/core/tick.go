package core

// IntentQueue is a FIFO of discrete player intents (taps).
// A positive limit caps the queue; pushes beyond it are dropped.
type IntentQueue struct {
	items []Dir
	limit int
}

// NewIntentQueue creates a queue. limit <= 0 means unbounded.
func NewIntentQueue(limit int) *IntentQueue {
	return &IntentQueue{items: make([]Dir, 0), limit: limit}
}

// Push appends an intent. Returns false if the queue is full.
func (q *IntentQueue) Push(d Dir) bool {
	if q.limit > 0 && len(q.items) >= q.limit {
		return false
	}
	q.items = append(q.items, d)
	return true
}

// Pop removes and returns the oldest intent.
func (q *IntentQueue) Pop() (Dir, bool) {
	if len(q.items) == 0 {
		return DirNone, false
	}
	d := q.items[0]
	q.items = q.items[1:]
	return d, true
}

// Len returns the number of queued intents.
func (q *IntentQueue) Len() int {
	return len(q.items)
}

// Clear drops all queued intents.
func (q *IntentQueue) Clear() {
	q.items = q.items[:0]
}

// TickResult contains information about what happened during one tick.
type TickResult struct {
	Tick    uint64
	Changed bool // Any visible state changed; renderers redraw on true
	Events  []Event
	Outcome Outcome
	Won     bool
}

// Tick advances the level by one simulation step.
//
// Order:
//  1. Queued intents are popped FIFO until one changes the world. Blocked or
//     invalid intents are consumed; the rest stay queued.
//  2. If none applied, the held direction is applied once.
//  3. Reaching the exit completes the level; physics does not run.
//  4. Physics runs once.
//  5. A loose object ending on the player's cell ends the game.
//  6. The exit spawns once the diamond threshold is met.
//
// Events and changes from ApplyIntent calls since the previous tick are
// reported first. After a terminal outcome Tick is a no-op that keeps
// reporting it.
func (s *State) Tick(pending *IntentQueue, held Dir) TickResult {
	if s.Status != OutcomeContinue {
		changed := s.pendingChanged
		return s.result(TickResult{Changed: changed, Events: s.drainPending()})
	}

	s.Ticks++
	changed := s.pendingChanged
	res := TickResult{Changed: changed, Events: s.drainPending()}

	var move MoveResult
	applied := false
	if pending != nil {
		for {
			d, ok := pending.Pop()
			if !ok {
				break
			}
			mr, err := s.resolveIntent(d)
			if err != nil {
				continue
			}
			res.Events = append(res.Events, mr.Events...)
			if mr.Changed() {
				move, applied = mr, true
				break
			}
		}
	}
	if !applied && held != DirNone {
		if mr, err := s.resolveIntent(held); err == nil {
			res.Events = append(res.Events, mr.Events...)
			if mr.Changed() {
				move, applied = mr, true
			}
		}
	}
	if applied {
		res.Changed = true
	}

	if move.Kind == MoveExit {
		s.Status = OutcomeLevelComplete
		return s.result(res)
	}

	phys := s.World.StepPhysics()
	res.Events = append(res.Events, phys.Events...)
	if len(phys.Moves) > 0 {
		res.Changed = true
	}

	if s.playerHit(phys) {
		if !phys.Crushed {
			p := s.World.Player()
			res.Events = append(res.Events, Event{Kind: EventPlayerCrushed, Pos: p.Pos, EntityID: p.ID})
		}
		s.Status = OutcomeGameOver
		s.Won = false
		return s.result(res)
	}

	if p, ok := s.spawnExit(); ok {
		res.Changed = true
		e := s.World.EntityAt(p)
		res.Events = append(res.Events, Event{Kind: EventExitSpawned, Pos: p, EntityID: e.ID})
	}

	return s.result(res)
}

// DecrementTimer counts the level timer down by one and returns what is left.
// Reaching zero ends the game with GameOver(won=false).
func (s *State) DecrementTimer() int {
	if s.Status != OutcomeContinue {
		return s.TimeLeft
	}
	s.TimeLeft--
	if s.TimeLeft <= 0 {
		s.Status = OutcomeGameOver
		s.Won = false
		var at Pos
		id := 0
		if p := s.World.Player(); p != nil {
			at, id = p.Pos, p.ID
		}
		s.pending = append(s.pending, Event{Kind: EventTimeUp, Pos: at, EntityID: id})
	}
	return s.TimeLeft
}

// playerHit reports whether physics put a loose object on the player.
func (s *State) playerHit(phys PhysicsResult) bool {
	if phys.Crushed || !s.World.PlayerAlive() {
		return true
	}
	p := s.World.Player().Pos
	for _, m := range phys.Moves {
		if m.To == p {
			return true
		}
	}
	return false
}

// spawnExit places the exit once enough diamonds are collected.
// A pre-placed exit is simply unlocked. Otherwise the first Dirt cell in
// reading order becomes the exit, falling back to the first Empty cell.
// If neither exists the spawn is retried on a later tick.
func (s *State) spawnExit() (Pos, bool) {
	if s.ExitSpawned || s.DiamondsCollected < s.DiamondsNeeded {
		return Pos{}, false
	}
	w := s.World
	if p, ok := w.FindFirst(Exit); ok {
		s.ExitSpawned = true
		return p, true
	}
	p, ok := w.FindFirst(Dirt)
	if !ok {
		p, ok = w.FindFirst(Empty)
	}
	if !ok {
		return Pos{}, false
	}
	if _, err := w.Replace(p, Exit); err != nil {
		return Pos{}, false
	}
	s.ExitSpawned = true
	return p, true
}

func (s *State) result(res TickResult) TickResult {
	res.Tick = s.Ticks
	res.Outcome = s.Status
	res.Won = s.Won
	if res.Events == nil {
		res.Events = make([]Event, 0)
	}
	return res
}

func (s *State) drainPending() []Event {
	s.pendingChanged = false
	if len(s.pending) == 0 {
		return make([]Event, 0)
	}
	out := s.pending
	s.pending = nil
	return out
}

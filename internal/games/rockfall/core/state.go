package core

import "fmt"

// State is one level in progress: the world plus its counters and status.
type State struct {
	World             *World
	DiamondsCollected int
	DiamondsNeeded    int
	TimeLeft          int
	ExitSpawned       bool
	Ticks             uint64  // Number of ticks resolved so far
	Status            Outcome // Terminal once not OutcomeContinue
	Won               bool    // Only meaningful with OutcomeGameOver

	pending        []Event // Emitted outside Tick, reported by the next Tick
	pendingChanged bool    // The world changed outside Tick since the last one
}

// Counters is a read-only view of the level counters, for HUDs.
type Counters struct {
	DiamondsCollected int
	DiamondsNeeded    int
	TimeLeft          int
	ExitSpawned       bool
	Tick              uint64
}

// NewState creates a level state around an already populated world.
// The world must hold exactly one player and satisfy Verify.
// A pre-placed Exit stays gated until the diamond threshold is met.
func NewState(world *World, diamondsNeeded, timeLimit int) (*State, error) {
	if world == nil {
		return nil, ErrNoPlayer
	}
	if err := world.Verify(); err != nil {
		return nil, err
	}
	if !world.PlayerAlive() {
		return nil, ErrNoPlayer
	}
	if diamondsNeeded < 0 {
		diamondsNeeded = 0
	}
	return &State{
		World:          world,
		DiamondsNeeded: diamondsNeeded,
		TimeLeft:       timeLimit,
		Status:         OutcomeContinue,
	}, nil
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.World = s.World.Clone()
	c.pending = append([]Event(nil), s.pending...)
	return &c
}

// Cells returns a copy of the grid in row-major order.
func (s *State) Cells() []Kind {
	return s.World.Cells()
}

// Counters returns the current counters.
func (s *State) Counters() Counters {
	return Counters{
		DiamondsCollected: s.DiamondsCollected,
		DiamondsNeeded:    s.DiamondsNeeded,
		TimeLeft:          s.TimeLeft,
		ExitSpawned:       s.ExitSpawned,
		Tick:              s.Ticks,
	}
}

// Done reports whether the state has reached a terminal outcome.
func (s *State) Done() bool {
	return s.Status != OutcomeContinue
}

// MarkWon ends the run with GameOver(won=true). The host calls this when the
// last level of a campaign is completed.
func (s *State) MarkWon() {
	s.Status = OutcomeGameOver
	s.Won = true
}

// String returns a one-line summary of the state, for logs.
func (s *State) String() string {
	return fmt.Sprintf("tick=%d diamonds=%d/%d time=%d exit=%v status=%s",
		s.Ticks, s.DiamondsCollected, s.DiamondsNeeded, s.TimeLeft, s.ExitSpawned, s.Status)
}

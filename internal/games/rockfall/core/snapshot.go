package core

import (
	"fmt"
	"hash/fnv"
)

// Snapshot returns a deterministic hash of the complete state.
// Two states produced from the same level and the same intents hash equal.
func (s *State) Snapshot() uint64 {
	h := fnv.New64a()

	w := s.World
	fmt.Fprintf(h, "S:%dx%d;", w.W, w.H)

	// Grid and registry
	fmt.Fprintf(h, "G:")
	for i, k := range w.cells {
		e := w.entities[i]
		if e == nil {
			fmt.Fprintf(h, "%d,", k)
			continue
		}
		fmt.Fprintf(h, "%d:%d:%v:%v:%v:%v,", k, e.ID,
			e.Motion.Falling, e.Motion.Rolling, e.Motion.JustLanded, e.Motion.JustStartedRolling)
	}

	fmt.Fprintf(h, ";C:%d:%d:%d:%v", s.DiamondsCollected, s.DiamondsNeeded, s.TimeLeft, s.ExitSpawned)
	fmt.Fprintf(h, ";T:%d;O:%d:%v", s.Ticks, s.Status, s.Won)

	return h.Sum64()
}

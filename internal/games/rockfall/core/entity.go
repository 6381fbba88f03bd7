package core

// Motion holds the transient per-tick motion flags of a loose object.
// Falling and Rolling describe the last physics pass; JustLanded and
// JustStartedRolling are edge-triggered and only live for one tick.
type Motion struct {
	Falling            bool
	Rolling            bool
	JustLanded         bool
	JustStartedRolling bool
}

// Entity is an identity-bearing object occupying one grid cell.
type Entity struct {
	ID     int
	Kind   Kind
	Pos    Pos
	Motion Motion
}

// Clone returns a copy of the entity.
func (e *Entity) Clone() *Entity {
	c := *e
	return &c
}

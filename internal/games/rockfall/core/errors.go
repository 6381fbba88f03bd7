package core

import "errors"

var (
	// ErrOutOfBounds is returned when a mutation addresses a coordinate outside the grid.
	// Callers are expected to bounds-check; seeing this error means a logic bug.
	ErrOutOfBounds = errors.New("core: position out of bounds")

	// ErrInvalidIntent is returned for a directional intent that is not a unit cardinal step.
	ErrInvalidIntent = errors.New("core: intent is not a unit cardinal direction")

	// ErrEntityMismatch is returned when Set is called with a kind and entity that disagree.
	ErrEntityMismatch = errors.New("core: cell kind does not match entity")

	// ErrDuplicatePlayer is returned when a second player is placed into a world.
	ErrDuplicatePlayer = errors.New("core: world already has a player")

	// ErrNoPlayer is returned when a state is built from a world without a player.
	ErrNoPlayer = errors.New("core: world has no player")

	// ErrInvariant is returned by Verify when grid and registry disagree.
	ErrInvariant = errors.New("core: grid and registry out of sync")
)

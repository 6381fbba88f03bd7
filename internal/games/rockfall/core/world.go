package core

import "fmt"

// World is the authoritative state model: a typed cell grid plus a
// position-indexed entity registry. Both are stored in row-major order
// (index = y*W + x) and are only ever written through Set.
//
// Invariant: cells[i] == Empty iff entities[i] == nil; otherwise
// cells[i] == entities[i].Kind and entities[i].Pos is the coordinate of i.
type World struct {
	W int
	H int

	cells    []Kind
	entities []*Entity
	player   *Entity
	nextID   int
}

// NewWorld creates a world with every cell empty.
func NewWorld(w, h int) *World {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &World{
		W:        w,
		H:        h,
		cells:    make([]Kind, w*h),
		entities: make([]*Entity, w*h),
		nextID:   1,
	}
}

// index converts a position to a flat array index.
func (w *World) index(p Pos) int {
	return p.Y*w.W + p.X
}

// InBounds returns true if the position is within [0,W)x[0,H).
func (w *World) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < w.W && p.Y >= 0 && p.Y < w.H
}

// Get returns the kind at the given position.
// Out-of-bounds positions read as Wall so that the board edge is solid.
func (w *World) Get(p Pos) Kind {
	if !w.InBounds(p) {
		return Wall
	}
	return w.cells[w.index(p)]
}

// Lookup returns the kind at the given position and whether it is in bounds.
func (w *World) Lookup(p Pos) (Kind, bool) {
	if !w.InBounds(p) {
		return Empty, false
	}
	return w.cells[w.index(p)], true
}

// EntityAt returns the entity registered at the given position, or nil.
func (w *World) EntityAt(p Pos) *Entity {
	if !w.InBounds(p) {
		return nil
	}
	return w.entities[w.index(p)]
}

// Player returns the player entity. The pointer stays valid after the player
// has been crushed; use PlayerAlive to check whether it is still registered.
func (w *World) Player() *Entity {
	return w.player
}

// PlayerAlive reports whether the player entity is still registered on the grid.
func (w *World) PlayerAlive() bool {
	if w.player == nil {
		return false
	}
	return w.EntityAt(w.player.Pos) == w.player
}

// Set is the single write path for the grid and the registry.
// It writes both together; kind must be Empty with a nil entity, or match
// the entity's kind. Any entity previously at p is dropped from the registry.
func (w *World) Set(p Pos, k Kind, e *Entity) error {
	if !w.InBounds(p) {
		return fmt.Errorf("set %v: %w", p, ErrOutOfBounds)
	}
	if (k == Empty) != (e == nil) {
		return fmt.Errorf("set %v to %s: %w", p, k, ErrEntityMismatch)
	}
	if e != nil {
		if e.Kind != k {
			return fmt.Errorf("set %v to %s with %s entity: %w", p, k, e.Kind, ErrEntityMismatch)
		}
		if e.Pos != p && w.EntityAt(e.Pos) == e {
			return fmt.Errorf("set %v: entity %d still registered at %v: %w", p, e.ID, e.Pos, ErrEntityMismatch)
		}
		if k == Player && w.player != nil && w.player != e && w.PlayerAlive() {
			return fmt.Errorf("set %v: %w", p, ErrDuplicatePlayer)
		}
	}

	i := w.index(p)
	w.cells[i] = k
	w.entities[i] = e
	if e != nil {
		e.Pos = p
		if k == Player {
			w.player = e
		}
	}
	return nil
}

// Place creates a new entity of the given kind at p, replacing whatever was there.
// Placing Empty clears the cell and returns a nil entity.
func (w *World) Place(p Pos, k Kind) (*Entity, error) {
	if k == Empty {
		return nil, w.Set(p, Empty, nil)
	}
	if !w.InBounds(p) {
		return nil, fmt.Errorf("place %s at %v: %w", k, p, ErrOutOfBounds)
	}
	e := &Entity{ID: w.nextID, Kind: k, Pos: p}
	if err := w.Set(p, k, e); err != nil {
		return nil, err
	}
	w.nextID++
	return e, nil
}

// Replace destroys the entity at p and creates a fresh one of kind k.
func (w *World) Replace(p Pos, k Kind) (*Entity, error) {
	if !w.InBounds(p) {
		return nil, fmt.Errorf("replace %v: %w", p, ErrOutOfBounds)
	}
	if err := w.Set(p, Empty, nil); err != nil {
		return nil, err
	}
	return w.Place(p, k)
}

// Remove clears the cell at p and returns the entity that was there.
func (w *World) Remove(p Pos) (*Entity, error) {
	e := w.EntityAt(p)
	if err := w.Set(p, Empty, nil); err != nil {
		return nil, err
	}
	return e, nil
}

// Move relocates the entity at from to to. Whatever occupied to is dropped.
// Both coordinates are checked before anything is written.
func (w *World) Move(from, to Pos) error {
	if !w.InBounds(from) {
		return fmt.Errorf("move from %v: %w", from, ErrOutOfBounds)
	}
	if !w.InBounds(to) {
		return fmt.Errorf("move to %v: %w", to, ErrOutOfBounds)
	}
	e := w.EntityAt(from)
	if e == nil {
		return fmt.Errorf("move from %v: no entity: %w", from, ErrEntityMismatch)
	}
	if err := w.Set(from, Empty, nil); err != nil {
		return err
	}
	return w.Set(to, e.Kind, e)
}

// Cells returns a copy of the grid in row-major order, for renderers.
func (w *World) Cells() []Kind {
	out := make([]Kind, len(w.cells))
	copy(out, w.cells)
	return out
}

// Row returns a copy of row y, or nil if y is out of range.
func (w *World) Row(y int) []Kind {
	if y < 0 || y >= w.H {
		return nil
	}
	out := make([]Kind, w.W)
	copy(out, w.cells[y*w.W:(y+1)*w.W])
	return out
}

// Count returns the number of cells holding the given kind.
func (w *World) Count(k Kind) int {
	n := 0
	for _, c := range w.cells {
		if c == k {
			n++
		}
	}
	return n
}

// FindFirst returns the first cell of kind k scanning top-to-bottom, left-to-right.
func (w *World) FindFirst(k Kind) (Pos, bool) {
	for y := 0; y < w.H; y++ {
		for x := 0; x < w.W; x++ {
			if w.cells[y*w.W+x] == k {
				return P(x, y), true
			}
		}
	}
	return Pos{}, false
}

// Verify checks the grid/registry invariant and returns the first violation.
func (w *World) Verify() error {
	seen := make(map[*Entity]Pos)
	players := 0
	for y := 0; y < w.H; y++ {
		for x := 0; x < w.W; x++ {
			p := P(x, y)
			i := w.index(p)
			k, e := w.cells[i], w.entities[i]
			switch {
			case k == Empty && e != nil:
				return fmt.Errorf("%v is empty but holds entity %d: %w", p, e.ID, ErrInvariant)
			case k != Empty && e == nil:
				return fmt.Errorf("%v is %s but has no entity: %w", p, k, ErrInvariant)
			case e != nil && e.Kind != k:
				return fmt.Errorf("%v is %s but entity %d is %s: %w", p, k, e.ID, e.Kind, ErrInvariant)
			case e != nil && e.Pos != p:
				return fmt.Errorf("entity %d registered at %v reports %v: %w", e.ID, p, e.Pos, ErrInvariant)
			}
			if e == nil {
				continue
			}
			if prev, dup := seen[e]; dup {
				return fmt.Errorf("entity %d registered at %v and %v: %w", e.ID, prev, p, ErrInvariant)
			}
			seen[e] = p
			if k == Player {
				players++
			}
		}
	}
	if players > 1 {
		return fmt.Errorf("%d players on grid: %w", players, ErrInvariant)
	}
	return nil
}

// Clone returns a deep copy of the world. Entity IDs are preserved.
func (w *World) Clone() *World {
	c := &World{
		W:        w.W,
		H:        w.H,
		cells:    make([]Kind, len(w.cells)),
		entities: make([]*Entity, len(w.entities)),
		nextID:   w.nextID,
	}
	copy(c.cells, w.cells)
	for i, e := range w.entities {
		if e == nil {
			continue
		}
		ce := e.Clone()
		c.entities[i] = ce
		if e == w.player {
			c.player = ce
		}
	}
	if c.player == nil && w.player != nil {
		c.player = w.player.Clone()
	}
	return c
}

package core_test

import (
	"testing"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
)

func mustState(t *testing.T, needed int, rows ...string) *core.State {
	t.Helper()
	s, err := core.NewState(mustGrid(t, rows...), needed, 100)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func TestApplyIntentOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		rows       []string
		dx, dy     int
		changed    bool
		playerAt   core.Pos
		diamonds   int
		checkCell  core.Pos
		checkKind  core.Kind
	}{
		{
			name:      "walk into empty",
			rows:      []string{"#P_#"},
			dx:        1,
			changed:   true,
			playerAt:  core.P(2, 0),
			checkCell: core.P(1, 0),
			checkKind: core.Empty,
		},
		{
			name:      "dig dirt",
			rows:      []string{"#P._#"},
			dx:        1,
			changed:   true,
			playerAt:  core.P(2, 0),
			checkCell: core.P(3, 0),
			checkKind: core.Empty,
		},
		{
			name:      "collect diamond",
			rows:      []string{"#*P#"},
			dx:        -1,
			changed:   true,
			playerAt:  core.P(1, 0),
			diamonds:  1,
			checkCell: core.P(2, 0),
			checkKind: core.Empty,
		},
		{
			name:      "push boulder right",
			rows:      []string{"#Po_#"},
			dx:        1,
			changed:   true,
			playerAt:  core.P(2, 0),
			checkCell: core.P(3, 0),
			checkKind: core.Boulder,
		},
		{
			name:      "push boulder left",
			rows:      []string{"#_oP#"},
			dx:        -1,
			changed:   true,
			playerAt:  core.P(2, 0),
			checkCell: core.P(1, 0),
			checkKind: core.Boulder,
		},
		{
			name:      "push blocked by wall",
			rows:      []string{"#Po#"},
			dx:        1,
			playerAt:  core.P(1, 0),
			checkCell: core.P(2, 0),
			checkKind: core.Boulder,
		},
		{
			name:      "push blocked by second boulder",
			rows:      []string{"Poo_"},
			dx:        1,
			playerAt:  core.P(0, 0),
			checkCell: core.P(1, 0),
			checkKind: core.Boulder,
		},
		{
			name:      "push blocked by board edge",
			rows:      []string{"_Po"},
			dx:        1,
			playerAt:  core.P(1, 0),
			checkCell: core.P(2, 0),
			checkKind: core.Boulder,
		},
		{
			name: "vertical push rejected",
			rows: []string{
				"_",
				"o",
				"P",
			},
			dy:        -1,
			playerAt:  core.P(0, 2),
			checkCell: core.P(0, 1),
			checkKind: core.Boulder,
		},
		{
			name:      "wall blocks",
			rows:      []string{"#P"},
			dx:        -1,
			playerAt:  core.P(1, 0),
			checkCell: core.P(0, 0),
			checkKind: core.Wall,
		},
		{
			name:      "board edge blocks",
			rows:      []string{"P_"},
			dx:        -1,
			playerAt:  core.P(0, 0),
			checkCell: core.P(1, 0),
			checkKind: core.Empty,
		},
		{
			name:      "unspawned exit blocks",
			rows:      []string{"#PE#"},
			dx:        1,
			playerAt:  core.P(1, 0),
			checkCell: core.P(2, 0),
			checkKind: core.Exit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustState(t, 5, tt.rows...)

			got := s.ApplyIntent(tt.dx, tt.dy)

			if got != tt.changed {
				t.Errorf("ApplyIntent = %v, want %v", got, tt.changed)
			}
			if pos := s.World.Player().Pos; pos != tt.playerAt {
				t.Errorf("player at %v, want %v", pos, tt.playerAt)
			}
			if s.DiamondsCollected != tt.diamonds {
				t.Errorf("diamonds = %d, want %d", s.DiamondsCollected, tt.diamonds)
			}
			if k := s.World.Get(tt.checkCell); k != tt.checkKind {
				t.Errorf("cell %v = %v, want %v", tt.checkCell, k, tt.checkKind)
			}
			if err := s.World.Verify(); err != nil {
				t.Errorf("Verify: %v", err)
			}
		})
	}
}

func TestApplyIntentRejectsNonUnitVectors(t *testing.T) {
	s := mustState(t, 1,
		"___",
		"_P_",
		"___",
	)
	before := s.Snapshot()

	for _, v := range [][2]int{{0, 0}, {1, 1}, {-1, 1}, {2, 0}, {0, -3}} {
		if s.ApplyIntent(v[0], v[1]) {
			t.Errorf("ApplyIntent(%d,%d) = true, want false", v[0], v[1])
		}
	}
	if after := s.Snapshot(); after != before {
		t.Error("invalid intents changed the state")
	}
}

func TestDigScenario(t *testing.T) {
	w := core.NewWorld(9, 7)
	if _, err := w.Place(core.P(5, 5), core.Player); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Place(core.P(6, 5), core.Dirt); err != nil {
		t.Fatal(err)
	}
	dirtID := w.EntityAt(core.P(6, 5)).ID
	s, err := core.NewState(w, 1, 100)
	if err != nil {
		t.Fatal(err)
	}

	if !s.ApplyIntent(1, 0) {
		t.Fatal("dig reported no change")
	}
	if s.World.Player().Pos != core.P(6, 5) {
		t.Errorf("player at %v, want (6,5)", s.World.Player().Pos)
	}
	if e := s.World.EntityAt(core.P(6, 5)); e == nil || e.ID == dirtID {
		t.Error("dirt entity still registered at (6,5)")
	}
	if n := s.World.Count(core.Dirt); n != 0 {
		t.Errorf("dirt count = %d, want 0", n)
	}

	res := s.Tick(nil, core.DirNone)
	if !hasEvent(res.Events, core.EventDirtDug) {
		t.Errorf("next tick events %v missing DirtDug", res.Events)
	}
}

func hasEvent(events []core.Event, k core.EventKind) bool {
	for _, ev := range events {
		if ev.Kind == k {
			return true
		}
	}
	return false
}

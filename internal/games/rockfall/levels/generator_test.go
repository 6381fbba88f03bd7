package levels_test

import (
	"testing"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels/formats"
)

func TestGenerateIsDeterministic(t *testing.T) {
	p := levels.DefaultGenParams()
	a, err := levels.Generate(p, 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := levels.Generate(p, 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for y := range a.Rows {
		if a.Rows[y] != b.Rows[y] {
			t.Fatalf("row %d differs:\n%q\n%q", y, a.Rows[y], b.Rows[y])
		}
	}

	c, err := levels.Generate(p, 8)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	same := true
	for y := range a.Rows {
		if a.Rows[y] != c.Rows[y] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced the same map")
	}
}

func TestGeneratedLevelsArePlayable(t *testing.T) {
	p := levels.DefaultGenParams()
	for seed := uint64(1); seed <= 30; seed++ {
		lvl, err := levels.Generate(p, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if lvl.DiamondsNeeded < 1 || lvl.DiamondsNeeded > lvl.Diamonds() {
			t.Errorf("seed %d: needs %d of %d diamonds", seed, lvl.DiamondsNeeded, lvl.Diamonds())
		}
		s, err := lvl.NewState(levels.Defaults{})
		if err != nil {
			t.Fatalf("seed %d: NewState: %v", seed, err)
		}
		for x := 0; x < lvl.Width; x++ {
			if s.World.Get(core.P(x, 0)) != core.Wall || s.World.Get(core.P(x, lvl.Height-1)) != core.Wall {
				t.Fatalf("seed %d: border not walled at column %d", seed, x)
			}
		}
		// A fresh cave must not kill the player on the first tick.
		if res := s.Tick(nil, core.DirNone); res.Outcome != core.OutcomeContinue {
			t.Errorf("seed %d: first tick outcome %v", seed, res.Outcome)
		}
	}
}

func TestGenerateRejectsTinyMaps(t *testing.T) {
	p := levels.DefaultGenParams()
	p.Width = 3
	if _, err := levels.Generate(p, 1); err == nil {
		t.Error("expected error for 3-wide map")
	}
}

func TestGeneratedLevelRoundTripsThroughYAML(t *testing.T) {
	lvl, err := levels.Generate(levels.DefaultGenParams(), 99)
	if err != nil {
		t.Fatal(err)
	}
	data, err := formats.MarshalYAML(formats.Level{
		ID:             lvl.ID,
		Name:           lvl.Name,
		DiamondsNeeded: lvl.DiamondsNeeded,
		TimeLimit:      lvl.TimeLimit,
		Rows:           lvl.Rows,
	})
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	back, err := levels.Parse(data, ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, data)
	}
	if len(back.Rows) != len(lvl.Rows) {
		t.Fatalf("rows = %d, want %d", len(back.Rows), len(lvl.Rows))
	}
	for y := range lvl.Rows {
		if back.Rows[y] != lvl.Rows[y] {
			t.Errorf("row %d = %q, want %q", y, back.Rows[y], lvl.Rows[y])
		}
	}
}

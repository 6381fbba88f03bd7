package levels_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
)

const tinyLevel = `id: tiny
name: Tiny
diamonds_needed: 1
time_limit: 30
map: |
  #####
  #P.*#
  #####
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestBuiltinLevelsAreValid(t *testing.T) {
	all, err := levels.Builtin().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) < 4 {
		t.Fatalf("got %d builtin levels, want at least 4", len(all))
	}

	for i, lvl := range all {
		t.Run(lvl.ID, func(t *testing.T) {
			if i > 0 && all[i-1].ID >= lvl.ID {
				t.Errorf("levels not sorted: %s before %s", all[i-1].ID, lvl.ID)
			}
			s, err := lvl.NewState(levels.Defaults{TimeLimit: 100, DiamondsNeeded: 3})
			if err != nil {
				t.Fatalf("NewState: %v", err)
			}
			if s.DiamondsNeeded < 1 || s.DiamondsNeeded > lvl.Diamonds() {
				t.Errorf("diamonds needed %d out of range (map has %d)", s.DiamondsNeeded, lvl.Diamonds())
			}
			if s.TimeLeft <= 0 {
				t.Errorf("time left = %d", s.TimeLeft)
			}
			if err := s.World.Verify(); err != nil {
				t.Errorf("Verify: %v", err)
			}
		})
	}
}

func TestLoaderSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", tinyLevel)
	writeFile(t, dir, "broken.yaml", "id: broken\nmap: |\n  #P#\n  ##\n")
	writeFile(t, dir, "notes.txt", "not a level")

	all, err := levels.NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 || all[0].ID != "tiny" {
		t.Fatalf("got %+v, want only tiny", all)
	}
	if all[0].FilePath != filepath.Join(dir, "tiny.yaml") {
		t.Errorf("FilePath = %q", all[0].FilePath)
	}
	if all[0].Width != 5 || all[0].Height != 3 {
		t.Errorf("size = %dx%d, want 5x3", all[0].Width, all[0].Height)
	}
}

func TestLoadByID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", tinyLevel)
	loader := levels.NewLoader(dir)

	lvl, err := loader.LoadByID("tiny")
	if err != nil {
		t.Fatalf("LoadByID: %v", err)
	}
	if lvl.Name != "Tiny" || lvl.DiamondsNeeded != 1 || lvl.TimeLimit != 30 {
		t.Errorf("unexpected level %+v", lvl)
	}

	_, err = loader.LoadByID("missing")
	if !errors.Is(err, levels.ErrNotFound) {
		t.Errorf("missing level error = %v, want ErrNotFound", err)
	}
}

func TestCampaignOverridesBuiltin(t *testing.T) {
	builtin, err := levels.Builtin().LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	override := "id: " + builtin[0].ID + "\nname: Replaced\nmap: |\n  #####\n  #P.*#\n  #####\n"
	writeFile(t, dir, "override.yaml", override)
	writeFile(t, dir, "tiny.yaml", tinyLevel)

	all, err := levels.Campaign(dir, nil)
	if err != nil {
		t.Fatalf("Campaign: %v", err)
	}
	if len(all) != len(builtin)+1 {
		t.Fatalf("got %d levels, want %d", len(all), len(builtin)+1)
	}
	if all[0].Name != "Replaced" {
		t.Errorf("first level name = %q, want Replaced", all[0].Name)
	}
}

func TestNewStateDefaults(t *testing.T) {
	lvl, err := levels.Parse([]byte("id: d\nmap: |\n  #P**#\n"), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		name     string
		defaults levels.Defaults
		needed   int
		time     int
	}{
		{"default within map", levels.Defaults{TimeLimit: 50, DiamondsNeeded: 1}, 1, 50},
		{"default capped by map", levels.Defaults{TimeLimit: 50, DiamondsNeeded: 9}, 2, 50},
		{"no default uses all diamonds", levels.Defaults{TimeLimit: 10}, 2, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := lvl.NewState(tt.defaults)
			if err != nil {
				t.Fatalf("NewState: %v", err)
			}
			if s.DiamondsNeeded != tt.needed || s.TimeLeft != tt.time {
				t.Errorf("needed=%d time=%d, want %d %d", s.DiamondsNeeded, s.TimeLeft, tt.needed, tt.time)
			}
		})
	}
}

func TestPreplacedExitIsGated(t *testing.T) {
	lvl, err := levels.Parse([]byte("id: g\ndiamonds_needed: 1\nmap: |\n  #*PE#\n"), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, err := lvl.NewState(levels.Defaults{TimeLimit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if s.ExitSpawned {
		t.Fatal("pre-placed exit starts unlocked")
	}
	if s.ApplyIntent(1, 0) {
		t.Error("entered a locked exit")
	}
	if s.World.Get(core.P(3, 0)) != core.Exit {
		t.Error("exit tile missing")
	}
}

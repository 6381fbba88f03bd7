// Package levels provides level loading and generation for Rockfall.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrNotFound is returned when no level has the requested ID.
var ErrNotFound = errors.New("levels: level not found")

// Level represents a complete level definition.
type Level struct {
	ID             string
	Name           string
	Width          int
	Height         int
	DiamondsNeeded int
	TimeLimit      int
	Rows           []string
	Metadata       map[string]string
	FilePath       string
}

// Defaults fill in level fields that a file leaves at zero.
type Defaults struct {
	TimeLimit      int
	DiamondsNeeded int
}

// Diamonds returns the number of diamonds on the map.
func (l *Level) Diamonds() int {
	n := 0
	for _, row := range l.Rows {
		for _, r := range row {
			if k, ok := core.ParseKind(r); ok && k == core.Diamond {
				n++
			}
		}
	}
	return n
}

// ToWorld builds a fresh world from the level map.
func (l *Level) ToWorld() (*core.World, error) {
	w, err := core.ParseGrid(l.Rows)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", l.ID, err)
	}
	return w, nil
}

// NewState creates a game state from this level.
// Zero DiamondsNeeded or TimeLimit fall back to d; the diamond requirement is
// capped at the number of diamonds on the map.
func (l *Level) NewState(d Defaults) (*core.State, error) {
	w, err := l.ToWorld()
	if err != nil {
		return nil, err
	}

	needed := l.DiamondsNeeded
	if needed <= 0 {
		needed = d.DiamondsNeeded
		if have := l.Diamonds(); needed > have || needed <= 0 {
			needed = have
		}
	}
	timeLimit := l.TimeLimit
	if timeLimit <= 0 {
		timeLimit = d.TimeLimit
	}

	s, err := core.NewState(w, needed, timeLimit)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", l.ID, err)
	}
	return s, nil
}

// Loader loads level files from a file system.
type Loader struct {
	Root   string
	fsys   fs.FS
	dir    string
	Logger *log.Logger
}

// NewLoader creates a loader for a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root), dir: "."}
}

// Builtin returns a loader for the embedded campaign levels.
func Builtin() *Loader {
	return &Loader{Root: "builtin", fsys: builtinFS, dir: "builtin"}
}

func (l *Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped with a warning.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.fsys, l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(path.Ext(p)) {
			return nil
		}

		level, err := l.load(p)
		if err != nil {
			l.logger().Warn("skipping level file", "path", p, "err", err)
			return nil
		}

		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads and validates a single level file.
// Relative paths are resolved against the loader's file system.
func (l *Loader) LoadFile(p string) (Level, error) {
	return l.load(path.Join(l.dir, p))
}

func (l *Loader) load(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading %s: %w", p, err)
	}

	level, err := Parse(data, path.Ext(p))
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing %s: %w", p, err)
	}
	level.FilePath = filepath.Join(l.Root, filepath.FromSlash(strings.TrimPrefix(p, l.dir+"/")))
	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Campaign returns the built-in levels merged with the levels found in
// extraDir (if not empty). A level in extraDir replaces a built-in level
// with the same ID.
func Campaign(extraDir string, logger *log.Logger) ([]Level, error) {
	b := Builtin()
	b.Logger = logger
	builtin, err := b.LoadAll()
	if err != nil {
		return nil, err
	}
	if extraDir == "" {
		return builtin, nil
	}

	x := NewLoader(extraDir)
	x.Logger = logger
	extra, err := x.LoadAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Level, len(builtin)+len(extra))
	for _, lvl := range builtin {
		byID[lvl.ID] = lvl
	}
	for _, lvl := range extra {
		byID[lvl.ID] = lvl
	}

	out := make([]Level, 0, len(byID))
	for _, lvl := range byID {
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Parse decodes level data by file extension and validates it.
func Parse(data []byte, ext string) (Level, error) {
	var parsed formats.Level
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		parsed, err = formats.ParseYAML(data)
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
	if err != nil {
		return Level{}, err
	}

	level := Level{
		ID:             parsed.ID,
		Name:           parsed.Name,
		Width:          parsed.Width,
		Height:         parsed.Height,
		DiamondsNeeded: parsed.DiamondsNeeded,
		TimeLimit:      parsed.TimeLimit,
		Rows:           parsed.Rows,
		Metadata:       parsed.Metadata,
	}
	if err := Validate(level); err != nil {
		return Level{}, err
	}
	return level, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
	"github.com/vovakirdan/rockfall/internal/platform/tui"
	"github.com/vovakirdan/rockfall/internal/registry"
)

var (
	flagLevel   string
	flagEndless bool
	flagWatch   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Rockfall",
	Long: `Start playing the campaign, or endless generated caves.

Controls:
  Arrows/WASD/HJKL - Move and dig (tap to step, hold to keep walking)
  P                - Pause
  R                - Restart level (new run after game over)
  Enter/Space      - Next level
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - More time, fewer boulders in generated caves
  normal - Default settings
  hard   - Less time, more boulders
  fixed  - Endless caves do not get harder with depth

Examples:
  rockfall play
  rockfall play --level 02-rockslide
  rockfall play --levels ./my-levels --watch
  rockfall play --endless --difficulty hard --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Campaign level ID to start from")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play generated caves instead of the campaign")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload levels when files in --levels change")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("rockfall")
	if err != nil {
		return err
	}
	if flagEndless && flagLevel != "" {
		return errors.New("--level cannot be used with --endless")
	}
	if flagWatch && flagLevelsDir == "" {
		return errors.New("--watch needs --levels")
	}

	cfg, err := setup(logger, flagLevel)
	if err != nil {
		return err
	}
	if flagLevel != "" {
		if err := checkLevel(flagLevel, logger); err != nil {
			return err
		}
	}

	gameID := rockfall.CampaignID
	if flagEndless {
		gameID = rockfall.EndlessID
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	opts := tui.Options{
		Logger:       logger,
		HoldTimeout:  time.Duration(cfg.Timing.HoldTimeoutMs) * time.Millisecond,
		RepeatWindow: time.Duration(cfg.Timing.RepeatWindowMs) * time.Millisecond,
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
		opts.Store = store
	}

	if flagWatch {
		w, err := levels.NewWatcher(logger, flagLevelsDir)
		if err != nil {
			return fmt.Errorf("watching %s: %w", flagLevelsDir, err)
		}
		defer w.Close()
		opts.Watcher = w
	}

	if err := tui.Run(game, runtime, opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// checkLevel fails early with the list of IDs when a level does not exist.
func checkLevel(id string, logger *log.Logger) error {
	all, err := levels.Campaign(flagLevelsDir, logger)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(all))
	for _, l := range all {
		if l.ID == id {
			return nil
		}
		ids = append(ids, l.ID)
	}
	return fmt.Errorf("%w: %s (available: %v)", levels.ErrNotFound, id, ids)
}

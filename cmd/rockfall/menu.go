package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode and level picker menu",
	Long: `Start Rockfall in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select. Campaign mode opens
a level list; after a run ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  rockfall menu
  rockfall menu --fps 30 --theme mono
  rockfall menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("rockfall")
	if err != nil {
		return err
	}
	cfg, err := setup(logger, "")
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
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

	if err := tui.RunSession(runtime, opts); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rockfall/internal/config"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
)

var (
	flagMoves     string
	flagIdleTicks int
	flagFrames    bool
	flagEvents    bool
)

var simCmd = &cobra.Command{
	Use:   "sim <level-id|file.yaml>",
	Short: "Run a level headless with scripted moves",
	Long: `Runs a level without a terminal UI, one tick per move, and prints
the final grid and outcome. Useful for checking level designs and for
reproducing physics bugs.

Moves are letters U, R, D, L (one tap per tick); '.' waits one tick.
Every other character is ignored, so "RR DD ..L" is fine.

Examples:
  rockfall sim 01-first-dig --moves RRDDL
  rockfall sim ./my-levels/cave.yaml --moves "RRRR...." --frames
  rockfall sim 02-rockslide --idle 20 --events`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagMoves, "moves", "", "Move script: U/R/D/L taps, '.' to wait")
	simCmd.Flags().IntVar(&flagIdleTicks, "idle", 0, "Extra ticks without input after the script")
	simCmd.Flags().BoolVar(&flagFrames, "frames", false, "Print the grid after every tick")
	simCmd.Flags().BoolVar(&flagEvents, "events", false, "Print every event")
}

func runSim(_ *cobra.Command, args []string) error {
	logger, err := newLogger("rockfall")
	if err != nil {
		return err
	}
	cfg, err := config.LoadRockfall(flagConfig)
	if err != nil {
		return err
	}

	lvl, err := findLevel(args[0], logger)
	if err != nil {
		return err
	}

	res, err := simulate(os.Stdout, lvl, cfg, simOptions{
		Moves:  flagMoves,
		Idle:   flagIdleTicks,
		Frames: flagFrames,
		Events: flagEvents,
	})
	if err != nil {
		return err
	}
	if res.Outcome == core.OutcomeGameOver && !res.Won {
		// Non-zero exit so scripts can assert on survival.
		os.Exit(2)
	}
	return nil
}

// findLevel resolves a level ID in the campaign, or loads a file path.
func findLevel(arg string, logger *log.Logger) (levels.Level, error) {
	if ext := strings.ToLower(filepath.Ext(arg)); ext == ".yaml" || ext == ".yml" {
		return levels.NewLoader(filepath.Dir(arg)).LoadFile(filepath.Base(arg))
	}
	all, err := levels.Campaign(flagLevelsDir, logger)
	if err != nil {
		return levels.Level{}, err
	}
	for _, l := range all {
		if l.ID == arg {
			logger.Debug("level found", "id", l.ID, "path", l.FilePath)
			return l, nil
		}
	}
	return levels.Level{}, fmt.Errorf("%w: %s", levels.ErrNotFound, arg)
}

type simOptions struct {
	Moves  string
	Idle   int
	Frames bool
	Events bool
}

// simulate plays a move script against a level and writes a report to w.
// The countdown runs at the same tick-to-second ratio as the interactive game.
func simulate(w io.Writer, lvl levels.Level, cfg config.RockfallConfig, opts simOptions) (core.TickResult, error) {
	state, err := lvl.NewState(levels.Defaults{
		TimeLimit:      cfg.Gameplay.TimeLimit,
		DiamondsNeeded: cfg.Gameplay.DefaultDiamondsNeeded,
	})
	if err != nil {
		return core.TickResult{}, err
	}

	ticksPerSecond := cfg.Timing.TimerEveryFrames / cfg.Timing.StepEveryFrames
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}

	var script []core.Dir
	for _, r := range opts.Moves {
		if r == '.' {
			script = append(script, core.DirNone)
			continue
		}
		if d, ok := core.ParseDir(r); ok {
			script = append(script, d)
		}
	}
	for i := 0; i < opts.Idle; i++ {
		script = append(script, core.DirNone)
	}

	fmt.Fprintf(w, "Level %s (%s), %d ticks scripted\n", lvl.ID, lvl.Name, len(script))
	fmt.Fprint(w, core.RenderASCII(state))

	queue := core.NewIntentQueue(cfg.Timing.QueueLimit)
	res := core.TickResult{Outcome: state.Status}
	for _, d := range script {
		if state.Done() {
			break
		}
		if d != core.DirNone {
			queue.Push(d)
		}
		res = state.Tick(queue, core.DirNone)
		if !state.Done() && res.Tick%uint64(ticksPerSecond) == 0 {
			state.DecrementTimer()
			if state.Done() {
				last := state.Tick(nil, core.DirNone)
				res.Events = append(res.Events, last.Events...)
				res.Outcome, res.Won = last.Outcome, last.Won
			}
		}

		if opts.Events {
			for _, ev := range res.Events {
				fmt.Fprintf(w, "tick %d: %s at %v\n", res.Tick, ev.Kind, ev.Pos)
			}
		}
		if opts.Frames {
			fmt.Fprintln(w)
			fmt.Fprint(w, core.RenderASCII(state))
		}
	}

	if !opts.Frames {
		fmt.Fprintln(w)
		fmt.Fprint(w, core.RenderASCII(state))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Outcome: %s", res.Outcome)
	if res.Outcome == core.OutcomeGameOver {
		if res.Won {
			fmt.Fprint(w, " (won)")
		} else if state.TimeLeft <= 0 {
			fmt.Fprint(w, " (out of time)")
		} else {
			fmt.Fprint(w, " (crushed)")
		}
	}
	fmt.Fprintf(w, "\nDiamonds: %d/%d  Time left: %d  Ticks: %d\n",
		state.DiamondsCollected, state.DiamondsNeeded, state.TimeLeft, state.Ticks)
	return res, nil
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [file...]",
	Short: "List campaign levels or validate level files",
	Long: `Without arguments, lists the campaign: built-in levels merged with
the levels in --levels. With file arguments, validates each file and
reports every error.

Examples:
  rockfall levels
  rockfall levels --levels ./my-levels
  rockfall levels ./my-levels/cave.yaml`,
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, args []string) error {
	logger, err := newLogger("rockfall")
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return validateFiles(args)
	}

	all, err := levels.Campaign(flagLevelsDir, logger)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No levels found.")
		return nil
	}

	maxIDLen := 2 // "ID" header
	maxNameLen := 4
	for _, l := range all {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Println("Campaign levels:")
	fmt.Println()
	fmt.Printf("  %-*s  %-*s  %-7s  %-8s  %-4s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Size", "Diamonds", "Time", "Source")
	fmt.Printf("  %-*s  %-*s  %-7s  %-8s  %-4s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "--------", "----", "------")
	for _, l := range all {
		size := fmt.Sprintf("%dx%d", l.Width, l.Height)
		diamonds := fmt.Sprintf("%d/%d", l.DiamondsNeeded, l.Diamonds())
		timeLimit := "-"
		if l.TimeLimit > 0 {
			timeLimit = fmt.Sprint(l.TimeLimit)
		}
		fmt.Printf("  %-*s  %-*s  %-7s  %-8s  %-4s  %s\n", maxIDLen, l.ID, maxNameLen, l.Name, size, diamonds, timeLimit, l.FilePath)
	}

	fmt.Println()
	fmt.Println("Run 'rockfall play --level <id>' to start from a level.")
	return nil
}

// validateFiles loads each file and reports the result.
func validateFiles(paths []string) error {
	failed := 0
	for _, p := range paths {
		loader := levels.NewLoader(filepath.Dir(p))
		l, err := loader.LoadFile(filepath.Base(p))
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", p, err)
			continue
		}
		if _, err := l.NewState(levels.Defaults{}); err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", p, err)
			continue
		}
		fmt.Printf("ok    %s (%s, %dx%d)\n", p, l.ID, l.Width, l.Height)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d level files are invalid", failed, len(paths))
	}
	return nil
}

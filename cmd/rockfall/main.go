// rockfall is a boulder-and-diamond digging game for the terminal.
//
// Usage:
//
//	rockfall play             - Play the campaign
//	rockfall play --endless   - Play generated caves until you get crushed
//	rockfall levels           - List and validate levels
//	rockfall menu             - Start menu to pick modes and levels
//	rockfall serve            - Serve over SSH and/or WebSocket
//	rockfall scores <game>    - Show high scores and recent level runs
//	rockfall sim <level>      - Run a level headless with scripted moves
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <dsn>          - SQLite path or postgres:// URL (default: ~/.rockfall/scores.db)
//	--config <path>     - Game config YAML
//	--levels <dir>      - Extra level directory merged into the campaign
//	--difficulty <name> - easy, normal, hard or fixed
//	--log-level <name>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rockfall/internal/config"
	"github.com/vovakirdan/rockfall/internal/games/rockfall"
	"github.com/vovakirdan/rockfall/internal/platform/tui"
	"github.com/vovakirdan/rockfall/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLevelsDir  string
	flagDifficulty string
	flagLogLevel   string
	flagTheme      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rockfall",
	Short: "Rockfall - dig for diamonds, dodge the boulders",
	Long: `Rockfall is a terminal game about digging through dirt, collecting
diamonds and getting out before the rocks come down on you.

Available commands:
  play     - Play the campaign or endless caves
  levels   - List and validate level files
  menu     - Interactive mode and level picker
  serve    - Serve the game over SSH and WebSocket
  scores   - View high scores and level runs
  sim      - Run a level headless with scripted moves

Examples:
  rockfall play
  rockfall play --level 03-push-through
  rockfall play --endless --difficulty hard
  rockfall levels --levels ./my-levels
  rockfall serve --ssh :2222 --ws :8080
  rockfall sim 01-first-dig --moves RRDDL`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "", "Scores database: SQLite path or postgres:// URL (default from config, then "+storage.DefaultPath+")")
	pf.StringVar(&flagConfig, "config", "", "Path to a custom config YAML")
	pf.StringVar(&flagLevelsDir, "levels", "", "Extra level directory merged into the campaign")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&flagTheme, "theme", "default", "Menu theme: default, mono")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// newLogger builds the process logger from --log-level.
// Logs go to stderr so they never mix with the TUI on stdout.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          prefix,
	}), nil
}

// setup loads the config, applies flags, and configures the game registry.
func setup(logger *log.Logger, startLevel string) (config.RockfallConfig, error) {
	cfg, err := config.LoadRockfall(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			return cfg, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		config.ApplyRockfallPreset(&cfg, preset)
	}

	theme, ok := tui.ThemeByName(flagTheme)
	if !ok {
		return cfg, fmt.Errorf("unknown theme %q", flagTheme)
	}
	tui.SetTheme(theme)

	rockfall.Configure(rockfall.Options{
		Config:     cfg,
		LevelsDir:  flagLevelsDir,
		StartLevel: startLevel,
		Logger:     logger,
	})
	return cfg, nil
}

// dsn picks the database from --db, then the config file, then the default.
func dsn(cfg config.RockfallConfig) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	if cfg.Storage.DSN != "" {
		return cfg.Storage.DSN
	}
	return storage.DefaultPath
}

// openStore opens the score database, or returns nil with a warning.
// The game still works without storage.
func openStore(cfg config.RockfallConfig, logger *log.Logger) *storage.Store {
	store, err := storage.Open(dsn(cfg))
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
	"github.com/vovakirdan/rockfall/internal/registry"
	"github.com/vovakirdan/rockfall/internal/storage"
)

// Reloader is implemented by games that can re-read their levels from disk.
type Reloader interface {
	ReloadLevels() error
}

// Options configure a game model.
type Options struct {
	Store        *storage.Store  // May be nil; scores are then not saved
	Watcher      *levels.Watcher // May be nil; enables hot reload of level files
	Logger       *log.Logger
	HoldTimeout  time.Duration
	RepeatWindow time.Duration
	Standalone   bool   // Back quits the program instead of returning to a menu
	StartLevel   string // Level the game starts (and restarts) from
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	watcher    *levels.Watcher
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       *KeyMapper
	now        func() time.Time
	standalone bool
	startLevel string
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		watcher:    opts.Watcher,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       NewKeyMapperWithTiming(opts.HoldTimeout, opts.RepeatWindow),
		now:        time.Now,
		standalone: opts.Standalone,
		startLevel: opts.StartLevel,
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	if sel, ok := m.game.(registry.LevelSelector); ok && m.startLevel != "" {
		sel.StartAt(m.startLevel)
	}
	m.game.Reset(m.config)
	return tea.Batch(tickCmd(m.config.TickRate), watchCmd(m.watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case LevelsChangedMsg:
		if r, ok := m.game.(Reloader); ok {
			if err := r.ReloadLevels(); err != nil {
				m.logger.Warn("level reload failed", "path", msg.Path, "err", err)
			} else {
				m.logger.Info("levels reloaded", "path", msg.Path)
			}
		}
		return m, watchCmd(m.watcher)

	case WatchErrorMsg:
		m.logger.Warn("level watcher error", "err", msg.Err)
		return m, watchCmd(m.watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame, m.now()) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back leaves the game once it is over or paused.
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleTick runs one game frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	m.inputFrame.Held = m.keys.Held(m.now())
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if len(result.Events) > 0 {
		m.logger.Debug("game events", "game", m.game.ID(), "events", result.Events)
	}

	m.saveRuns()

	if !m.gameState.GameOver {
		m.scoreSaved = false
	} else if !m.scoreSaved {
		if m.store != nil && m.gameState.Score > 0 {
			if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
				m.logger.Warn("could not save score", "err", err)
			}
		}
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRuns persists the level runs the game finished since the last frame.
func (m Model) saveRuns() {
	reporter, ok := m.game.(registry.RunReporter)
	if !ok {
		return
	}
	for _, r := range reporter.TakeRuns() {
		if m.store == nil {
			continue
		}
		_, err := m.store.SaveLevelRun(storage.LevelRun{
			GameID:   m.game.ID(),
			LevelID:  r.LevelID,
			Outcome:  r.Outcome,
			Diamonds: r.Diamonds,
			Ticks:    r.Ticks,
			TimeLeft: r.TimeLeft,
		})
		if err != nil {
			m.logger.Warn("could not save level run", "level", r.LevelID, "err", err)
		}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".rockfall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	opts.Standalone = true
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

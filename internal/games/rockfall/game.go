// Package rockfall provides the boulder-and-diamond digging game.
// It adapts the deterministic engine in core to the platform's frame loop:
// frames are mapped onto simulation ticks and countdown seconds, input is
// turned into queued taps and a held direction, and levels are advanced
// from the campaign or the endless generator.
package rockfall

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rockfall/internal/config"
	platformcore "github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
	"github.com/vovakirdan/rockfall/internal/registry"
)

// Game IDs registered with the platform.
const (
	CampaignID = "rockfall"
	EndlessID  = "rockfall_endless"
)

// Mode selects where levels come from.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Options configure games created through the registry.
type Options struct {
	Config     config.RockfallConfig
	LevelsDir  string // Extra level directory merged into the campaign
	StartLevel string // Campaign level ID to start from
	Logger     *log.Logger
}

// Package-level options, set by the CLI before games are created.
var (
	optionsMu sync.RWMutex
	options   = Options{Config: config.DefaultRockfallConfig()}
)

// Configure sets the options used by games created afterwards.
func Configure(o Options) {
	optionsMu.Lock()
	defer optionsMu.Unlock()
	options = o
}

// CurrentOptions returns the options new games will use.
func CurrentOptions() Options {
	optionsMu.RLock()
	defer optionsMu.RUnlock()
	return options
}

func init() {
	registry.Register(CampaignID, func() registry.Game {
		return New(ModeCampaign, CurrentOptions())
	})
	registry.Register(EndlessID, func() registry.Game {
		return New(ModeEndless, CurrentOptions())
	})
}

// Game implements registry.Game for Rockfall.
type Game struct {
	mode       Mode
	cfg        config.RockfallConfig
	opts       Options
	logger     *log.Logger
	rng        *rand.Rand
	difficulty *config.DifficultyManager

	// Levels
	campaign   []levels.Level
	levelIndex int
	level      levels.Level
	state      *core.State
	queue      *core.IntentQueue
	depth      int // Caves completed in endless mode

	// Screen dimensions
	screenW int
	screenH int

	// Status
	frame     uint64
	banked    int // Score from completed levels
	paused    bool
	levelDone bool // Level complete, waiting for confirm
	gameOver  bool
	won       bool
	loadErr   string

	// HUD message from the latest notable event
	message      string
	messageColor platformcore.Color
	messageTTL   int

	runs []registry.LevelRun
}

// New creates a game in the given mode.
func New(mode Mode, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	g := &Game{
		mode:   mode,
		cfg:    opts.Config,
		opts:   opts,
		logger: logger,
	}
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return EndlessID
	}
	return CampaignID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Rockfall: Endless Caves"
	}
	return "Rockfall"
}

// Reset starts a new run.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.frame = 0
	g.banked = 0
	g.depth = 0
	g.paused = false
	g.levelDone = false
	g.gameOver = false
	g.won = false
	g.loadErr = ""
	g.message = ""
	g.messageTTL = 0
	g.queue = core.NewIntentQueue(g.cfg.Timing.QueueLimit)

	if g.mode == ModeCampaign {
		all, err := levels.Campaign(g.opts.LevelsDir, g.logger)
		if err != nil || len(all) == 0 {
			g.fail(fmt.Sprintf("no levels: %v", err))
			return
		}
		g.campaign = all
		g.levelIndex = 0
		if g.opts.StartLevel != "" {
			if err := g.SelectLevel(g.opts.StartLevel); err == nil {
				return
			}
			g.logger.Warn("start level not found, starting from the first", "level", g.opts.StartLevel)
		}
	}

	g.loadLevel()
}

// fail stops the game with a message instead of a level.
func (g *Game) fail(msg string) {
	g.loadErr = msg
	g.state = nil
	g.gameOver = true
	g.logger.Error("rockfall: cannot start", "err", msg)
}

// loadLevel builds a fresh state for the current level.
func (g *Game) loadLevel() {
	g.levelDone = false
	g.queue.Clear()

	var lvl levels.Level
	if g.mode == ModeEndless {
		gen, err := levels.Generate(g.genParams(), uint64(g.rng.Int63()))
		if err != nil {
			g.fail(err.Error())
			return
		}
		lvl = gen
	} else {
		lvl = g.campaign[g.levelIndex]
	}

	state, err := lvl.NewState(levels.Defaults{
		TimeLimit:      g.cfg.Gameplay.TimeLimit,
		DiamondsNeeded: g.cfg.Gameplay.DefaultDiamondsNeeded,
	})
	if err != nil {
		g.fail(err.Error())
		return
	}

	g.level = lvl
	g.state = state
	g.logger.Debug("level loaded", "level", lvl.ID, "size", fmt.Sprintf("%dx%d", lvl.Width, lvl.Height),
		"needed", state.DiamondsNeeded, "time", state.TimeLeft)
}

// genParams derives generator settings for the next endless cave.
func (g *Game) genParams() levels.GenParams {
	gc := g.cfg.Generator
	return levels.GenParams{
		Width:               gc.Width,
		Height:              gc.Height,
		DirtDensity:         gc.DirtDensity,
		BoulderDensity:      g.difficulty.BoulderDensity(gc.BoulderDensity, g.depth, g.banked),
		DiamondDensity:      gc.DiamondDensity,
		WallDensity:         gc.WallDensity,
		DiamondsNeededRatio: g.difficulty.DiamondsNeededRatio(gc.DiamondsNeededRatio, g.depth, g.banked),
		TimeLimit:           g.difficulty.TimeLimit(g.cfg.Gameplay.TimeLimit, g.depth, g.banked),
	}
}

// Levels lists the campaign levels.
func (g *Game) Levels() []registry.LevelInfo {
	if g.mode != ModeCampaign {
		return nil
	}
	all := g.campaign
	if all == nil {
		loaded, err := levels.Campaign(g.opts.LevelsDir, g.logger)
		if err != nil {
			return nil
		}
		all = loaded
	}
	out := make([]registry.LevelInfo, len(all))
	for i, l := range all {
		out[i] = registry.LevelInfo{ID: l.ID, Name: l.Name}
	}
	return out
}

// SelectLevel jumps to a campaign level by ID and starts it.
func (g *Game) SelectLevel(id string) error {
	if g.mode != ModeCampaign {
		return fmt.Errorf("rockfall: level selection is only available in campaign mode")
	}
	for i, l := range g.campaign {
		if l.ID == id {
			g.levelIndex = i
			g.gameOver = false
			g.won = false
			g.loadErr = ""
			g.loadLevel()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", levels.ErrNotFound, id)
}

// StartAt sets the level the next Reset starts from. An empty id starts
// from the first level.
func (g *Game) StartAt(id string) {
	g.opts.StartLevel = id
}

// ReloadLevels re-reads the campaign from disk, keeping the current level
// if it still exists. Used by the level watcher.
func (g *Game) ReloadLevels() error {
	if g.mode != ModeCampaign {
		return nil
	}
	all, err := levels.Campaign(g.opts.LevelsDir, g.logger)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("rockfall: reload found no levels")
	}
	current := g.level.ID
	g.campaign = all
	g.levelIndex = 0
	for i, l := range all {
		if l.ID == current {
			g.levelIndex = i
		}
	}
	g.gameOver = false
	g.won = false
	g.loadErr = ""
	g.loadLevel()
	g.setMessage("Levels reloaded", platformcore.ColorBrightGreen)
	return nil
}

// Step advances the game by one platform frame.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.frame++
	result := platformcore.StepResult{}

	if g.messageTTL > 0 {
		g.messageTTL--
		if g.messageTTL == 0 {
			g.message = ""
			result.Changed = true
		}
	}

	if in.Has(platformcore.ActionRestart) {
		switch {
		case g.gameOver:
			g.Reset(platformcore.RuntimeConfig{
				Seed:    g.rng.Int63(),
				ScreenW: g.screenW,
				ScreenH: g.screenH,
			})
		case g.state != nil:
			g.recordRun("abandoned")
			g.loadLevel()
		}
		result.Changed = true
		result.State = g.State()
		return result
	}

	if in.Has(platformcore.ActionPause) && !g.gameOver && !g.levelDone {
		g.paused = !g.paused
		result.Changed = true
	}

	if g.levelDone {
		if in.Has(platformcore.ActionConfirm) {
			g.advance()
			result.Changed = true
		}
		result.State = g.State()
		return result
	}

	if g.gameOver || g.paused || g.state == nil {
		result.State = g.State()
		return result
	}

	for _, a := range in.Directions() {
		g.queue.Push(dirFromAction(a))
	}

	if g.frame%uint64(g.cfg.Timing.StepEveryFrames) == 0 {
		res := g.state.Tick(g.queue, dirFromAction(in.Held))
		g.absorb(res, &result)
	}
	if !g.state.Done() && g.frame%uint64(g.cfg.Timing.TimerEveryFrames) == 0 {
		g.state.DecrementTimer()
		result.Changed = true
		if g.state.Done() {
			// Report TimeUp in the same frame.
			g.absorb(g.state.Tick(nil, core.DirNone), &result)
		}
	}

	result.State = g.State()
	return result
}

// absorb applies a tick result to the game status and the frame result.
func (g *Game) absorb(res core.TickResult, out *platformcore.StepResult) {
	if res.Changed {
		out.Changed = true
	}
	for _, ev := range res.Events {
		out.Events = append(out.Events, ev.Kind.String())
		g.noteEvent(ev)
	}

	switch res.Outcome {
	case core.OutcomeLevelComplete:
		g.completeLevel()
		out.Changed = true
	case core.OutcomeGameOver:
		if !g.gameOver {
			outcome := "crushed"
			if g.state.TimeLeft <= 0 {
				outcome = "time_up"
			}
			g.recordRun(outcome)
			g.banked += g.levelScore(false)
			g.gameOver = true
			g.won = false
			out.Changed = true
		}
	}
}

// completeLevel banks the score and either finishes the run or waits for confirm.
func (g *Game) completeLevel() {
	g.recordRun("complete")
	g.banked += g.levelScore(true)

	if g.mode == ModeEndless {
		g.depth++
		g.levelDone = true
		return
	}

	if g.levelIndex+1 >= len(g.campaign) {
		g.state.MarkWon()
		g.won = true
		g.gameOver = true
		return
	}
	g.levelDone = true
}

// advance moves on to the next level after a completed one.
func (g *Game) advance() {
	if g.mode == ModeCampaign {
		g.levelIndex++
	}
	g.loadLevel()
}

// levelScore returns the points earned in the current level.
func (g *Game) levelScore(completed bool) int {
	if g.state == nil {
		return 0
	}
	score := g.state.DiamondsCollected * g.cfg.Gameplay.DiamondScore
	if completed && g.state.TimeLeft > 0 {
		score += g.state.TimeLeft * g.cfg.Gameplay.TimeBonus
	}
	return score
}

// recordRun remembers a finished attempt for storage.
func (g *Game) recordRun(outcome string) {
	if g.state == nil {
		return
	}
	g.runs = append(g.runs, registry.LevelRun{
		LevelID:  g.level.ID,
		Outcome:  outcome,
		Diamonds: g.state.DiamondsCollected,
		Ticks:    int(g.state.Ticks),
		TimeLeft: g.state.TimeLeft,
	})
	g.logger.Info("level finished", "game", g.ID(), "level", g.level.ID, "outcome", outcome,
		"diamonds", g.state.DiamondsCollected, "ticks", g.state.Ticks)
}

// TakeRuns returns the runs finished since the last call.
func (g *Game) TakeRuns() []registry.LevelRun {
	out := g.runs
	g.runs = nil
	return out
}

// noteEvent turns notable events into a HUD message.
func (g *Game) noteEvent(ev core.Event) {
	switch ev.Kind {
	case core.EventDiamondCollected:
		left := g.state.DiamondsNeeded - g.state.DiamondsCollected
		if left > 0 {
			g.setMessage(fmt.Sprintf("Diamond! %d to go", left), platformcore.ColorBrightCyan)
		}
	case core.EventExitSpawned:
		g.setMessage("The exit is open!", platformcore.ColorBrightGreen)
	case core.EventExitReached:
		g.setMessage("Level complete!", platformcore.ColorBrightGreen)
	case core.EventPlayerCrushed:
		g.setMessage("Crushed!", platformcore.ColorBrightRed)
	case core.EventTimeUp:
		g.setMessage("Out of time!", platformcore.ColorBrightRed)
	}
}

func (g *Game) setMessage(msg string, c platformcore.Color) {
	g.message = msg
	g.messageColor = c
	g.messageTTL = 3 * 60 // about three seconds at 60 fps
}

// Score returns the current score including the level in progress.
func (g *Game) Score() int {
	if g.state == nil || g.gameOver || g.levelDone {
		return g.banked
	}
	return g.banked + g.levelScore(false)
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.Score(),
		GameOver: g.gameOver,
		Won:      g.won,
		Paused:   g.paused,
		Level:    g.level.ID,
	}
}

// dirFromAction maps a platform action to an engine direction.
func dirFromAction(a platformcore.Action) core.Dir {
	switch a {
	case platformcore.ActionUp:
		return core.DirUp
	case platformcore.ActionDown:
		return core.DirDown
	case platformcore.ActionLeft:
		return core.DirLeft
	case platformcore.ActionRight:
		return core.DirRight
	default:
		return core.DirNone
	}
}

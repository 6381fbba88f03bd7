package ws

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall"
	"github.com/vovakirdan/rockfall/internal/registry"
	"github.com/vovakirdan/rockfall/internal/storage"
)

// Snapshotter is implemented by games that can describe their full state.
type Snapshotter interface {
	Snapshot() rockfall.Snapshot
}

// RunnerGame is what a runner drives.
type RunnerGame interface {
	registry.Game
	Snapshotter
}

// command is one client request, applied on the runner goroutine.
type command struct {
	kind   string
	action core.Action
	level  string
}

// runner is the authoritative loop for one connection.
// It is the only goroutine that touches the game.
type runner struct {
	game     RunnerGame
	session  *Session
	store    *storage.Store
	logger   *log.Logger
	tickRate int

	commands chan command
	held     core.Action
	input    core.InputFrame
	frame    uint64

	scoreSaved bool

	stop     chan struct{}
	stopOnce sync.Once
}

func newRunner(game RunnerGame, session *Session, store *storage.Store, logger *log.Logger, tickRate int) *runner {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &runner{
		game:     game,
		session:  session,
		store:    store,
		logger:   logger,
		tickRate: tickRate,
		commands: make(chan command, 64),
		input:    core.NewInputFrame(),
		stop:     make(chan struct{}),
	}
}

// Submit queues a client command. Never blocks; a flooded queue drops input.
func (r *runner) Submit(c command) bool {
	select {
	case r.commands <- c:
		return true
	default:
		return false
	}
}

// Stop ends the loop.
func (r *runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

// Run drives the game until the session ends, the client quits, or Stop.
func (r *runner) Run() {
	defer r.session.Close()

	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	r.sendSnapshot(nil)

	for {
		select {
		case <-ticker.C:
			if quit := r.runFrame(); quit {
				r.sendEnded()
				return
			}
		case <-r.session.Done():
			return
		case <-r.stop:
			return
		}
	}
}

// runFrame drains commands, steps one frame, and reports whether the client quit.
func (r *runner) runFrame() bool {
	quit := r.drainCommands()
	if quit {
		return true
	}

	r.frame++
	r.input.Held = r.held
	result := r.game.Step(r.input)
	r.input.Clear()

	// A snapshot per changed frame, plus one per second for clients that
	// render timers from it.
	if result.Changed || len(result.Events) > 0 || r.frame%uint64(r.tickRate) == 0 {
		r.sendSnapshot(result.Events)
	}

	r.saveRuns()
	r.saveScore(result.State)
	return false
}

func (r *runner) drainCommands() bool {
	for {
		select {
		case c := <-r.commands:
			switch c.kind {
			case MsgInput:
				if c.action == core.ActionQuit {
					return true
				}
				r.input.Press(c.action)
			case MsgHold:
				r.held = c.action
			case MsgRelease:
				r.held = core.ActionNone
			case MsgSelect:
				r.selectLevel(c.level)
			}
		default:
			return false
		}
	}
}

func (r *runner) selectLevel(id string) {
	sel, ok := r.game.(registry.LevelSelector)
	if !ok {
		r.session.Send(newError("this game has no level list"))
		return
	}
	if err := sel.SelectLevel(id); err != nil {
		r.session.Send(newError(err.Error()))
		return
	}
	r.held = core.ActionNone
	r.sendSnapshot(nil)
}

func (r *runner) sendSnapshot(events []string) {
	r.session.Send(snapshotMessage{
		Ver:      ProtocolVersion,
		Type:     MsgSnapshot,
		Snapshot: r.game.Snapshot(),
		Events:   events,
	})
}

func (r *runner) sendEnded() {
	st := r.game.State()
	r.session.Send(endedMessage{
		Ver:   ProtocolVersion,
		Type:  MsgEnded,
		Score: st.Score,
		Won:   st.Won,
	})
}

func (r *runner) saveScore(st core.GameState) {
	if !st.GameOver {
		r.scoreSaved = false
		return
	}
	if r.scoreSaved {
		return
	}
	r.scoreSaved = true
	r.sendEnded()
	if r.store == nil || st.Score <= 0 {
		return
	}
	if _, err := r.store.SaveScore(r.game.ID(), st.Score); err != nil {
		r.logger.Warn("could not save score", "session", r.session.ID(), "err", err)
	}
}

func (r *runner) saveRuns() {
	reporter, ok := r.game.(registry.RunReporter)
	if !ok {
		return
	}
	for _, run := range reporter.TakeRuns() {
		r.logger.Debug("level run", "session", r.session.ID(), "level", run.LevelID, "outcome", run.Outcome)
		if r.store == nil {
			continue
		}
		_, err := r.store.SaveLevelRun(storage.LevelRun{
			GameID:   r.game.ID(),
			LevelID:  run.LevelID,
			Outcome:  run.Outcome,
			Diamonds: run.Diamonds,
			Ticks:    run.Ticks,
			TimeLeft: run.TimeLeft,
		})
		if err != nil {
			r.logger.Warn("could not save level run", "level", run.LevelID, "err", err)
		}
	}
}

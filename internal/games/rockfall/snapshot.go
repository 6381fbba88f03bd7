package rockfall

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying       GameStateType = "playing"
	StatePaused        GameStateType = "paused"
	StateLevelComplete GameStateType = "level_complete"
	StateGameOver      GameStateType = "game_over"
	StateWin           GameStateType = "win"
	StateNoLevel       GameStateType = "no_level"
)

// Snapshot captures the game state for determinism testing and network clients.
type Snapshot struct {
	Frame       uint64        `json:"frame"`
	Tick        uint64        `json:"tick"`
	Mode        string        `json:"mode"`
	LevelID     string        `json:"level_id"`
	LevelName   string        `json:"level_name"`
	Depth       int           `json:"depth"`
	Score       int           `json:"score"`
	Diamonds    int           `json:"diamonds"`
	Needed      int           `json:"needed"`
	TimeLeft    int           `json:"time_left"`
	ExitSpawned bool          `json:"exit_spawned"`
	PlayerX     int           `json:"player_x"`
	PlayerY     int           `json:"player_y"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Rows        []string      `json:"rows"`
	Hash        uint64        `json:"hash"`
	State       GameStateType `json:"state"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:     g.frame,
		Mode:      string(g.mode),
		LevelID:   g.level.ID,
		LevelName: g.level.Name,
		Depth:     g.depth,
		Score:     g.Score(),
		State:     g.stateType(),
	}
	if g.state == nil {
		return snap
	}

	w := g.state.World
	c := g.state.Counters()
	snap.Tick = c.Tick
	snap.Diamonds = c.DiamondsCollected
	snap.Needed = c.DiamondsNeeded
	snap.TimeLeft = c.TimeLeft
	snap.ExitSpawned = c.ExitSpawned
	snap.Width = w.W
	snap.Height = w.H
	snap.Hash = g.state.Snapshot()
	if p := w.Player(); p != nil {
		snap.PlayerX = p.Pos.X
		snap.PlayerY = p.Pos.Y
	}
	snap.Rows = make([]string, w.H)
	for y := 0; y < w.H; y++ {
		row := make([]rune, w.W)
		for x, k := range w.Row(y) {
			row[x] = k.Rune()
		}
		snap.Rows[y] = string(row)
	}
	return snap
}

func (g *Game) stateType() GameStateType {
	switch {
	case g.state == nil:
		return StateNoLevel
	case g.won:
		return StateWin
	case g.gameOver:
		return StateGameOver
	case g.levelDone:
		return StateLevelComplete
	case g.paused:
		return StatePaused
	default:
		return StatePlaying
	}
}

package ws

import (
	"strings"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall"
	"github.com/vovakirdan/rockfall/internal/registry"
)

// ProtocolVersion is sent in every server message.
const ProtocolVersion = 1

// Client message types.
const (
	MsgInput   = "input"   // tap: {"type":"input","action":"left"}
	MsgHold    = "hold"    // hold a direction until release
	MsgRelease = "release" // stop holding
	MsgSelect  = "select"  // {"type":"select","level":"01-first-dig"}
)

// Server message types.
const (
	MsgHello    = "hello"
	MsgSnapshot = "snapshot"
	MsgError    = "error"
	MsgEnded    = "ended"
)

// clientMessage is any message a client sends.
type clientMessage struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Level  string `json:"level,omitempty"`
}

// helloMessage is the first message on every connection.
type helloMessage struct {
	Ver     int                  `json:"ver"`
	Type    string               `json:"type"`
	Session SessionID            `json:"session"`
	GameID  string               `json:"game"`
	Title   string               `json:"title"`
	Levels  []registry.LevelInfo `json:"levels,omitempty"`
}

// snapshotMessage carries the full game state and the events of the frame.
type snapshotMessage struct {
	Ver      int               `json:"ver"`
	Type     string            `json:"type"`
	Snapshot rockfall.Snapshot `json:"snapshot"`
	Events   []string          `json:"events,omitempty"`
}

type errorMessage struct {
	Ver     int    `json:"ver"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// endedMessage is sent once when the run ends or the client quits.
type endedMessage struct {
	Ver   int    `json:"ver"`
	Type  string `json:"type"`
	Score int    `json:"score"`
	Won   bool   `json:"won"`
}

var actionNames = map[string]core.Action{
	"up":      core.ActionUp,
	"down":    core.ActionDown,
	"left":    core.ActionLeft,
	"right":   core.ActionRight,
	"confirm": core.ActionConfirm,
	"restart": core.ActionRestart,
	"pause":   core.ActionPause,
	"quit":    core.ActionQuit,
}

// parseAction maps a client action name to a platform action.
func parseAction(name string) (core.Action, bool) {
	a, ok := actionNames[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

func newError(msg string) errorMessage {
	return errorMessage{Ver: ProtocolVersion, Type: MsgError, Message: msg}
}

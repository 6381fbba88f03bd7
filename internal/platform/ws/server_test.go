package ws

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/rockfall/internal/config"
	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall"
	"github.com/vovakirdan/rockfall/internal/registry"
)

const corridorLevel = `id: 00-corridor
name: Corridor
diamonds_needed: 1
time_limit: 100
map: |
  #####
  #P*.#
  #####
`

// serverMessage decodes any message the server sends.
type serverMessage struct {
	Ver      int                  `json:"ver"`
	Type     string               `json:"type"`
	Game     string               `json:"game"`
	Levels   []registry.LevelInfo `json:"levels"`
	Snapshot rockfall.Snapshot    `json:"snapshot"`
	Events   []string             `json:"events"`
	Message  string               `json:"message"`
	Score    int                  `json:"score"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "corridor.yaml"), []byte(corridorLevel), 0o644); err != nil {
		t.Fatalf("write level: %v", err)
	}
	logger := log.New(io.Discard)

	srv := NewServer(Config{
		TickRate: 240,
		Logger:   logger,
		NewGame: func(id string) (RunnerGame, error) {
			if id != rockfall.CampaignID {
				return nil, fmt.Errorf("unknown game %q", id)
			}
			return rockfall.New(rockfall.ModeCampaign, rockfall.Options{
				Config:     config.DefaultRockfallConfig(),
				LevelsDir:  dir,
				StartLevel: "00-corridor",
				Logger:     logger,
			}), nil
		},
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads messages until match returns true or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverMessage) bool) serverMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg serverMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode %s: %v", payload, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestSessionHelloAndFirstSnapshot(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")

	hello := readUntil(t, conn, func(m serverMessage) bool { return true })
	if hello.Type != MsgHello {
		t.Fatalf("first message = %q, want hello", hello.Type)
	}
	if hello.Ver != ProtocolVersion {
		t.Errorf("ver = %d, want %d", hello.Ver, ProtocolVersion)
	}
	if hello.Game != rockfall.CampaignID {
		t.Errorf("game = %q, want %q", hello.Game, rockfall.CampaignID)
	}
	if len(hello.Levels) == 0 || hello.Levels[0].ID != "00-corridor" {
		t.Errorf("levels = %v, want 00-corridor first", hello.Levels)
	}

	snap := readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgSnapshot })
	if snap.Snapshot.LevelID != "00-corridor" {
		t.Errorf("level = %q, want 00-corridor", snap.Snapshot.LevelID)
	}
	if snap.Snapshot.State != rockfall.StatePlaying {
		t.Errorf("state = %q, want playing", snap.Snapshot.State)
	}
	if got := strings.Join(snap.Snapshot.Rows, "\n"); !strings.Contains(got, "P*") {
		t.Errorf("rows do not show the player next to the diamond:\n%s", got)
	}
}

func TestSessionTapCollectsDiamond(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgSnapshot })

	send(t, conn, `{"type":"input","action":"right"}`)
	snap := readUntil(t, conn, func(m serverMessage) bool {
		return m.Type == MsgSnapshot && m.Snapshot.Diamonds == 1
	})
	if !snap.Snapshot.ExitSpawned {
		t.Error("exit should spawn once the only diamond is collected")
	}
}

func TestSessionHoldMovesRepeatedly(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgSnapshot })

	// Collect, then step onto the exit: two moves from one hold.
	send(t, conn, `{"type":"hold","action":"right"}`)
	snap := readUntil(t, conn, func(m serverMessage) bool {
		return m.Type == MsgSnapshot && m.Snapshot.State == rockfall.StateLevelComplete
	})
	if snap.Snapshot.Diamonds != 1 {
		t.Errorf("diamonds = %d, want 1", snap.Snapshot.Diamonds)
	}
	if snap.Snapshot.Score <= 0 {
		t.Errorf("score = %d, want > 0", snap.Snapshot.Score)
	}

	send(t, conn, `{"type":"release"}`)
	send(t, conn, `{"type":"input","action":"confirm"}`)
	next := readUntil(t, conn, func(m serverMessage) bool {
		return m.Type == MsgSnapshot && m.Snapshot.LevelID != "00-corridor"
	})
	if next.Snapshot.State != rockfall.StatePlaying {
		t.Errorf("state after confirm = %q, want playing", next.Snapshot.State)
	}
}

func TestSessionRejectsBadMessages(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")

	send(t, conn, `not json`)
	msg := readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgError })
	if msg.Message != "malformed message" {
		t.Errorf("message = %q", msg.Message)
	}

	send(t, conn, `{"type":"input","action":"jump"}`)
	msg = readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgError })
	if !strings.Contains(msg.Message, "jump") {
		t.Errorf("message = %q, want mention of the action", msg.Message)
	}

	send(t, conn, `{"type":"select","level":"99-missing"}`)
	msg = readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgError })
	if !strings.Contains(msg.Message, "99-missing") {
		t.Errorf("message = %q, want mention of the level", msg.Message)
	}
}

func TestSessionQuitEnds(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgSnapshot })

	send(t, conn, `{"type":"input","action":"quit"}`)
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == MsgEnded })

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Errorf("expected a normal close, got %v", err)
			}
			return
		}
	}
}

func TestUnknownGameIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/?game=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil {
		t.Fatalf("no response: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestBadSeedIsRejected(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/?seed=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestToCommand(t *testing.T) {
	tests := []struct {
		name    string
		msg     clientMessage
		want    command
		wantErr bool
	}{
		{"tap", clientMessage{Type: MsgInput, Action: "Left"}, command{kind: MsgInput, action: core.ActionLeft}, false},
		{"confirm", clientMessage{Type: MsgInput, Action: "confirm"}, command{kind: MsgInput, action: core.ActionConfirm}, false},
		{"hold", clientMessage{Type: MsgHold, Action: "down"}, command{kind: MsgHold, action: core.ActionDown}, false},
		{"hold non-direction", clientMessage{Type: MsgHold, Action: "pause"}, command{}, true},
		{"release", clientMessage{Type: MsgRelease}, command{kind: MsgRelease}, false},
		{"select", clientMessage{Type: MsgSelect, Level: "01-a"}, command{kind: MsgSelect, level: "01-a"}, false},
		{"select without level", clientMessage{Type: MsgSelect}, command{}, true},
		{"unknown action", clientMessage{Type: MsgInput, Action: "fly"}, command{}, true},
		{"unknown type", clientMessage{Type: "chat"}, command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toCommand(tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rockfall/internal/platform/tui"
	"github.com/vovakirdan/rockfall/internal/platform/ws"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagWSPath      string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Rockfall over SSH and WebSocket",
	Long: `Start servers that let users connect and play.

Each SSH connection gets its own session with the mode picker menu.
Each WebSocket connection gets its own game and receives JSON snapshots.
Scores are stored per server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.rockfall/host_key

Examples:
  rockfall serve                          # SSH on :23234
  rockfall serve --ssh :2222              # SSH on port 2222
  rockfall serve --ws :8080               # SSH on :23234 and WebSocket on :8080
  rockfall serve --ssh "" --ws :8080      # WebSocket only
  rockfall serve --db postgres://localhost/rockfall

Users can connect with:
  ssh localhost -p 23234
  websocat ws://localhost:8080/ws?level=01-first-dig`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port, empty to disable)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket server address (host:port, empty to disable)")
	serveCmd.Flags().StringVar(&flagWSPath, "ws-path", "/ws", "WebSocket endpoint path")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagWSAddr == "" {
		return errors.New("nothing to serve: set --ssh and/or --ws")
	}

	logger, err := newLogger("rockfall-serve")
	if err != nil {
		return err
	}
	cfg, err := setup(logger, "")
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 0

	if flagSSHAddr != "" {
		sshCfg := tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
			TickRate:    flagFPS,
			Game: tui.Options{
				Store:        store,
				Logger:       logger.WithPrefix("rockfall-ssh"),
				HoldTimeout:  time.Duration(cfg.Timing.HoldTimeoutMs) * time.Millisecond,
				RepeatWindow: time.Duration(cfg.Timing.RepeatWindowMs) * time.Millisecond,
			},
		}
		server, err := tui.NewSSHServer(sshCfg)
		if err != nil {
			return fmt.Errorf("creating SSH server: %w", err)
		}
		fmt.Printf("SSH server on %s (connect with: ssh localhost -p <port>)\n", sshCfg.Address)
		running++
		go func() {
			errCh <- server.ListenAndServe(ctx)
		}()
	}

	if flagWSAddr != "" {
		server := ws.NewServer(ws.Config{
			Address:  flagWSAddr,
			Path:     flagWSPath,
			TickRate: flagFPS,
			Store:    store,
			Logger:   logger.WithPrefix("rockfall-ws"),
		})
		fmt.Printf("WebSocket server on %s%s\n", flagWSAddr, flagWSPath)
		running++
		go func() {
			errCh <- server.ListenAndServe(ctx)
		}()
	}

	fmt.Println("Press Ctrl+C to stop")

	// The first failure stops everything; otherwise wait for all servers
	// to shut down after the signal.
	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	if firstErr != nil {
		return fmt.Errorf("server error: %w", firstErr)
	}
	return nil
}

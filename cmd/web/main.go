package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/kvasir-games/rockfall/internal/config"
	"github.com/kvasir-games/rockfall/internal/engine"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"

	// Snapshot stream rate for spectators. The engine ticks faster; the
	// feed is throttled to keep frames small on the wire.
	feedInterval = 50 * time.Millisecond
)

//go:embed index.html
var htmlPage string

func main() {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rockfall-web",
	})

	eng, err := engine.New(config.Default(), logger, engine.NopSink{})
	if err != nil {
		logger.Fatal("failed to create engine", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := eng.Run(ctx); err != nil {
			logger.Error("engine stopped", "err", err)
		}
	}()
	go restartWatchdog(ctx, eng)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, htmlPage)
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		serveFeed(w, r, eng, logger)
	})

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// restartWatchdog restarts the unattended demo game a few seconds after
// each game over.
func restartWatchdog(ctx context.Context, eng *engine.Engine) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if eng.GameOver() {
				_ = eng.Restart()
			}
		}
	}
}

// serveFeed streams JSON snapshots to one websocket spectator.
func serveFeed(w http.ResponseWriter, r *http.Request, eng *engine.Engine, logger *log.Logger) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logger.Error("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	ticker := time.NewTicker(feedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := eng.Snapshot()
			if snap == nil {
				continue
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				logger.Error("snapshot marshal failed", "err", err)
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return
			}
		}
	}
}

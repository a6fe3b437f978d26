package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/kvasir-games/rockfall/internal/client"
	"github.com/kvasir-games/rockfall/internal/config"
	"github.com/kvasir-games/rockfall/internal/engine"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = ".ssh/rockfall_host_key"
)

func main() {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rockfall",
	})

	s, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bm.Middleware(gameHandler(logger)),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Reduce input latency for the game loop.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameHandler gives every SSH session its own engine, cancelled with the
// session.
func gameHandler(logger *log.Logger) bm.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		sessionLog := logger.With("user", sess.User())

		eng, err := engine.New(config.Default(), sessionLog, engine.NopSink{})
		if err != nil {
			sessionLog.Error("failed to create engine", "err", err)
			return nil, nil
		}

		go func() {
			if err := eng.Run(sess.Context()); err != nil {
				sessionLog.Error("engine stopped", "err", err)
			}
		}()

		return client.New(eng), []tea.ProgramOption{tea.WithAltScreen()}
	}
}

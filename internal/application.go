package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/chess-backend/internal/broadcast"
	"github.com/rocketscienceinc/chess-backend/internal/config"
	"github.com/rocketscienceinc/chess-backend/internal/game"
	"github.com/rocketscienceinc/chess-backend/internal/repository"
	"github.com/rocketscienceinc/chess-backend/internal/repository/storage"
	"github.com/rocketscienceinc/chess-backend/internal/rules"
	"github.com/rocketscienceinc/chess-backend/internal/session"
	"github.com/rocketscienceinc/chess-backend/internal/usecase"
	"github.com/rocketscienceinc/chess-backend/transport/rest"
	"github.com/rocketscienceinc/chess-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	historyRepo := repository.NewHistoryRepository(redisStorage)

	// every boot starts a fresh game
	if err = historyRepo.Clear(ctx); err != nil {
		return fmt.Errorf("could not clear history: %w", err)
	}

	journal := usecase.NewJournal(logger, historyRepo, conf.History.Buffer)
	journalDone := make(chan struct{})
	go func() {
		defer close(journalDone)
		journal.Run(ctx)
	}()

	defer func() {
		cancel()
		<-journalDone
	}()

	coordinator := usecase.NewCoordinator(
		logger,
		game.NewHolder(rules.NewEvaluator()),
		session.NewRegistry(),
		broadcast.NewHub(logger),
		journal,
	)

	restServer, err := rest.New(logger, coordinator, historyRepo, conf.SocketPort)
	if err != nil {
		return fmt.Errorf("could not build HTTP server: %w", err)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, conf.WebSocket, coordinator)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

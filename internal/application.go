package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rivo/tview"

	"github.com/rocketscienceinc/kalah-client/internal/boardview"
	"github.com/rocketscienceinc/kalah-client/internal/config"
	"github.com/rocketscienceinc/kalah-client/internal/entity"
	"github.com/rocketscienceinc/kalah-client/internal/presenter"
	"github.com/rocketscienceinc/kalah-client/internal/repository"
	"github.com/rocketscienceinc/kalah-client/internal/repository/storage"
	"github.com/rocketscienceinc/kalah-client/internal/session"
	"github.com/rocketscienceinc/kalah-client/internal/usecase"
	"github.com/rocketscienceinc/kalah-client/transport/rest"
	"github.com/rocketscienceinc/kalah-client/transport/websocket"
)

// RunApp plays one session against the configured server.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	terminal := presenter.NewTerminal(tview.NewApplication())
	defer printTranscript(terminal)

	var history usecase.HistoryRecorder
	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		sessionHistory := usecase.NewHistory(logger, repository.NewSessionRepository(redisStorage.Connection, conf.Redis.HistoryTTL))
		log.Info("Recording session history", "session_id", sessionHistory.ID())
		history = sessionHistory
	}

	terminal.Connecting()

	client, err := websocket.Dial(ctx, logger, conf.Server.URL, websocket.Options{
		HandshakeTimeout: conf.Server.HandshakeTimeout,
		WriteTimeout:     conf.Server.WriteTimeout,
		PingPeriod:       conf.Server.PingPeriod,
	})
	if err != nil {
		terminal.ConnectionLost(err)
		return fmt.Errorf("could not connect to game server: %w", err)
	}

	defer func() {
		if err = client.Close(); err != nil {
			log.Error("could not close websocket connection", "error", err)
		}
	}()

	tracker := session.NewTracker(terminal)
	board := boardview.New(tracker)
	dispatcher := usecase.NewDispatcher(
		logger, tracker, board, client, terminal, history,
		entity.NewPits(conf.Game.Pits, conf.Game.Seeds),
	)
	gameSession := usecase.NewSession(logger, dispatcher)

	go client.Listen(ctx, gameSession)

	go func() {
		if runErr := gameSession.Run(ctx); runErr != nil {
			log.Error("session loop failed", "error", runErr)
		}
	}()

	if conf.HTTPPort != "" {
		go func() {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)
			if httpErr := rest.Start(ctx, logger, conf.HTTPPort, gameSession); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
			}
		}()
	}

	// the screen stays up after the game ends until the player quits
	uiErr := terminal.Run(ctx, gameSession)
	log.Info("Terminal closed, shutting down")
	cancel()
	<-gameSession.Done()

	if uiErr != nil {
		return fmt.Errorf("terminal failed: %w", uiErr)
	}

	return nil
}

// printTranscript leaves the status lines behind once the screen is gone.
func printTranscript(terminal *presenter.Terminal) {
	for _, line := range terminal.Transcript() {
		fmt.Fprintln(os.Stdout, line)
	}
}

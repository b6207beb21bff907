package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jportela/puzzleladder/internal/api"
	"github.com/jportela/puzzleladder/internal/bus"
	"github.com/jportela/puzzleladder/internal/config"
	"github.com/jportela/puzzleladder/internal/game"
	"github.com/jportela/puzzleladder/internal/profile"
	"github.com/jportela/puzzleladder/internal/provider"
	"github.com/jportela/puzzleladder/internal/storage"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	log.Info().Msg("PuzzleLadder starting")

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	log.Debug().
		Str("addr", cfg.Addr).
		Str("db_path", cfg.DBPath).
		Int("max_position", cfg.MaxPosition).
		Int("next_puzzle_delay_ms", cfg.NextPuzzleDelayMS).
		Str("puzzle_api_url", cfg.PuzzleAPIURL).
		Msg("configuration loaded")

	kv, err := storage.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to open kv store")
		os.Exit(1)
	}
	defer kv.Close()

	b := bus.New(log)

	profiles := profile.NewStore(b, kv, log)
	profiles.Load(context.Background())

	var prov provider.Provider = provider.NewLocal(time.Now().UnixNano())
	if cfg.PuzzleAPIURL != "" {
		remote := provider.NewHTTP(
			cfg.PuzzleAPIURL,
			time.Duration(cfg.PuzzleAPITimeoutMS)*time.Millisecond,
			cfg.PuzzleAPIRetries,
			log,
		)
		prov = provider.NewFallback(remote, prov, log)
	}

	engine := game.New(b, profiles, prov, game.Config{
		MaxPosition:     cfg.MaxPosition,
		NextPuzzleDelay: time.Duration(cfg.NextPuzzleDelayMS) * time.Millisecond,
	}, log)

	srv := &api.Server{
		Bus:              b,
		Engine:           engine,
		Profiles:         profiles,
		Log:              log.With().Str("component", "api").Logger(),
		LeaderboardLimit: cfg.LeaderboardLimit,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("PuzzleLadder stopped")
}

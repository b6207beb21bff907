// Package api is the HTTP boundary: it converts client requests into bus
// intents, serves read-only snapshots, and streams presentation-bound events
// over SSE. It never reaches into the engine's or store's internals.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/jportela/puzzleladder/internal/bus"
	"github.com/jportela/puzzleladder/internal/game"
	"github.com/jportela/puzzleladder/internal/profile"
)

type Server struct {
	Bus              *bus.Bus
	Engine           *game.Engine
	Profiles         *profile.Store
	Log              zerolog.Logger
	LeaderboardLimit int
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)

	r.Post("/api/session", s.handleStartSession)
	r.Post("/api/session/answer", s.handleAnswer)
	r.Post("/api/session/retry", s.handleRetry)
	r.Get("/api/session", s.handleSession)
	r.Post("/api/player/reset", s.handleResetPlayer)
	r.Get("/api/profile", s.handleProfile)
	r.Get("/api/achievements", s.handleAchievements)
	r.Get("/api/leaderboard", s.handleLeaderboard)
	r.Get("/api/events", s.handleEvents)

	return r
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jportela/puzzleladder/internal/errors"
	"github.com/jportela/puzzleladder/internal/events"
	"github.com/jportela/puzzleladder/internal/models"
)

type startSessionRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, r, errors.NewValidationError("body", "expected JSON with a name field"))
		return
	}

	s.Bus.Publish(events.SessionStartRequested, events.SessionStartRequestedPayload{Name: req.Name})
	respondJSON(w, http.StatusAccepted, s.Engine.Snapshot())
}

type answerRequest struct {
	Value *int `json:"value"`
}

// handleAnswer validates the submitted answer at the boundary. A non-numeric
// or absent value never reaches the engine.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		s.handleError(w, r, errors.NewValidationError("value", "must be a number"))
		return
	}

	s.Bus.Publish(events.AnswerSubmitted, events.AnswerSubmittedPayload{Value: *req.Value})
	respondJSON(w, http.StatusAccepted, s.Engine.Snapshot())
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.Bus.Publish(events.PuzzleRetryRequested, nil)
	respondJSON(w, http.StatusAccepted, s.Engine.Snapshot())
}

func (s *Server) handleResetPlayer(w http.ResponseWriter, r *http.Request) {
	s.Bus.Publish(events.NewPlayerRequested, nil)
	respondJSON(w, http.StatusAccepted, s.Engine.Snapshot())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Engine.Snapshot())
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p := s.Profiles.Current()
	if p == nil {
		s.handleError(w, r, errors.NewNotFoundError("current profile"))
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type achievementStatus struct {
	models.AchievementDef
	Earned bool `json:"earned"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	current := s.Profiles.Current()
	out := make([]achievementStatus, 0, len(models.AchievementCatalog))
	for _, def := range models.AchievementCatalog {
		earned := current != nil && current.HasAchievement(def.ID)
		out = append(out, achievementStatus{AchievementDef: def, Earned: earned})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := s.LeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.handleError(w, r, errors.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, s.Profiles.Leaderboard(limit))
}

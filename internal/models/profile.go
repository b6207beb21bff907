package models

import "time"

// MaxHistoryEntries bounds the per-profile session history.
const MaxHistoryEntries = 50

type PlayerProfile struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	CreatedAt    time.Time      `json:"created_at"`
	Stats        Stats          `json:"stats"`
	Achievements []string       `json:"achievements"`
	History      []HistoryEntry `json:"history"` // most recent first, len <= MaxHistoryEntries
}

// Stats holds lifetime counters for a profile. The counters only ever grow;
// HighScore and FastestWinSeconds track best values, AverageAccuracy is
// recomputed from the counters on every update.
type Stats struct {
	GamesPlayed       int     `json:"games_played"`
	GamesWon          int     `json:"games_won"`
	TotalPuzzles      int     `json:"total_puzzles"`
	CorrectAnswers    int     `json:"correct_answers"`
	IncorrectAnswers  int     `json:"incorrect_answers"`
	HighScore         int     `json:"high_score"`
	AverageAccuracy   int     `json:"average_accuracy"`
	FastestWinSeconds float64 `json:"fastest_win_seconds"` // 0 until the first win
	TotalPlaySeconds  float64 `json:"total_play_seconds"`
}

// HistoryEntry is an immutable snapshot of one completed session.
type HistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Won            bool      `json:"won"`
	Score          int       `json:"score"`
	TotalPuzzles   int       `json:"total_puzzles"`
	CorrectAnswers int       `json:"correct_answers"`
	Accuracy       int       `json:"accuracy"`
	PlaySeconds    float64   `json:"play_seconds"`
}

// HasAchievement reports whether the profile already holds the given badge.
func (p *PlayerProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

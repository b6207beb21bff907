// Package events defines the named events exchanged over the bus and the
// payload type agreed for each name. The bus itself does not enforce payload
// shapes; these types are the contract between publishers and subscribers.
package events

import (
	"time"

	"github.com/jportela/puzzleladder/internal/models"
)

// Event names. Intents flow from the presentation boundary toward the engine;
// outcomes flow back out.
const (
	SessionStartRequested = "session-start-requested"
	SessionStarted        = "session-started"
	PuzzleReady           = "puzzle-ready"
	PuzzleFailed          = "puzzle-failed"
	PuzzleDisplayed       = "puzzle-displayed"
	PuzzleRetryRequested  = "puzzle-retry-requested"
	AnswerSubmitted       = "answer-submitted"
	AnswerCorrect         = "answer-correct"
	AnswerIncorrect       = "answer-incorrect"
	PositionChanged       = "position-changed"
	StatsUpdated          = "stats-updated"
	GameWon               = "game-won"
	NewPlayerRequested    = "new-player-requested"
	ProfileCreated        = "profile-created"
	ProfileLoaded         = "profile-loaded"
	ProfileReset          = "profile-reset"
	AchievementUnlocked   = "achievement-unlocked"
	LeaderboardUpdated    = "leaderboard-updated"
)

type SessionStartRequestedPayload struct {
	Name string `json:"name"`
}

type SessionStartedPayload struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// PuzzleReadyPayload carries a fetched puzzle back to the engine. SessionID
// identifies the session the fetch was issued for so late responses can be
// dropped after a reset.
type PuzzleReadyPayload struct {
	SessionID string        `json:"session_id"`
	Puzzle    models.Puzzle `json:"puzzle"`
}

type PuzzleFailedPayload struct {
	SessionID string `json:"session_id"`
}

type PuzzleDisplayedPayload struct {
	ImageRef       string `json:"image_ref"`
	Solution       int    `json:"solution"`
	SequenceNumber int    `json:"sequence_number"` // 1-based
}

type AnswerSubmittedPayload struct {
	Value int `json:"value"`
}

type AnswerCorrectPayload struct {
	Position int `json:"position"`
	Score    int `json:"score"`
}

type AnswerIncorrectPayload struct {
	CorrectAnswer int  `json:"correct_answer"`
	Position      int  `json:"position"`
	FellDown      bool `json:"fell_down"`
}

type PositionChangedPayload struct {
	Position  int    `json:"position"`
	Direction string `json:"direction"` // "up" or "down"
}

type StatsUpdatedPayload struct {
	Score        int `json:"score"`
	Position     int `json:"position"`
	Accuracy     int `json:"accuracy"`
	Correct      int `json:"correct"`
	Incorrect    int `json:"incorrect"`
	TotalPuzzles int `json:"total_puzzles"`
}

// GameWonPayload mirrors the session summary recorded for the winner.
type GameWonPayload struct {
	Won              bool    `json:"won"`
	Score            int     `json:"score"`
	TotalPuzzles     int     `json:"total_puzzles"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Accuracy         int     `json:"accuracy"`
	PlaySeconds      float64 `json:"play_seconds"`
}

// ProfilePayload accompanies profile-created, profile-loaded and
// profile-reset. Profile is nil on reset.
type ProfilePayload struct {
	Profile *models.PlayerProfile `json:"profile"`
}

type AchievementUnlockedPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

type LeaderboardUpdatedPayload struct {
	Entries []models.LeaderboardEntry `json:"entries"`
}

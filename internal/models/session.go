package models

// SessionSummary is the post-session digest handed to the profile store when
// a session finishes. Only won sessions are ever summarized; abandoned games
// are discarded without one.
type SessionSummary struct {
	Won              bool    `json:"won"`
	Score            int     `json:"score"`
	TotalPuzzles     int     `json:"total_puzzles"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Accuracy         int     `json:"accuracy"`
	PlaySeconds      float64 `json:"play_seconds"`
}

// LeaderboardEntry is a derived ranking row; never persisted.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	HighScore int    `json:"high_score"`
	GamesWon  int    `json:"games_won"`
	Accuracy  int    `json:"accuracy"`
}

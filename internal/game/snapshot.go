package game

import "time"

// Snapshot is a read-only view of the engine for the presentation boundary.
// The current puzzle's solution is deliberately absent.
type Snapshot struct {
	State       string     `json:"state"`
	Active      bool       `json:"active"`
	Position    int        `json:"position"`
	MaxPosition int        `json:"max_position"`
	Score       int        `json:"score"`
	PuzzlesSeen int        `json:"puzzles_seen"`
	Correct     int        `json:"correct"`
	Incorrect   int        `json:"incorrect"`
	Accuracy    int        `json:"accuracy"`
	ImageRef    string     `json:"image_ref,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &e.session
	snap := Snapshot{
		State:       e.state.String(),
		Active:      s.active,
		Position:    s.position,
		MaxPosition: e.cfg.MaxPosition,
		Score:       s.score,
		PuzzlesSeen: s.puzzlesSeen,
		Correct:     s.correct,
		Incorrect:   s.incorrect,
		Accuracy:    accuracy(s.correct, s.incorrect),
	}
	if s.currentPuzzle != nil {
		snap.ImageRef = s.currentPuzzle.ImageRef
	}
	if s.active {
		t := s.startedAt
		snap.StartedAt = &t
	}
	return snap
}

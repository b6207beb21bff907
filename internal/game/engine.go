// Package game implements the session engine: a state machine that climbs a
// player up the ladder on correct answers and down on mistakes, scoring as
// it goes, until the top position wins the game.
//
// The engine consumes intent events from the bus, drives the puzzle provider
// off the dispatch path, and publishes every observable outcome back onto
// the bus. State is mutated under a single lock; events are published after
// the lock is released so subscribers may safely publish back.
package game

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jportela/puzzleladder/internal/bus"
	"github.com/jportela/puzzleladder/internal/events"
	"github.com/jportela/puzzleladder/internal/models"
	"github.com/jportela/puzzleladder/internal/provider"
)

// State is the engine's position in the session lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingPuzzle
	StateAwaitingAnswer
	StateWon
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPuzzle:
		return "awaiting_puzzle"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateWon:
		return "won"
	default:
		return "unknown"
	}
}

// Scoring constants. A correct answer is worth the base plus a bonus for
// the rung reached plus a bonus for running accuracy.
const (
	baseScore     = 10
	positionBonus = 5
)

// Profiles is the slice of the profile store the engine needs.
type Profiles interface {
	CreateProfile(ctx context.Context, name string) *models.PlayerProfile
	RecordSession(ctx context.Context, summary models.SessionSummary)
}

// session is the per-game mutable state, replaced wholesale on each start.
type session struct {
	active        bool
	position      int
	score         int
	puzzlesSeen   int
	correct       int
	incorrect     int
	currentPuzzle *models.Puzzle
	startedAt     time.Time
}

type Config struct {
	MaxPosition     int           // rungs on the ladder; reaching this wins
	NextPuzzleDelay time.Duration // pause before requesting the next puzzle
}

type Engine struct {
	bus      *bus.Bus
	profiles Profiles
	provider provider.Provider
	cfg      Config
	log      zerolog.Logger

	now      func() time.Time
	schedule func(time.Duration, func())

	mu        sync.Mutex
	state     State
	session   session
	sessionID string // rotates on start and reset; stale-response guard
}

// Option overrides an engine default, used by tests to control time.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithScheduler replaces the delayed-callback mechanism.
func WithScheduler(schedule func(time.Duration, func())) Option {
	return func(e *Engine) { e.schedule = schedule }
}

func New(b *bus.Bus, profiles Profiles, prov provider.Provider, cfg Config, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		bus:      b,
		profiles: profiles,
		provider: prov,
		cfg:      cfg,
		log:      log.With().Str("component", "engine").Logger(),
		now:      time.Now,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}

	b.Subscribe(events.SessionStartRequested, func(payload any) {
		if p, ok := payload.(events.SessionStartRequestedPayload); ok {
			e.Start(p.Name)
		}
	})
	b.Subscribe(events.AnswerSubmitted, func(payload any) {
		if p, ok := payload.(events.AnswerSubmittedPayload); ok {
			e.Answer(p.Value)
		}
	})
	b.Subscribe(events.PuzzleReady, func(payload any) {
		if p, ok := payload.(events.PuzzleReadyPayload); ok {
			e.handlePuzzleReady(p)
		}
	})
	b.Subscribe(events.PuzzleFailed, func(payload any) {
		if p, ok := payload.(events.PuzzleFailedPayload); ok {
			e.handlePuzzleFailed(p)
		}
	})
	b.Subscribe(events.PuzzleRetryRequested, func(any) {
		e.Retry()
	})
	b.Subscribe(events.NewPlayerRequested, func(any) {
		e.Reset()
	})
	return e
}

// Start begins a new session for name, discarding any session in flight.
// The in-flight session is not recorded: only completed wins reach the
// profile store.
func (e *Engine) Start(name string) {
	p := e.profiles.CreateProfile(context.Background(), name)

	e.mu.Lock()
	e.sessionID = uuid.NewString()
	e.session = session{active: true, startedAt: e.now()}
	e.state = StateAwaitingPuzzle
	startedAt := e.session.startedAt
	e.mu.Unlock()

	e.log.Info().Str("name", p.Name).Msg("session started")
	e.bus.Publish(events.SessionStarted, events.SessionStartedPayload{Name: p.Name, Timestamp: startedAt})
	e.requestPuzzle()
}

// Reset abandons the session and returns to Idle. Nothing is persisted; the
// rotated session id makes any in-flight puzzle response inert.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.sessionID = ""
	e.session = session{}
	e.state = StateIdle
	e.mu.Unlock()
	e.log.Debug().Msg("session reset")
}

// Retry re-requests a puzzle after a provider failure. Ignored unless the
// engine is actually waiting on one.
func (e *Engine) Retry() {
	e.mu.Lock()
	ok := e.session.active && e.state == StateAwaitingPuzzle
	e.mu.Unlock()
	if ok {
		e.requestPuzzle()
	}
}

// requestPuzzle fetches off the dispatch path and reports the result as a
// bus event carrying the session id it was issued for.
func (e *Engine) requestPuzzle() {
	e.mu.Lock()
	sid := e.sessionID
	e.mu.Unlock()
	if sid == "" {
		return
	}

	go func() {
		puzzle, err := e.provider.Fetch(context.Background())
		if err != nil {
			e.bus.Publish(events.PuzzleFailed, events.PuzzleFailedPayload{SessionID: sid})
			return
		}
		e.bus.Publish(events.PuzzleReady, events.PuzzleReadyPayload{SessionID: sid, Puzzle: puzzle})
	}()
}

func (e *Engine) handlePuzzleReady(p events.PuzzleReadyPayload) {
	e.mu.Lock()
	if !e.current(p.SessionID) || e.state != StateAwaitingPuzzle {
		e.mu.Unlock()
		e.log.Debug().Msg("stale puzzle response dropped")
		return
	}
	puzzle := p.Puzzle
	e.session.currentPuzzle = &puzzle
	e.session.puzzlesSeen++
	e.state = StateAwaitingAnswer
	seq := e.session.puzzlesSeen
	e.mu.Unlock()

	e.bus.Publish(events.PuzzleDisplayed, events.PuzzleDisplayedPayload{
		ImageRef:       puzzle.ImageRef,
		Solution:       puzzle.Solution,
		SequenceNumber: seq,
	})
}

func (e *Engine) handlePuzzleFailed(p events.PuzzleFailedPayload) {
	e.mu.Lock()
	stale := !e.current(p.SessionID) || e.state != StateAwaitingPuzzle
	e.mu.Unlock()
	if stale {
		e.log.Debug().Msg("stale puzzle failure dropped")
		return
	}
	// Stay in AwaitingPuzzle; a retry must be requested explicitly.
	e.log.Warn().Msg("puzzle fetch failed, awaiting retry")
}

// Answer applies a submitted answer. Answers outside AwaitingAnswer (e.g.
// rapid duplicates while the next puzzle loads) are dropped.
func (e *Engine) Answer(value int) {
	e.mu.Lock()
	if !e.session.active || e.state != StateAwaitingAnswer || e.session.currentPuzzle == nil {
		e.mu.Unlock()
		e.log.Debug().Int("value", value).Msg("answer ignored outside awaiting_answer")
		return
	}

	puzzle := *e.session.currentPuzzle
	if value == puzzle.Solution {
		e.applyCorrect()
		return // applyCorrect unlocks
	}
	e.applyIncorrect(puzzle.Solution)
}

// applyCorrect is called with the lock held and releases it before
// publishing.
func (e *Engine) applyCorrect() {
	s := &e.session
	s.correct++
	climbed := s.position < e.cfg.MaxPosition
	if climbed {
		s.position++
	}
	acc := accuracy(s.correct, s.incorrect)
	s.score += baseScore + s.position*positionBonus + accuracyBonus(acc)

	position, score := s.position, s.score
	stats := e.statsPayload()
	won := position == e.cfg.MaxPosition

	var summary models.SessionSummary
	if won {
		e.state = StateWon
		s.active = false
		s.currentPuzzle = nil
		summary = models.SessionSummary{
			Won:              true,
			Score:            s.score,
			TotalPuzzles:     s.puzzlesSeen,
			CorrectAnswers:   s.correct,
			IncorrectAnswers: s.incorrect,
			Accuracy:         acc,
			PlaySeconds:      e.now().Sub(s.startedAt).Seconds(),
		}
	} else {
		s.currentPuzzle = nil
		e.state = StateAwaitingPuzzle
	}
	sid := e.sessionID
	e.mu.Unlock()

	if !won {
		e.schedule(e.cfg.NextPuzzleDelay, func() { e.requestPuzzleDeferred(sid) })
	}

	e.bus.Publish(events.AnswerCorrect, events.AnswerCorrectPayload{Position: position, Score: score})
	if climbed {
		e.bus.Publish(events.PositionChanged, events.PositionChangedPayload{Position: position, Direction: "up"})
	}
	e.bus.Publish(events.StatsUpdated, stats)

	if won {
		e.log.Info().Int("score", summary.Score).Int("puzzles", summary.TotalPuzzles).Msg("game won")
		e.profiles.RecordSession(context.Background(), summary)
		e.bus.Publish(events.GameWon, events.GameWonPayload{
			Won:              summary.Won,
			Score:            summary.Score,
			TotalPuzzles:     summary.TotalPuzzles,
			CorrectAnswers:   summary.CorrectAnswers,
			IncorrectAnswers: summary.IncorrectAnswers,
			Accuracy:         summary.Accuracy,
			PlaySeconds:      summary.PlaySeconds,
		})
	}
}

// applyIncorrect is called with the lock held and releases it before
// publishing.
func (e *Engine) applyIncorrect(solution int) {
	s := &e.session
	s.incorrect++
	fell := s.position > 0
	if fell {
		s.position--
	}
	position := s.position
	stats := e.statsPayload()

	s.currentPuzzle = nil
	e.state = StateAwaitingPuzzle
	sid := e.sessionID
	e.mu.Unlock()

	e.schedule(e.cfg.NextPuzzleDelay, func() { e.requestPuzzleDeferred(sid) })

	e.bus.Publish(events.AnswerIncorrect, events.AnswerIncorrectPayload{
		CorrectAnswer: solution,
		Position:      position,
		FellDown:      fell,
	})
	if fell {
		e.bus.Publish(events.PositionChanged, events.PositionChangedPayload{Position: position, Direction: "down"})
	}
	e.bus.Publish(events.StatsUpdated, stats)
}

// requestPuzzleDeferred runs when the post-answer delay elapses. The session
// may have been reset or restarted in the meantime.
func (e *Engine) requestPuzzleDeferred(sid string) {
	e.mu.Lock()
	ok := e.current(sid) && e.state == StateAwaitingPuzzle
	e.mu.Unlock()
	if ok {
		e.requestPuzzle()
	}
}

// current reports whether sid names the live session. Callers hold the lock.
func (e *Engine) current(sid string) bool {
	return e.session.active && sid != "" && sid == e.sessionID
}

// statsPayload builds the aggregate stats event. Callers hold the lock.
func (e *Engine) statsPayload() events.StatsUpdatedPayload {
	s := &e.session
	return events.StatsUpdatedPayload{
		Score:        s.score,
		Position:     s.position,
		Accuracy:     accuracy(s.correct, s.incorrect),
		Correct:      s.correct,
		Incorrect:    s.incorrect,
		TotalPuzzles: s.puzzlesSeen,
	}
}

func accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// accuracyBonus is a step function over cumulative accuracy.
func accuracyBonus(acc int) int {
	switch {
	case acc >= 90:
		return 6
	case acc >= 75:
		return 4
	case acc >= 60:
		return 2
	default:
		return 0
	}
}

// Package profile owns player identity, lifetime statistics, achievements
// and the derived leaderboard. Profiles are persisted as JSON under two keys
// of the storage port: the full collection and a snapshot of the current
// player.
//
// State is mutated under a single lock; bus events are published after the
// lock is released so subscribers may read back from the store.
package profile

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jportela/puzzleladder/internal/bus"
	"github.com/jportela/puzzleladder/internal/events"
	"github.com/jportela/puzzleladder/internal/models"
	"github.com/jportela/puzzleladder/internal/storage"
)

const (
	keyProfiles = "puzzleladder/profiles"
	keyCurrent  = "puzzleladder/current"

	// DefaultName is used when a session is started with an empty name.
	DefaultName = "Guest"
)

type Store struct {
	bus *bus.Bus
	kv  storage.KV
	log zerolog.Logger
	now func() time.Time

	mu       sync.Mutex
	profiles []*models.PlayerProfile
	current  *models.PlayerProfile
}

func NewStore(b *bus.Bus, kv storage.KV, log zerolog.Logger) *Store {
	s := &Store{
		bus: b,
		kv:  kv,
		log: log.With().Str("component", "profile").Logger(),
		now: time.Now,
	}
	b.Subscribe(events.NewPlayerRequested, func(any) {
		s.ResetCurrent(context.Background())
	})
	return s
}

// Load reads persisted state. Missing or unparseable data is treated as
// empty: the game must start even when the store is cold or corrupt.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()

	raw, ok, err := s.kv.Get(ctx, keyProfiles)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile collection unreadable, starting empty")
	} else if ok && raw != "" {
		var profiles []*models.PlayerProfile
		if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
			s.log.Warn().Err(err).Msg("profile collection malformed, starting empty")
		} else {
			s.profiles = profiles
		}
	}

	current := s.loadCurrent(ctx)
	s.current = current
	s.mu.Unlock()

	if current != nil {
		s.log.Info().Str("name", current.Name).Msg("current profile loaded")
		s.bus.Publish(events.ProfileLoaded, events.ProfilePayload{Profile: current})
	}
}

// loadCurrent resolves the persisted current-profile snapshot back to its
// collection entry so updates hit both. Caller holds the lock.
func (s *Store) loadCurrent(ctx context.Context) *models.PlayerProfile {
	raw, ok, err := s.kv.Get(ctx, keyCurrent)
	if err != nil {
		s.log.Warn().Err(err).Msg("current profile unreadable")
		return nil
	}
	if !ok || raw == "" || raw == "null" {
		return nil
	}
	var snapshot models.PlayerProfile
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.log.Warn().Err(err).Msg("current profile malformed, ignoring")
		return nil
	}
	for _, p := range s.profiles {
		if p.ID == snapshot.ID {
			return p
		}
	}
	return nil
}

// CreateProfile builds a fresh profile for name, appends it to the
// collection and makes it current. Each call creates a new profile; names
// are not deduplicated.
func (s *Store) CreateProfile(ctx context.Context, name string) *models.PlayerProfile {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	p := &models.PlayerProfile{
		ID:           uuid.NewString(),
		Name:         name,
		CreatedAt:    s.now(),
		Achievements: []string{},
		History:      []models.HistoryEntry{},
	}

	s.mu.Lock()
	s.profiles = append(s.profiles, p)
	s.current = p
	s.persist(ctx)
	s.mu.Unlock()

	s.log.Info().Str("id", p.ID).Str("name", name).Msg("profile created")
	s.bus.Publish(events.ProfileCreated, events.ProfilePayload{Profile: p})
	s.bus.Publish(events.ProfileLoaded, events.ProfilePayload{Profile: p})
	return p
}

// Current returns the active profile, or nil when no player is selected.
func (s *Store) Current() *models.PlayerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Profiles returns the full collection, oldest first.
func (s *Store) Profiles() []*models.PlayerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.PlayerProfile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// RecordSession folds a completed session into the current profile's
// lifetime stats, evaluates achievements and persists. A summary arriving
// with no current profile is dropped with a warning.
func (s *Store) RecordSession(ctx context.Context, summary models.SessionSummary) {
	s.mu.Lock()
	p := s.current
	if p == nil {
		s.mu.Unlock()
		s.log.Warn().Msg("session summary with no current profile, dropped")
		return
	}

	st := &p.Stats
	st.GamesPlayed++
	if summary.Won {
		st.GamesWon++
	}
	st.TotalPuzzles += summary.TotalPuzzles
	st.CorrectAnswers += summary.CorrectAnswers
	st.IncorrectAnswers += summary.IncorrectAnswers
	st.AverageAccuracy = accuracy(st.CorrectAnswers, st.IncorrectAnswers)
	if summary.Score > st.HighScore {
		st.HighScore = summary.Score
	}
	if summary.Won && (st.FastestWinSeconds == 0 || summary.PlaySeconds < st.FastestWinSeconds) {
		st.FastestWinSeconds = summary.PlaySeconds
	}
	st.TotalPlaySeconds += summary.PlaySeconds

	entry := models.HistoryEntry{
		Timestamp:      s.now(),
		Won:            summary.Won,
		Score:          summary.Score,
		TotalPuzzles:   summary.TotalPuzzles,
		CorrectAnswers: summary.CorrectAnswers,
		Accuracy:       summary.Accuracy,
		PlaySeconds:    summary.PlaySeconds,
	}
	p.History = append([]models.HistoryEntry{entry}, p.History...)
	if len(p.History) > models.MaxHistoryEntries {
		p.History = p.History[:models.MaxHistoryEntries]
	}

	unlocked := s.evaluateAchievements(p, summary)
	s.persist(ctx)
	leaderboard := s.leaderboardLocked(10)
	s.mu.Unlock()

	s.log.Info().
		Str("name", p.Name).
		Int("games_played", p.Stats.GamesPlayed).
		Int("high_score", p.Stats.HighScore).
		Msg("session recorded")

	for _, id := range unlocked {
		def, _ := models.AchievementByID(id)
		s.log.Info().Str("name", p.Name).Str("achievement", id).Msg("achievement unlocked")
		s.bus.Publish(events.AchievementUnlocked, events.AchievementUnlockedPayload{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			UnlockedAt:  s.now(),
		})
	}
	s.bus.Publish(events.ProfileLoaded, events.ProfilePayload{Profile: p})
	s.bus.Publish(events.LeaderboardUpdated, events.LeaderboardUpdatedPayload{Entries: leaderboard})
}

// evaluateAchievements awards badges whose condition holds for the updated
// stats, returning the newly unlocked ids. Awarding is idempotent: a badge
// already held is skipped. Caller holds the lock.
func (s *Store) evaluateAchievements(p *models.PlayerProfile, summary models.SessionSummary) []string {
	var unlocked []string
	award := func(id string) {
		if p.HasAchievement(id) {
			return
		}
		p.Achievements = append(p.Achievements, id)
		unlocked = append(unlocked, id)
	}

	st := p.Stats
	if summary.Won && st.GamesWon == 1 {
		award(models.AchievementFirstWin)
	}
	if summary.Won && summary.Accuracy == 100 {
		award(models.AchievementPerfectGame)
	}
	// Exact threshold: only the session that makes it 10 qualifies.
	if st.GamesPlayed == 10 {
		award(models.AchievementVeteran)
	}
	if st.TotalPuzzles >= 50 {
		award(models.AchievementPuzzleMaster)
	}
	return unlocked
}

// Leaderboard derives the ranked view: profiles that have played, by high
// score descending. Ties keep collection order.
func (s *Store) Leaderboard(limit int) []models.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboardLocked(limit)
}

func (s *Store) leaderboardLocked(limit int) []models.LeaderboardEntry {
	ranked := make([]*models.PlayerProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.Stats.GamesPlayed > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Stats.HighScore > ranked[j].Stats.HighScore
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]models.LeaderboardEntry, len(ranked))
	for i, p := range ranked {
		entries[i] = models.LeaderboardEntry{
			Rank:      i + 1,
			Name:      p.Name,
			HighScore: p.Stats.HighScore,
			GamesWon:  p.Stats.GamesWon,
			Accuracy:  p.Stats.AverageAccuracy,
		}
	}
	return entries
}

// ResetCurrent clears the current-player pointer; the profile itself stays
// in the collection.
func (s *Store) ResetCurrent(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	if err := s.kv.Set(ctx, keyCurrent, "null"); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear current profile")
	}
	s.mu.Unlock()

	s.log.Debug().Msg("current profile reset")
	s.bus.Publish(events.ProfileReset, events.ProfilePayload{})
}

// persist writes both keys. Write failures are logged and swallowed: the
// in-memory state stays authoritative for the rest of the run. Caller holds
// the lock.
func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.profiles)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode profiles")
		return
	}
	if err := s.kv.Set(ctx, keyProfiles, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist profiles")
	}

	cur := []byte("null")
	if s.current != nil {
		if cur, err = json.Marshal(s.current); err != nil {
			s.log.Error().Err(err).Msg("failed to encode current profile")
			return
		}
	}
	if err := s.kv.Set(ctx, keyCurrent, string(cur)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist current profile")
	}
}

func accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

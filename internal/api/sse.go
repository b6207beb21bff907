package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jportela/puzzleladder/internal/bus"
	"github.com/jportela/puzzleladder/internal/events"
)

// presentationEvents are the bus events forwarded to connected clients.
var presentationEvents = []string{
	events.SessionStarted,
	events.PuzzleDisplayed,
	events.PuzzleFailed,
	events.AnswerCorrect,
	events.AnswerIncorrect,
	events.PositionChanged,
	events.StatsUpdated,
	events.GameWon,
	events.ProfileCreated,
	events.ProfileLoaded,
	events.ProfileReset,
	events.AchievementUnlocked,
	events.LeaderboardUpdated,
}

type busMessage struct {
	event   string
	payload any
}

// handleEvents streams presentation-bound bus events as server-sent events
// until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Buffered so a slow client never blocks bus dispatch; overflow drops.
	messages := make(chan busMessage, 64)
	subs := make([]*bus.Subscription, 0, len(presentationEvents))
	for _, name := range presentationEvents {
		name := name
		subs = append(subs, s.Bus.Subscribe(name, func(payload any) {
			select {
			case messages <- busMessage{event: name, payload: payload}:
			default:
				s.Log.Warn().Str("event", name).Msg("sse client too slow, event dropped")
			}
		}))
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-messages:
			data, err := json.Marshal(msg.payload)
			if err != nil {
				s.Log.Error().Err(err).Str("event", msg.event).Msg("failed to encode sse payload")
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.event, data)
			flusher.Flush()
		}
	}
}

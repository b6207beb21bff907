// Package provider supplies puzzles to the session engine. The engine only
// depends on the Provider interface; whether puzzles come from the remote
// puzzle API or the local generator is wiring.
package provider

import (
	"context"

	"github.com/jportela/puzzleladder/internal/models"
)

// Provider fetches one puzzle. Fetch may block; the engine always calls it
// off the dispatch path and guards against late results.
type Provider interface {
	Fetch(ctx context.Context) (models.Puzzle, error)
}

package provider

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/jportela/puzzleladder/internal/models"
)

// LocalProvider generates simple arithmetic puzzles in-process. Used in
// development and as the fallback when the remote API is unreachable. The
// image reference is a data-style URI the presentation layer renders as text.
type LocalProvider struct {
	rand *rand.Rand
}

func NewLocal(seed int64) *LocalProvider {
	return &LocalProvider{rand: rand.New(rand.NewSource(seed))}
}

func (p *LocalProvider) Fetch(_ context.Context) (models.Puzzle, error) {
	a := p.rand.Intn(9) + 1
	b := p.rand.Intn(9) + 1
	if p.rand.Intn(2) == 0 || a <= b {
		return models.Puzzle{
			ImageRef: fmt.Sprintf("local:%d+%d", a, b),
			Solution: a + b,
		}, nil
	}
	return models.Puzzle{
		ImageRef: fmt.Sprintf("local:%d-%d", a, b),
		Solution: a - b,
	}, nil
}

// Fallback tries the primary provider and falls back to the secondary when
// the primary fails, logging the degradation.
type Fallback struct {
	primary   Provider
	secondary Provider
	log       zerolog.Logger
}

func NewFallback(primary, secondary Provider, log zerolog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		log:       log.With().Str("component", "provider").Logger(),
	}
}

func (f *Fallback) Fetch(ctx context.Context) (models.Puzzle, error) {
	puzzle, err := f.primary.Fetch(ctx)
	if err == nil {
		return puzzle, nil
	}
	f.log.Warn().Err(err).Msg("primary provider failed, using fallback")
	return f.secondary.Fetch(ctx)
}

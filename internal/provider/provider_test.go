package provider_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/puzzleladder/internal/models"
	"github.com/jportela/puzzleladder/internal/provider"
)

func TestHTTPProvider_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"question": "https://example.com/p/1.png", "solution": 7}`)
	}))
	defer srv.Close()

	p := provider.NewHTTP(srv.URL, time.Second, 0, zerolog.Nop())
	puzzle, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/p/1.png", puzzle.ImageRef)
	assert.Equal(t, 7, puzzle.Solution)
}

func TestHTTPProvider_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"question": "img", "solution": 3}`)
	}))
	defer srv.Close()

	p := provider.NewHTTP(srv.URL, time.Second, 2, zerolog.Nop())
	puzzle, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, puzzle.Solution)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPProvider_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := provider.NewHTTP(srv.URL, time.Second, 2, zerolog.Nop())
	_, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(3), calls.Load(), "one initial attempt plus two retries")
}

func TestHTTPProvider_RejectsMissingImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"solution": 3}`)
	}))
	defer srv.Close()

	p := provider.NewHTTP(srv.URL, time.Second, 0, zerolog.Nop())
	_, err := p.Fetch(context.Background())
	assert.Error(t, err)
}

func TestLocalProvider_SolutionMatchesImage(t *testing.T) {
	p := provider.NewLocal(1)
	for i := 0; i < 100; i++ {
		puzzle, err := p.Fetch(context.Background())
		require.NoError(t, err)

		expr := strings.TrimPrefix(puzzle.ImageRef, "local:")
		var a, b, want int
		if strings.Contains(expr, "+") {
			_, err = fmt.Sscanf(expr, "%d+%d", &a, &b)
			want = a + b
		} else {
			_, err = fmt.Sscanf(expr, "%d-%d", &a, &b)
			want = a - b
		}
		require.NoError(t, err)
		assert.Equal(t, want, puzzle.Solution)
		assert.GreaterOrEqual(t, puzzle.Solution, 0, "solutions stay non-negative")
	}
}

type erroringProvider struct{}

func (erroringProvider) Fetch(context.Context) (models.Puzzle, error) {
	return models.Puzzle{}, errors.New("down")
}

func TestFallback_UsesSecondaryOnPrimaryFailure(t *testing.T) {
	f := provider.NewFallback(erroringProvider{}, provider.NewLocal(1), zerolog.Nop())
	puzzle, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, puzzle.ImageRef)
}

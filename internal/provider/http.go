package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jportela/puzzleladder/internal/models"
)

// HTTPProvider fetches puzzles from a remote JSON endpoint returning
// {"question": "<image url>", "solution": <int>}.
type HTTPProvider struct {
	url        string
	retries    int
	httpClient *http.Client
	log        zerolog.Logger
}

func NewHTTP(url string, timeout time.Duration, retries int, log zerolog.Logger) *HTTPProvider {
	if retries < 0 {
		retries = 0
	}
	return &HTTPProvider{
		url:        url,
		retries:    retries,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "provider").Logger(),
	}
}

type puzzleResp struct {
	Question string `json:"question"`
	Solution int    `json:"solution"`
}

func (p *HTTPProvider) Fetch(ctx context.Context) (models.Puzzle, error) {
	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			p.log.Debug().Int("attempt", attempt+1).Msg("retrying puzzle fetch")
		}
		puzzle, err := p.fetchOnce(ctx)
		if err == nil {
			return puzzle, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	p.log.Error().Err(lastErr).Msg("puzzle fetch failed")
	return models.Puzzle{}, lastErr
}

func (p *HTTPProvider) fetchOnce(ctx context.Context) (models.Puzzle, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return models.Puzzle{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.Puzzle{}, err
	}
	defer resp.Body.Close()

	p.log.Debug().Dur("elapsed", time.Since(start)).Int("status", resp.StatusCode).Msg("puzzle response received")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return models.Puzzle{}, fmt.Errorf("puzzle api status %d: %s", resp.StatusCode, string(body))
	}

	var out puzzleResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Puzzle{}, fmt.Errorf("decode puzzle response: %w", err)
	}
	if out.Question == "" {
		return models.Puzzle{}, fmt.Errorf("puzzle response missing question image")
	}

	return models.Puzzle{ImageRef: out.Question, Solution: out.Solution}, nil
}

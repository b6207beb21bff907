package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/puzzleladder/internal/api"
	"github.com/jportela/puzzleladder/internal/bus"
	"github.com/jportela/puzzleladder/internal/game"
	"github.com/jportela/puzzleladder/internal/models"
	"github.com/jportela/puzzleladder/internal/profile"
	"github.com/jportela/puzzleladder/internal/provider"
	"github.com/jportela/puzzleladder/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *profile.Store) {
	t.Helper()

	b := bus.New(zerolog.Nop())
	store := profile.NewStore(b, storage.NewMemory(), zerolog.Nop())
	engine := game.New(b, store, provider.NewLocal(1),
		game.Config{MaxPosition: 10, NextPuzzleDelay: time.Millisecond},
		zerolog.Nop(),
	)

	srv := &api.Server{
		Bus:              b,
		Engine:           engine,
		Profiles:         store,
		Log:              zerolog.Nop(),
		LeaderboardLimit: 10,
	}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestStartSession(t *testing.T) {
	ts, store := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/session", `{"name": "Ada"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.True(t, snap.Active)

	require.NotNil(t, store.Current())
	assert.Equal(t, "Ada", store.Current().Name)
}

func TestStartSession_MalformedBody(t *testing.T) {
	ts, store := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/session", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, store.Current(), "a rejected request must not start a session")
}

func TestAnswer_NonNumericRejectedAtBoundary(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/session", `{"name": "Ada"}`)

	tests := []struct {
		name string
		body string
	}{
		{name: "string value", body: `{"value": "seven"}`},
		{name: "missing value", body: `{}`},
		{name: "not json", body: `value=7`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/session/answer", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body, "error")
		})
	}
}

func TestAnswer_NumericAccepted(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/session", `{"name": "Ada"}`)

	resp := postJSON(t, ts.URL+"/api/session/answer", `{"value": 7}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestGetProfile(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/profile")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	postJSON(t, ts.URL+"/api/session", `{"name": "Ada"}`)

	resp, err = http.Get(ts.URL + "/api/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var p models.PlayerProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, "Ada", p.Name)
}

func TestResetPlayer(t *testing.T) {
	ts, store := newTestServer(t)
	postJSON(t, ts.URL+"/api/session", `{"name": "Ada"}`)
	require.NotNil(t, store.Current())

	resp := postJSON(t, ts.URL+"/api/player/reset", ``)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Nil(t, store.Current())

	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.False(t, snap.Active)
	assert.Equal(t, "idle", snap.State)
}

func TestGetLeaderboard(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []models.LeaderboardEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Empty(t, entries)
}

func TestGetLeaderboard_InvalidLimit(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/leaderboard?limit=zero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAchievements(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/session", `{"name": "Ada"}`)

	resp, err := http.Get(ts.URL + "/api/achievements")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []struct {
		ID     string `json:"id"`
		Earned bool   `json:"earned"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, len(models.AchievementCatalog))
	for _, a := range out {
		assert.False(t, a.Earned, "a fresh profile has no achievements")
	}
}

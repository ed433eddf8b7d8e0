package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/way"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/keymaze/cache"
	"github.com/zucenko/keymaze/client"
	"github.com/zucenko/keymaze/config"
	"github.com/zucenko/keymaze/maze"
	"github.com/zucenko/keymaze/model"
)

const smallMaze = "#########\n#b.A.@.a#\n#########"

func testConfig() *config.Config {
	return &config.Config{Timeout: time.Second, MaxCells: 1 << 16, Version: "test"}
}

func startServer(t *testing.T, cfg *config.Config, solver *cache.Solver) (*SolveServer, *httptest.Server) {
	t.Helper()
	s := NewSolveServer(cfg, solver)
	ctx, cancel := context.WithCancel(context.Background())
	go s.Loop(ctx)
	router := way.NewRouter()
	s.Mount(router)
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return s, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + URI_WS
}

func postSolve(t *testing.T, ts *httptest.Server, req model.ClientMessage) (*http.Response, []byte) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+"/api/solve", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestWebsocketSession(t *testing.T) {
	s, ts := startServer(t, testConfig(), &cache.Solver{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := client.Dial(ctx, wsURL(ts))
	require.NoError(t, err)
	assert.NotEmpty(t, c.Session)
	assert.Equal(t, "test", c.Version)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sessions)

	solution, err := c.Solve(ctx, model.ClientMessage{Grid: smallMaze, Agents: 1})
	require.NoError(t, err)
	assert.True(t, solution.Found)
	assert.Equal(t, 8, solution.Distance)
	assert.Equal(t, []model.Pickup{{Agent: 0, Key: "a", Distance: 2}, {Agent: 0, Key: "b", Distance: 6}}, solution.Steps)

	_, err = c.Solve(ctx, model.ClientMessage{Grid: "#@?#"})
	assert.True(t, errors.Is(err, client.ErrRemote), "got %v", err)

	// the session survives a bad request
	solution, err = c.Solve(ctx, model.ClientMessage{Grid: smallMaze, Brute: true})
	require.NoError(t, err)
	assert.Equal(t, 8, solution.Distance)

	require.NoError(t, c.Close())
	assert.Eventually(t, func() bool {
		stats, err := s.Stats(ctx)
		return err == nil && stats.Sessions == 0
	}, 5*time.Second, 20*time.Millisecond)

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Solved)
	assert.Equal(t, int64(1), stats.Failed)
}

func TestSolveEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.MaxCells = 40
	_, ts := startServer(t, cfg, &cache.Solver{Options: []maze.Option{maze.WithWorkers(2)}})

	resp, body := postSolve(t, ts, model.ClientMessage{Grid: smallMaze})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var solution model.Solution
	require.NoError(t, json.Unmarshal(body, &solution))
	assert.Equal(t, 8, solution.Distance)
	assert.Len(t, solution.Digest, 64)

	resp, body = postSolve(t, ts, model.ClientMessage{Grid: "#######\n#@..#a#\n#######"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	solution = model.Solution{}
	require.NoError(t, json.Unmarshal(body, &solution))
	assert.False(t, solution.Found)

	tests := []struct {
		name string
		req  model.ClientMessage
		want int
	}{
		{"malformed", model.ClientMessage{Grid: "#@?#"}, http.StatusBadRequest},
		{"agent count", model.ClientMessage{Grid: smallMaze, Agents: 4}, http.StatusBadRequest},
		{"too large", model.ClientMessage{Grid: strings.Repeat("#", 41)}, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postSolve(t, ts, tt.req)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
		})
	}

	resp, err := http.Post(ts.URL+"/api/solve", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSolutionEndpoint(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()
	_, ts := startServer(t, testConfig(), &cache.Solver{Store: store})

	resp, body := postSolve(t, ts, model.ClientMessage{Grid: smallMaze, Agents: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var solved model.Solution
	require.NoError(t, json.Unmarshal(body, &solved))

	resp, err = http.Get(ts.URL + "/api/solutions/" + solved.Digest)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cached model.Solution
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cached))
	assert.True(t, cached.Cached)
	assert.Equal(t, solved.Distance, cached.Distance)

	missing, err := http.Get(ts.URL + "/api/solutions/" + strings.Repeat("0", 64))
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	statsResp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer statsResp.Body.Close()
	var stats Stats
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Cached)
	assert.Equal(t, int64(1), stats.Solved)
}

func TestSolutionEndpointWithoutCache(t *testing.T) {
	_, ts := startServer(t, testConfig(), &cache.Solver{})
	resp, err := http.Get(ts.URL + "/api/solutions/" + strings.Repeat("0", 64))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	_, ts := startServer(t, testConfig(), &cache.Solver{})
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestStatsWithoutLoop(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 10 * time.Millisecond
	s := NewSolveServer(cfg, &cache.Solver{})
	_, err := s.Stats(context.Background())
	assert.Error(t, err)
}

func TestResponseCodes(t *testing.T) {
	assert.Equal(t, HTTP_SUCCESS, codeFor(nil).ToHttp())
	assert.Equal(t, HTTP_BAD_REQUEST, codeFor(maze.ErrMalformedGrid).ToHttp())
	assert.Equal(t, HTTP_BAD_REQUEST, codeFor(maze.ErrUnexpectedAgentCount).ToHttp())
	assert.Equal(t, HTTP_TOO_LARGE, codeFor(ErrGridTooLarge).ToHttp())
	assert.Equal(t, HTTP_SERVER_ERR, codeFor(errors.New("boom")).ToHttp())
	assert.Panics(t, func() { ResponseCode(99).ToHttp() })
	assert.Equal(t, "OPEN", SS_OPEN.Name())
}

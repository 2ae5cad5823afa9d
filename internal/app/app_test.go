package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbadash/internal/config"
	"nbadash/internal/datasource"
	"nbadash/internal/gamelog"
	"nbadash/internal/shared/testutil"
	"nbadash/internal/store"
)

func testConfig(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Data.BaseURL = testutil.WriteDataDir(t, files)
	cfg.Telemetry.TracingEnabled = false
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func fixture() map[string]string {
	line := func(name, date, pts string) string {
		return testutil.GameLogLine(map[string]string{
			"SEASON_YEAR":       "2023-24",
			"PLAYER_ID":         "2544",
			"PLAYER_NAME":       name,
			"TEAM_ABBREVIATION": "LAL",
			"GAME_ID":           "00223" + strings.ReplaceAll(date, "-", ""),
			"GAME_DATE":         date + "T00:00:00",
			"MATCHUP":           "LAL vs. BOS",
			"WL":                "W",
			"PTS":               pts,
			"REB":               "7",
			"AST":               "8",
		})
	}
	return map[string]string{
		"nba_players_game_logs_2018_25.csv": testutil.GameLogCSV(
			line("LeBron James", "2024-01-01", "30"),
			line("LeBron James", "2024-01-03", "20"),
			line("LeBron James", "2024-01-05", "25"),
		),
		"nba_players_info.csv": "PERSON_ID,PLAYER_NAME\n2544,LeBron James\n",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if a.Archive != nil {
			_ = a.Archive.Close()
		}
		_ = a.OTelProviders.Shutdown(context.Background())
	})
	return a
}

func get(t *testing.T, a *Application, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp(t, testConfig(t, fixture()))

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "health", target: "/api/health", wantStatus: http.StatusOK},
		{name: "ready", target: "/api/health/ready", wantStatus: http.StatusOK},
		{name: "version", target: "/api/version", wantStatus: http.StatusOK},
		{name: "search", target: "/api/players?q=lebron", wantStatus: http.StatusOK},
		{name: "chart", target: "/api/players/LeBron%20James/chart?count=2", wantStatus: http.StatusOK},
		{name: "bio", target: "/api/players/LeBron%20James/bio", wantStatus: http.StatusOK},
		{name: "game", target: "/api/games/0022320240103", wantStatus: http.StatusOK},
		{name: "unknown player", target: "/api/players/Nobody/chart", wantStatus: http.StatusNotFound},
		{name: "leaders file missing", target: "/api/leaders/pts", wantStatus: http.StatusServiceUnavailable},
		{name: "archive disabled", target: "/api/archive/players", wantStatus: http.StatusNotFound},
		{name: "unknown route", target: "/api/nothing/here", wantStatus: http.StatusNotFound},
		{name: "metrics", target: "/metrics", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := get(t, a, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_ChartWindow(t *testing.T) {
	a := newTestApp(t, testConfig(t, fixture()))

	w, body := get(t, a, "/api/players/LeBron%20James/chart?count=2")
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	window := data["window"].(map[string]interface{})
	assert.Equal(t, float64(2), window["count"])
	assert.Equal(t, float64(3), window["available"])

	// the two most recent games, oldest first
	points := data["points"].([]interface{})
	require.Len(t, points, 2)
	assert.Equal(t, float64(20), points[0].(map[string]interface{})["pts"])
	assert.Equal(t, float64(25), points[1].(map[string]interface{})["pts"])
}

func TestApplication_MissingSourceIsNotReady(t *testing.T) {
	cfg := testConfig(t, map[string]string{})
	a := newTestApp(t, cfg)

	w, body := get(t, a, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "not_ready", body["status"])

	w, body = get(t, a, "/api/players?q=lebron")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "/errors/data/unavailable", body["type"])

	assert.Error(t, a.performStartupHealthCheck(context.Background()))
}

func TestApplication_Archive(t *testing.T) {
	cfg := testConfig(t, fixture())
	cfg.Data.ArchivePath = filepath.Join(t.TempDir(), "nba.db")

	doc, err := datasource.ParseCSV(strings.NewReader(fixture()[cfg.Data.GameLogsFile]))
	require.NoError(t, err)
	logger, _ := testutil.NewTestLogger(t)
	archive, err := store.Open(context.Background(), cfg.Data.ArchivePath, logger)
	require.NoError(t, err)
	_, err = archive.ImportTable(context.Background(), gamelog.Build(doc))
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	a := newTestApp(t, cfg)
	require.NotNil(t, a.Archive)

	w, body := get(t, a, "/api/archive/players")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"LeBron James"}, body["data"])

	w, body = get(t, a, "/api/archive/players/LeBron%20James/games?stat=PTS&order=asc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["count"])

	w, _ = get(t, a, "/api/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_InvalidSource(t *testing.T) {
	cfg := config.Default()
	cfg.Data.BaseURL = "ftp://example.com/data"
	cfg.Telemetry.TracingEnabled = false

	logger, _ := testutil.NewTestLogger(t)
	_, err := New(cfg, logger)
	assert.Error(t, err)
}

func TestApplication_ChartWindowClampsCount(t *testing.T) {
	a := newTestApp(t, testConfig(t, fixture()))

	tests := []struct {
		name      string
		target    string
		wantCount float64
	}{
		{name: "above cap", target: "/api/players/LeBron%20James/chart?count=501", wantCount: 3},
		{name: "negative", target: "/api/players/LeBron%20James/chart?count=-1", wantCount: 1},
		{name: "zero", target: "/api/players/LeBron%20James/chart?count=0", wantCount: 1},
		{name: "absent", target: "/api/players/LeBron%20James/chart", wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := get(t, a, tt.target)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			window := body["data"].(map[string]interface{})["window"].(map[string]interface{})
			assert.Equal(t, tt.wantCount, window["count"])
		})
	}
}

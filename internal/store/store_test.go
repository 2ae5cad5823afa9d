package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbadash/internal/datasource"
	apierrors "nbadash/internal/errors"
	"nbadash/internal/gamelog"
	"nbadash/internal/shared/testutil"
)

func game(name, team, date, matchup, pts, reb string) string {
	return testutil.GameLogLine(map[string]string{
		"PLAYER_NAME":       name,
		"TEAM_ABBREVIATION": team,
		"GAME_ID":           name + date,
		"GAME_DATE":         date,
		"MATCHUP":           matchup,
		"PTS":               pts,
		"REB":               reb,
	})
}

func openArchive(t *testing.T) *Store {
	t.Helper()

	doc, err := datasource.ParseCSV(strings.NewReader(testutil.GameLogCSV(
		game("LeBron James", "LAL", "2024-01-05", "LAL vs. BOS", "30", "8"),
		game("LeBron James", "LAL", "01/03/2024", "LAL @ MIA", "25", ""),
		game("LeBron James", "LAL", "2024-01-07", "LAL @ BOS", "28", "10"),
		game("Jayson Tatum", "BOS", "2024-01-05", "BOS @ LAL", "33", "11"),
		game("", "BOS", "2024-01-05", "BOS @ LAL", "1", "1"),
	)))
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "archive.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	n, err := s.ImportTable(context.Background(), gamelog.Build(doc))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	return s
}

func TestPlayerNames(t *testing.T) {
	s := openArchive(t)

	names, err := s.PlayerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Jayson Tatum", "LeBron James"}, names)
}

func TestPlayerGames(t *testing.T) {
	s := openArchive(t)
	ctx := context.Background()

	t.Run("defaults to newest first", func(t *testing.T) {
		games, err := s.PlayerGames(ctx, Query{Name: "LeBron James"})
		require.NoError(t, err)
		require.Len(t, games, 3)
		assert.Equal(t, "2024-01-07T00:00:00", games[0]["GAME_DATE"])
		assert.Equal(t, "2024-01-03T00:00:00", games[2]["GAME_DATE"], "dates are normalized")
		assert.Equal(t, 28.0, games[0]["PTS"])
		assert.Nil(t, games[2]["REB"])
	})

	t.Run("opponent filter and ascending order", func(t *testing.T) {
		games, err := s.PlayerGames(ctx, Query{Name: "LeBron James", VsTeam: "BOS", Order: "asc"})
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.Equal(t, "LAL vs. BOS", games[0]["MATCHUP"])
		assert.Equal(t, "LAL @ BOS", games[1]["MATCHUP"])
	})

	t.Run("single stat and limit", func(t *testing.T) {
		games, err := s.PlayerGames(ctx, Query{Name: "LeBron James", Stat: "PTS", Limit: 1})
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Len(t, games[0], 4)
		assert.Equal(t, 28.0, games[0]["PTS"])
		assert.Equal(t, "LAL", games[0]["TEAM_ABBREVIATION"])
	})

	t.Run("unknown stat is rejected", func(t *testing.T) {
		_, err := s.PlayerGames(ctx, Query{Name: "LeBron James", Stat: "PTS; DROP TABLE game_logs"})
		assert.True(t, errors.Is(err, apierrors.ErrAppValidation))
	})

	t.Run("bad order is rejected", func(t *testing.T) {
		_, err := s.PlayerGames(ctx, Query{Name: "LeBron James", Order: "sideways"})
		assert.True(t, errors.Is(err, apierrors.ErrAppValidation))
	})

	t.Run("unknown player", func(t *testing.T) {
		games, err := s.PlayerGames(ctx, Query{Name: "Nobody"})
		require.NoError(t, err)
		assert.Empty(t, games)
	})
}

func TestImportReplacesTable(t *testing.T) {
	s := openArchive(t)
	ctx := context.Background()

	doc, err := datasource.ParseCSV(strings.NewReader(testutil.GameLogCSV(
		game("Nikola Jokic", "DEN", "2024-02-01", "DEN vs. UTA", "31", "14"),
	)))
	require.NoError(t, err)

	_, err = s.ImportTable(ctx, gamelog.Build(doc))
	require.NoError(t, err)

	names, err := s.PlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nikola Jokic"}, names)
}

func TestArchiveColumns(t *testing.T) {
	assert.Equal(t, []string{"A", "b"}, archiveColumns([]string{"A", "", "b", "a", "B"}))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"PTS"`, quoteIdent("PTS"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

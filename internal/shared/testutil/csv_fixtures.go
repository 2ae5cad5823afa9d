package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// GameLogHeader is the column layout of the game-log snapshot used in tests
var GameLogHeader = []string{
	"SEASON_YEAR", "PLAYER_ID", "PLAYER_NAME", "TEAM_ABBREVIATION", "GAME_ID",
	"GAME_DATE", "MATCHUP", "WL", "MIN", "PTS", "REB", "AST", "STL", "BLK",
	"FGM", "FGA", "FTM", "FTA", "PF", "PLUS_MINUS",
}

// GameLogLine builds one CSV line in GameLogHeader order from the given
// column values. Missing columns are left empty.
func GameLogLine(values map[string]string) string {
	fields := make([]string, len(GameLogHeader))
	for i, col := range GameLogHeader {
		fields[i] = values[col]
	}
	return strings.Join(fields, ",")
}

// GameLogCSV joins the header and the given lines into a CSV document
func GameLogCSV(lines ...string) string {
	return strings.Join(append([]string{strings.Join(GameLogHeader, ",")}, lines...), "\n") + "\n"
}

// WriteDataDir writes the given files into a fresh temporary directory and
// returns its path.
func WriteDataDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}

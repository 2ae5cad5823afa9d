package gamelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbadash/internal/datasource"
	"nbadash/internal/shared/testutil"
)

func line(name, team, date, pts string, extra ...string) string {
	v := map[string]string{
		ColPlayerName: name,
		ColTeam:       team,
		ColGameDate:   date,
		ColPoints:     pts,
	}
	for i := 0; i+1 < len(extra); i += 2 {
		v[extra[i]] = extra[i+1]
	}
	return testutil.GameLogLine(v)
}

func buildTable(t *testing.T, lines ...string) *Table {
	t.Helper()
	doc, err := datasource.ParseCSV(strings.NewReader(testutil.GameLogCSV(lines...)))
	require.NoError(t, err)
	return Build(doc)
}

func TestBuildAdmission(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		admit bool
	}{
		{name: "valid row", line: line("A", "LAL", "2024-01-01", "25"), admit: true},
		{name: "decimal points", line: line("A", "LAL", "2024-01-01", "25.0"), admit: true},
		{name: "zero points", line: line("A", "LAL", "2024-01-01", "0"), admit: true},
		{name: "padded points", line: line("A", "LAL", "2024-01-01", " 7 "), admit: true},
		{name: "empty name", line: line("", "LAL", "2024-01-01", "25"), admit: false},
		{name: "empty points", line: line("A", "LAL", "2024-01-01", ""), admit: false},
		{name: "non-numeric points", line: line("A", "LAL", "2024-01-01", "DNP"), admit: false},
		{name: "NaN points", line: line("A", "LAL", "2024-01-01", "NaN"), admit: false},
		{name: "infinite points", line: line("A", "LAL", "2024-01-01", "Inf"), admit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := buildTable(t, tt.line)
			if tt.admit {
				assert.Len(t, table.Rows, 1)
				assert.Zero(t, table.Rejected)
			} else {
				assert.Empty(t, table.Rows)
				assert.Equal(t, 1, table.Rejected)
			}
		})
	}
}

func TestBuildOptionalStatsAreNullable(t *testing.T) {
	table := buildTable(t,
		line("A", "LAL", "2024-01-01", "20", ColRebounds, "7", ColAssists, "", ColSteals, "x", ColPlusMinus, "-4"),
	)
	require.Len(t, table.Rows, 1)
	r := table.Rows[0]

	require.NotNil(t, r.Rebounds)
	assert.Equal(t, 7.0, *r.Rebounds)
	assert.Nil(t, r.Assists)
	assert.Nil(t, r.Steals)
	require.NotNil(t, r.PlusMinus)
	assert.Equal(t, -4.0, *r.PlusMinus)

	v, ok := r.Stat(ColRebounds)
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)
	_, ok = r.Stat(ColAssists)
	assert.False(t, ok)
	_, ok = r.Stat("BOGUS")
	assert.False(t, ok)
}

func TestBuildShortLineKeepsMissingColumnsNull(t *testing.T) {
	csv := "PLAYER_NAME,PTS,REB,AST\nA,10\nB,12,4,3,surplus\n"
	doc, err := datasource.ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)

	table := Build(doc)
	require.Len(t, table.Rows, 2)
	assert.Nil(t, table.Rows[0].Rebounds)
	assert.Equal(t, []Field{{"PLAYER_NAME", "A"}, {"PTS", "10"}, {"REB", ""}, {"AST", ""}}, table.Rows[0].Fields)
	assert.Equal(t, 3.0, *table.Rows[1].Assists)
}

func TestBuildParsesIdentityColumns(t *testing.T) {
	table := buildTable(t, testutil.GameLogLine(map[string]string{
		ColSeasonYear: "2023-24",
		ColPlayerID:   "2544",
		ColPlayerName: "LeBron James",
		ColTeam:       "LAL",
		ColGameID:     "0022300001",
		ColGameDate:   "2023-10-24T00:00:00",
		ColMatchup:    "LAL @ DEN",
		ColWinLoss:    "l",
		ColPoints:     "21",
	}))
	require.Len(t, table.Rows, 1)
	r := table.Rows[0]

	assert.Equal(t, "2544", r.PlayerID)
	assert.Equal(t, "2023-24", r.SeasonYear)
	assert.Equal(t, "0022300001", r.GameID)
	assert.Equal(t, "LAL @ DEN", r.Matchup)
	assert.Equal(t, Loss, r.WinLoss)
	assert.True(t, r.HasDate())
	assert.Equal(t, 2023, r.Date.Year())
	assert.Equal(t, "LAL @ DEN", r.Get("matchup"))
	assert.Equal(t, 2, r.Line())
}

func TestPlayerIndexLastWriteWins(t *testing.T) {
	table := buildTable(t,
		line("Alpha", "LAL", "2024-01-01", "10"),
		line("Beta", "BOS", "2024-01-01", "11"),
		line("Alpha", "LAL", "2024-01-03", "30"),
		line("Gamma", "MIA", "2024-01-02", "5"),
		line("Alpha", "LAL", "2024-01-02", "20"),
	)

	idx := table.Players
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, idx.Names(), "first-seen order")

	alpha, ok := idx.Lookup("Alpha")
	require.True(t, ok)
	assert.Equal(t, 20.0, alpha.Points, "entry is the last row in file order")
	assert.Equal(t, "2024-01-02", alpha.GameDate)

	entries := idx.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Alpha", entries[0].PlayerName)
	assert.Equal(t, 20.0, entries[0].Points)

	_, ok = idx.Lookup("alpha")
	assert.False(t, ok, "lookup is exact")
}

func TestPlayerIndexSearch(t *testing.T) {
	table := buildTable(t,
		line("LeBron James", "LAL", "2024-01-01", "10"),
		line("Jalen Brunson", "NYK", "2024-01-01", "11"),
		line("Bronny James", "LAL", "2024-01-01", "2"),
		line("James Harden", "LAC", "2024-01-01", "15"),
	)

	tests := []struct {
		name  string
		term  string
		limit int
		want  []string
	}{
		{name: "case insensitive", term: "JAMES", want: []string{"LeBron James", "Bronny James", "James Harden"}},
		{name: "whitespace ignored", term: "lebron  ja mes", want: []string{"LeBron James"}},
		{name: "spans name boundary", term: "onjam", want: []string{"LeBron James"}},
		{name: "substring", term: "bron", want: []string{"LeBron James", "Bronny James"}},
		{name: "limit", term: "james", limit: 2, want: []string{"LeBron James", "Bronny James"}},
		{name: "empty term", term: "  ", want: nil},
		{name: "no match", term: "jordan", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range table.Players.Search(tt.term, tt.limit) {
				got = append(got, r.PlayerName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlayerRowsNewestFirst(t *testing.T) {
	table := buildTable(t,
		line("A", "LAL", "2024-01-02", "20"),
		line("B", "BOS", "2024-01-05", "1"),
		line("A", "LAL", "not a date", "99"),
		line("A", "LAL", "2024-01-03", "30"),
		line("A", "LAL", "2024-01-01", "10"),
	)

	rows := table.PlayerRows("A")
	require.Len(t, rows, 4)

	var pts []float64
	for _, r := range rows {
		pts = append(pts, r.Points)
	}
	assert.Equal(t, []float64{30, 20, 10, 99}, pts)
	assert.Empty(t, table.PlayerRows("Nobody"))
}

func TestFindGame(t *testing.T) {
	table := buildTable(t,
		line("A", "LAL", "2024-01-02", "20", ColGameID, "0022300001"),
		line("B", "LAL", "2024-01-02", "12", ColGameID, "0022300001"),
		line("C", "BOS", "2024-01-03", "8", ColGameID, "0022300002"),
	)

	r, ok := table.FindGame("0022300001")
	require.True(t, ok)
	assert.Equal(t, "A", r.PlayerName, "first row in file order")

	r, ok = table.FindGame("22300002")
	require.True(t, ok, "numeric form matches")
	assert.Equal(t, "C", r.PlayerName)

	_, ok = table.FindGame("0022399999")
	assert.False(t, ok)
	_, ok = table.FindGame("")
	assert.False(t, ok)
}

func TestSeasons(t *testing.T) {
	table := buildTable(t,
		line("A", "LAL", "2024-01-02", "20", ColSeasonYear, "2023-24"),
		line("A", "LAL", "2023-01-02", "20", ColSeasonYear, "2022-23"),
		line("B", "LAL", "2024-01-02", "20", ColSeasonYear, "2023-24"),
		line("B", "LAL", "2025-01-02", "20", ColSeasonYear, "2024-25"),
		line("B", "LAL", "2025-01-03", "20"),
	)

	got := Seasons(table.PlayerRows("A"), table.PlayerRows("B"))
	assert.Equal(t, []string{"2022-23", "2023-24", "2024-25"}, got)
	assert.Empty(t, Seasons())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "lebronjames", NormalizeName(" LeBron\tJames "))
	assert.Equal(t, "nikolajokić", NormalizeName("Nikola Jokić"))
}

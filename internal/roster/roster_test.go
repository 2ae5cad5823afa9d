package roster

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbadash/internal/datasource"
	apierrors "nbadash/internal/errors"
	"nbadash/internal/shared/testutil"
)

const infoCSV = `PERSON_ID,PLAYER_NAME,TEAM_ABBREVIATION,TEAM_NAME,POSITION,HEIGHT,HEADLINE_PTS,HEADLINE_REB,HEADLINE_AST,AVAILABLE_SEASONS,TEAM_COLOR
2544,LeBron James,LAL,Lakers,Forward,6-9,25.7,7.3,8.3,"22003, 22004",#552583
201939,Stephen Curry,GSW,Warriors,Guard,6-2,26.4,4.5,
,,BOS,Celtics,Guard,6-3,1,1,1,,
`

func parse(t *testing.T, s string) *datasource.Document {
	t.Helper()
	doc, err := datasource.ParseCSV(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestBuild(t *testing.T) {
	d := Build(parse(t, infoCSV))
	assert.Equal(t, 2, d.Len())

	lebron, ok := d.Lookup("  lebron   JAMES ")
	require.True(t, ok)
	assert.Equal(t, "2544", lebron.PlayerID)
	assert.Equal(t, "LAL", lebron.TeamAbbr)
	assert.Equal(t, "#552583", lebron.TeamColor)
	assert.Equal(t, []string{"22003", "22004"}, lebron.Seasons)
	require.NotNil(t, lebron.Headline.PTS)
	assert.Equal(t, 25.7, *lebron.Headline.PTS)
	assert.Equal(t, "Forward", lebron.Columns["POSITION"])

	curry, ok := d.LookupID("201939")
	require.True(t, ok)
	assert.Equal(t, "Stephen Curry", curry.PlayerName)
	assert.Nil(t, curry.Headline.AST, "empty headline value")

	_, ok = d.Lookup("")
	assert.False(t, ok)
	_, ok = d.Lookup("Nobody")
	assert.False(t, ok)
}

func TestBuildLastRecordWins(t *testing.T) {
	d := Build(parse(t, "PERSON_ID,PLAYER_NAME,TEAM_ABBREVIATION\n1,A,LAL\n1,A,MIA\n"))
	b, ok := d.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "MIA", b.TeamAbbr)
}

func TestLoader(t *testing.T) {
	dir := testutil.WriteDataDir(t, map[string]string{"info.csv": infoCSV})
	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(datasource.NewFetcher(datasource.NewDirSource(dir), logger), "info.csv", logger)

	d, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	missing := NewLoader(datasource.NewFetcher(datasource.NewDirSource(dir), logger), "nope.csv", logger)
	_, err = missing.Load(context.Background())
	assert.True(t, errors.Is(err, apierrors.ErrDataUnavailable))
}

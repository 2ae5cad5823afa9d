package gamelog

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the game-log snapshot
const (
	ColSeasonYear = "SEASON_YEAR"
	ColPlayerID   = "PLAYER_ID"
	ColPlayerName = "PLAYER_NAME"
	ColTeam       = "TEAM_ABBREVIATION"
	ColGameID     = "GAME_ID"
	ColGameDate   = "GAME_DATE"
	ColMatchup    = "MATCHUP"
	ColWinLoss    = "WL"
	ColMinutes    = "MIN"
	ColPoints     = "PTS"
	ColRebounds   = "REB"
	ColAssists    = "AST"
	ColSteals     = "STL"
	ColBlocks     = "BLK"
	ColFGM        = "FGM"
	ColFGA        = "FGA"
	ColFTM        = "FTM"
	ColFTA        = "FTA"
	ColFouls      = "PF"
	ColPlusMinus  = "PLUS_MINUS"
)

// WinLoss is the game outcome from the player's team perspective
type WinLoss string

const (
	Win     WinLoss = "W"
	Loss    WinLoss = "L"
	Unknown WinLoss = ""
)

// Field is one raw column of a source line
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Row is one player's line for one game. Optional numeric stats are nil when
// the source value was empty or not a finite number.
type Row struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Team       string    `json:"team_abbreviation"`
	GameID     string    `json:"game_id"`
	GameDate   string    `json:"game_date"`
	Date       time.Time `json:"-"`
	SeasonYear string    `json:"season_year"`
	Matchup    string    `json:"matchup"`
	WinLoss    WinLoss   `json:"wl,omitempty"`

	Points    float64  `json:"pts"`
	Rebounds  *float64 `json:"reb"`
	Assists   *float64 `json:"ast"`
	Steals    *float64 `json:"stl"`
	Blocks    *float64 `json:"blk"`
	FGM       *float64 `json:"fgm"`
	FGA       *float64 `json:"fga"`
	FTM       *float64 `json:"ftm"`
	FTA       *float64 `json:"fta"`
	Fouls     *float64 `json:"pf"`
	Minutes   *float64 `json:"min"`
	PlusMinus *float64 `json:"plus_minus"`

	// Fields holds every column of the source line in header order
	Fields []Field `json:"-"`

	line int
}

// Line returns the 1-based data line the row was parsed from
func (r Row) Line() int {
	return r.line
}

// HasDate reports whether GameDate was recognised
func (r Row) HasDate() bool {
	return !r.Date.IsZero()
}

// Stat returns a numeric stat by column name (PTS, REB, ...). The boolean is
// false when the value is null or the column is not a known stat.
func (r Row) Stat(col string) (float64, bool) {
	if col == ColPoints {
		return r.Points, true
	}
	p := r.statPtr(col)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (r Row) statPtr(col string) *float64 {
	switch col {
	case ColRebounds:
		return r.Rebounds
	case ColAssists:
		return r.Assists
	case ColSteals:
		return r.Steals
	case ColBlocks:
		return r.Blocks
	case ColFGM:
		return r.FGM
	case ColFGA:
		return r.FGA
	case ColFTM:
		return r.FTM
	case ColFTA:
		return r.FTA
	case ColFouls:
		return r.Fouls
	case ColMinutes:
		return r.Minutes
	case ColPlusMinus:
		return r.PlusMinus
	}
	return nil
}

// StatColumns lists the numeric columns Stat understands
var StatColumns = []string{
	ColPoints, ColRebounds, ColAssists, ColSteals, ColBlocks,
	ColFGM, ColFGA, ColFTM, ColFTA, ColFouls, ColMinutes, ColPlusMinus,
}

// Get returns a raw column value by name, or "" when absent
func (r Row) Get(name string) string {
	for _, f := range r.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// parseNumber coerces a CSV value to a finite float. Empty, non-numeric, NaN
// and infinite values are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func nullable(s string) *float64 {
	v, ok := parseNumber(s)
	if !ok {
		return nil
	}
	return &v
}

func parseWinLoss(s string) WinLoss {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "W":
		return Win
	case "L":
		return Loss
	}
	return Unknown
}

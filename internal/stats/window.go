package stats

import (
	"strings"

	"nbadash/internal/gamelog"
)

// AllSeasons disables the season filter
const AllSeasons = "All"

// Policy bounds the number of games a view may select. Max of 0 means the
// count is capped only by the rows available.
type Policy struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Chart and compare view policies
var (
	ChartPolicy   = Policy{Min: 1, Max: 30, Default: 10}
	ComparePolicy = Policy{Min: 3, Max: 0, Default: 20}
)

// Clamp resolves a requested count against the policy and the number of rows
// available. A nil count selects the default; any explicit count is clamped
// into [Min, Max]. The result never exceeds available.
func (p Policy) Clamp(requested *int, available int) int {
	k := p.Default
	if requested != nil {
		k = *requested
	}
	if k < p.Min {
		k = p.Min
	}
	upper := available
	if p.Max > 0 && p.Max < upper {
		upper = p.Max
	}
	if k > upper {
		k = upper
	}
	if k < 0 {
		k = 0
	}
	return k
}

// Selection is the caller's choice of season and game count. It is a value;
// changing the selection means computing a new window. A nil Count means the
// caller did not ask for one.
type Selection struct {
	Season string `json:"season"`
	Count  *int   `json:"count,omitempty"`
}

// GameCount returns a pointer to n for Selection.Count
func GameCount(n int) *int {
	return &n
}

// SeasonFilter reports whether the selection restricts to one season
func (s Selection) SeasonFilter() (string, bool) {
	season := strings.TrimSpace(s.Season)
	if season == "" || strings.EqualFold(season, AllSeasons) {
		return "", false
	}
	return season, true
}

// Window is the slice of a player's games a view computes over
type Window struct {
	Season    string        `json:"season"`
	Requested *int          `json:"requested,omitempty"`
	Count     int           `json:"count"`
	Available int           `json:"available"`
	Rows      []gamelog.Row `json:"-"`
}

// Recent returns the window's rows newest first
func (w Window) Recent() []gamelog.Row {
	out := make([]gamelog.Row, len(w.Rows))
	for i, r := range w.Rows {
		out[len(w.Rows)-1-i] = r
	}
	return out
}

// SelectWindow filters rows (already newest first) by season, keeps the
// first k after clamping, and returns them in chronological order.
func SelectWindow(rows []gamelog.Row, sel Selection, p Policy) Window {
	filtered := rows
	season, filter := sel.SeasonFilter()
	if filter {
		filtered = make([]gamelog.Row, 0, len(rows))
		for _, r := range rows {
			if r.SeasonYear == season {
				filtered = append(filtered, r)
			}
		}
	}

	k := p.Clamp(sel.Count, len(filtered))

	out := make([]gamelog.Row, k)
	for i := 0; i < k; i++ {
		out[i] = filtered[k-1-i]
	}

	w := Window{
		Season:    AllSeasons,
		Requested: sel.Count,
		Count:     k,
		Available: len(filtered),
		Rows:      out,
	}
	if filter {
		w.Season = season
	}
	return w
}

// Point is one game of a chart series
type Point struct {
	Game     int      `json:"game"`
	GameID   string   `json:"game_id"`
	GameDate string   `json:"game_date"`
	Matchup  string   `json:"matchup"`
	WinLoss  string   `json:"wl,omitempty"`
	PTS      float64  `json:"pts"`
	REB      *float64 `json:"reb"`
	AST      *float64 `json:"ast"`
}

// Series converts chronological rows into chart points numbered from 1
func Series(rows []gamelog.Row) []Point {
	out := make([]Point, len(rows))
	for i, r := range rows {
		out[i] = Point{
			Game:     i + 1,
			GameID:   r.GameID,
			GameDate: r.GameDate,
			Matchup:  r.Matchup,
			WinLoss:  string(r.WinLoss),
			PTS:      r.Points,
			REB:      r.Rebounds,
			AST:      r.Assists,
		}
	}
	return out
}

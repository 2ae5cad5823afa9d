package stats

import (
	"nbadash/internal/gamelog"
)

// MatchedGame pairs two players' rows from the same game
type MatchedGame struct {
	A gamelog.Row
	B gamelog.Row
}

// MatchGames joins a and b on identical GAME_DATE text and team. Output
// follows the order of a; for each row of a the first matching row of b is
// used and rows without a partner are dropped.
func MatchGames(a, b []gamelog.Row) []MatchedGame {
	var out []MatchedGame
	for _, ra := range a {
		for _, rb := range b {
			if ra.GameDate == rb.GameDate && ra.Team == rb.Team {
				out = append(out, MatchedGame{A: ra, B: rb})
				break
			}
		}
	}
	return out
}

// Correlations is the cross-player correlation matrix over matched games
type Correlations struct {
	Team  string             `json:"team"`
	Count int                `json:"count"`
	Pairs map[string]float64 `json:"pairs"`
}

// CorrelationMatrix correlates every key of player A with every key of
// player B across the matched games. Pairs are keyed "PTS-REB" (A's stat
// first). Team is taken from the first matched game, the most recent when
// the join ran over newest-first rows. It returns nil when there are no
// matched games.
func CorrelationMatrix(matched []MatchedGame, keys []string) *Correlations {
	if len(matched) == 0 {
		return nil
	}
	if len(keys) == 0 {
		keys = DefaultKeys
	}

	as := make([]gamelog.Row, len(matched))
	bs := make([]gamelog.Row, len(matched))
	for i, m := range matched {
		as[i], bs[i] = m.A, m.B
	}

	pairs := make(map[string]float64, len(keys)*len(keys))
	for _, ka := range keys {
		xa := Values(as, ka)
		for _, kb := range keys {
			pairs[ka+"-"+kb] = Correlation(xa, Values(bs, kb))
		}
	}

	return &Correlations{
		Team:  matched[0].A.Team,
		Count: len(matched),
		Pairs: pairs,
	}
}

// OverlaySide is one player's values for an overlay game
type OverlaySide struct {
	GameID string   `json:"game_id"`
	PTS    float64  `json:"pts"`
	REB    *float64 `json:"reb"`
	AST    *float64 `json:"ast"`
}

// OverlayPoint aligns the i-th game of two windows
type OverlayPoint struct {
	Game int         `json:"game"`
	A    OverlaySide `json:"a"`
	B    OverlaySide `json:"b"`
}

// Overlay aligns two chronological windows by game index up to the shorter
func Overlay(a, b []gamelog.Row) []OverlayPoint {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]OverlayPoint, n)
	for i := 0; i < n; i++ {
		out[i] = OverlayPoint{Game: i + 1, A: side(a[i]), B: side(b[i])}
	}
	return out
}

func side(r gamelog.Row) OverlaySide {
	return OverlaySide{GameID: r.GameID, PTS: r.Points, REB: r.Rebounds, AST: r.Assists}
}

package gamelog

import (
	"sort"
	"strings"
	"unicode"

	"nbadash/internal/datasource"
)

// Table is the working set produced by one ingestion: every admitted row in
// file order plus the player index derived from them. A Table is never
// mutated after Build returns.
type Table struct {
	Header   []string
	Rows     []Row
	Players  *PlayerIndex
	Rejected int
}

// Build converts a parsed document into a Table. A row is admitted iff
// PLAYER_NAME is non-empty and PTS is a finite number; other rows are
// dropped and counted in Rejected.
func Build(doc *datasource.Document) *Table {
	t := &Table{
		Header: append([]string(nil), doc.Header...),
		Rows:   make([]Row, 0, len(doc.Records)),
	}

	for i, record := range doc.Records {
		row, ok := buildRow(doc, record)
		if !ok {
			t.Rejected++
			continue
		}
		row.line = i + 2
		t.Rows = append(t.Rows, row)
	}

	t.Players = newPlayerIndex(t.Rows)
	return t
}

func buildRow(doc *datasource.Document, record []string) (Row, bool) {
	get := func(col string) string { return doc.Value(record, col) }

	name := get(ColPlayerName)
	if name == "" {
		return Row{}, false
	}
	pts, ok := parseNumber(get(ColPoints))
	if !ok {
		return Row{}, false
	}

	row := Row{
		PlayerID:   strings.TrimSpace(get(ColPlayerID)),
		PlayerName: name,
		Team:       strings.TrimSpace(get(ColTeam)),
		GameID:     strings.TrimSpace(get(ColGameID)),
		GameDate:   strings.TrimSpace(get(ColGameDate)),
		SeasonYear: strings.TrimSpace(get(ColSeasonYear)),
		Matchup:    strings.TrimSpace(get(ColMatchup)),
		WinLoss:    parseWinLoss(get(ColWinLoss)),
		Points:     pts,
		Rebounds:   nullable(get(ColRebounds)),
		Assists:    nullable(get(ColAssists)),
		Steals:     nullable(get(ColSteals)),
		Blocks:     nullable(get(ColBlocks)),
		FGM:        nullable(get(ColFGM)),
		FGA:        nullable(get(ColFGA)),
		FTM:        nullable(get(ColFTM)),
		FTA:        nullable(get(ColFTA)),
		Fouls:      nullable(get(ColFouls)),
		Minutes:    nullable(get(ColMinutes)),
		PlusMinus:  nullable(get(ColPlusMinus)),
	}
	row.Date, _ = ParseGameDate(row.GameDate)

	row.Fields = make([]Field, len(doc.Header))
	for i, h := range doc.Header {
		f := Field{Name: h}
		if i < len(record) {
			f.Value = record[i]
		}
		row.Fields[i] = f
	}

	return row, true
}

// PlayerRows returns every row for the exact player name, newest game first.
// Rows whose date could not be parsed sort after all dated rows and keep
// their file order.
func (t *Table) PlayerRows(name string) []Row {
	var rows []Row
	for _, r := range t.Rows {
		if r.PlayerName == name {
			rows = append(rows, r)
		}
	}
	SortNewestFirst(rows)
	return rows
}

// SortNewestFirst orders rows by game date descending, in place
func SortNewestFirst(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.HasDate() && b.HasDate():
			return a.Date.After(b.Date)
		case a.HasDate():
			return true
		default:
			return false
		}
	})
}

// FindGame returns the first row in file order with the given GAME_ID.
// IDs match exactly or after dropping leading zeros, since some exports
// store the id as a number.
func (t *Table) FindGame(gameID string) (Row, bool) {
	want := strings.TrimSpace(gameID)
	if want == "" {
		return Row{}, false
	}
	for _, r := range t.Rows {
		if sameGameID(r.GameID, want) {
			return r, true
		}
	}
	return Row{}, false
}

func sameGameID(a, b string) bool {
	if a == b {
		return true
	}
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	return ta != "" && ta == tb
}

// Seasons returns the sorted distinct SEASON_YEAR values of the given rows
func Seasons(rowSets ...[]Row) []string {
	seen := make(map[string]struct{})
	for _, rows := range rowSets {
		for _, r := range rows {
			if r.SeasonYear != "" {
				seen[r.SeasonYear] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// PlayerIndex holds one entry per distinct player name. The entry is the
// last row seen for that name in file order, while entries keep the position
// at which each name first appeared.
type PlayerIndex struct {
	names []string
	last  map[string]Row
}

func newPlayerIndex(rows []Row) *PlayerIndex {
	p := &PlayerIndex{last: make(map[string]Row)}
	for _, r := range rows {
		if _, seen := p.last[r.PlayerName]; !seen {
			p.names = append(p.names, r.PlayerName)
		}
		p.last[r.PlayerName] = r
	}
	return p
}

// Len returns the number of distinct players
func (p *PlayerIndex) Len() int {
	return len(p.names)
}

// Names returns player names in first-seen order
func (p *PlayerIndex) Names() []string {
	return append([]string(nil), p.names...)
}

// Entries returns the index entries in first-seen order
func (p *PlayerIndex) Entries() []Row {
	out := make([]Row, len(p.names))
	for i, n := range p.names {
		out[i] = p.last[n]
	}
	return out
}

// Lookup returns the entry for an exact player name
func (p *PlayerIndex) Lookup(name string) (Row, bool) {
	r, ok := p.last[name]
	return r, ok
}

// Search matches the term against player names ignoring case and all
// whitespace, in index order. An empty term matches nothing. limit <= 0
// means no limit.
func (p *PlayerIndex) Search(term string, limit int) []Row {
	needle := NormalizeName(term)
	if needle == "" {
		return nil
	}

	var out []Row
	for _, n := range p.names {
		if strings.Contains(NormalizeName(n), needle) {
			out = append(out, p.last[n])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// NormalizeName lowercases s and removes all whitespace
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

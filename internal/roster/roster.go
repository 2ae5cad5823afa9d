package roster

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"nbadash/internal/datasource"
	"nbadash/internal/gamelog"
)

// Column names of the player info file
const (
	ColPlayerID     = "PERSON_ID"
	ColPlayerName   = "PLAYER_NAME"
	ColTeamID       = "TEAM_ID"
	ColTeamName     = "TEAM_NAME"
	ColTeamAbbr     = "TEAM_ABBREVIATION"
	ColTeamColor    = "TEAM_COLOR"
	ColPosition     = "POSITION"
	ColHeight       = "HEIGHT"
	ColWeight       = "WEIGHT"
	ColCountry      = "COUNTRY"
	ColSchool       = "SCHOOL"
	ColBirthdate    = "BIRTHDATE"
	ColDraftYear    = "DRAFT_YEAR"
	ColDraftRound   = "DRAFT_ROUND"
	ColDraftNumber  = "DRAFT_NUMBER"
	ColJersey       = "JERSEY"
	ColSeasons      = "AVAILABLE_SEASONS"
	ColHeadlinePTS  = "HEADLINE_PTS"
	ColHeadlineREB  = "HEADLINE_REB"
	ColHeadlineAST  = "HEADLINE_AST"
	ColHeadlineTime = "HEADLINE_TimeFrame"
)

// Bio describes one player
type Bio struct {
	PlayerID    string            `json:"player_id"`
	PlayerName  string            `json:"player_name"`
	TeamID      string            `json:"team_id,omitempty"`
	TeamName    string            `json:"team_name,omitempty"`
	TeamAbbr    string            `json:"team_abbreviation,omitempty"`
	TeamColor   string            `json:"team_color,omitempty"`
	Position    string            `json:"position,omitempty"`
	Height      string            `json:"height,omitempty"`
	Weight      string            `json:"weight,omitempty"`
	Country     string            `json:"country,omitempty"`
	School      string            `json:"school,omitempty"`
	Birthdate   string            `json:"birthdate,omitempty"`
	DraftYear   string            `json:"draft_year,omitempty"`
	DraftRound  string            `json:"draft_round,omitempty"`
	DraftNumber string            `json:"draft_number,omitempty"`
	Jersey      string            `json:"jersey,omitempty"`
	Seasons     []string          `json:"available_seasons,omitempty"`
	Headline    Headline          `json:"headline"`
	Columns     map[string]string `json:"columns"`
}

// Headline holds the career headline stats
type Headline struct {
	TimeFrame string   `json:"time_frame,omitempty"`
	PTS       *float64 `json:"pts"`
	REB       *float64 `json:"reb"`
	AST       *float64 `json:"ast"`
}

// Directory indexes bios by normalized player name
type Directory struct {
	bios   map[string]Bio
	byID   map[string]string
	source int
}

// Len returns the number of distinct players
func (d *Directory) Len() int {
	return len(d.bios)
}

// Lookup finds a bio by name, ignoring case and whitespace
func (d *Directory) Lookup(name string) (Bio, bool) {
	key := gamelog.NormalizeName(name)
	if key == "" {
		return Bio{}, false
	}
	b, ok := d.bios[key]
	return b, ok
}

// LookupID finds a bio by player id
func (d *Directory) LookupID(id string) (Bio, bool) {
	key, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return Bio{}, false
	}
	return d.bios[key], true
}

// Build indexes a parsed player info document. Records without a player
// name are skipped; a later record for the same name replaces an earlier one.
func Build(doc *datasource.Document) *Directory {
	d := &Directory{
		bios:   make(map[string]Bio, len(doc.Records)),
		byID:   make(map[string]string, len(doc.Records)),
		source: len(doc.Records),
	}

	for _, record := range doc.Records {
		get := func(col string) string { return strings.TrimSpace(doc.Value(record, col)) }

		name := get(ColPlayerName)
		key := gamelog.NormalizeName(name)
		if key == "" {
			continue
		}

		id := get(ColPlayerID)
		if id == "" {
			id = get("PLAYER_ID")
		}

		columns := make(map[string]string, len(doc.Header))
		for i, h := range doc.Header {
			if i < len(record) {
				columns[h] = record[i]
			}
		}

		b := Bio{
			PlayerID:    id,
			PlayerName:  name,
			TeamID:      get(ColTeamID),
			TeamName:    get(ColTeamName),
			TeamAbbr:    get(ColTeamAbbr),
			TeamColor:   get(ColTeamColor),
			Position:    get(ColPosition),
			Height:      get(ColHeight),
			Weight:      get(ColWeight),
			Country:     get(ColCountry),
			School:      get(ColSchool),
			Birthdate:   get(ColBirthdate),
			DraftYear:   get(ColDraftYear),
			DraftRound:  get(ColDraftRound),
			DraftNumber: get(ColDraftNumber),
			Jersey:      get(ColJersey),
			Seasons:     splitSeasons(get(ColSeasons)),
			Headline: Headline{
				TimeFrame: get(ColHeadlineTime),
				PTS:       number(get(ColHeadlinePTS)),
				REB:       number(get(ColHeadlineREB)),
				AST:       number(get(ColHeadlineAST)),
			},
			Columns: columns,
		}

		d.bios[key] = b
		if id != "" {
			d.byID[id] = key
		}
	}

	return d
}

func splitSeasons(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func number(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Loader ingests the player info file
type Loader struct {
	fetcher *datasource.Fetcher
	file    string
	logger  *slog.Logger
}

// NewLoader creates a Loader
func NewLoader(fetcher *datasource.Fetcher, file string, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		file:    file,
		logger:  logger.With(slog.String("component", "roster")),
	}
}

// Load fetches the player info file into a fresh Directory
func (l *Loader) Load(ctx context.Context) (*Directory, error) {
	doc, err := l.fetcher.Fetch(ctx, l.file)
	if err != nil {
		return nil, err
	}

	d := Build(doc)
	l.logger.DebugContext(ctx, "player bios ingested",
		slog.Int("records", d.source),
		slog.Int("players", d.Len()))
	return d, nil
}

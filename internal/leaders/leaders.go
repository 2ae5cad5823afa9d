package leaders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"nbadash/internal/datasource"
	apierrors "nbadash/internal/errors"
)

// ErrUnknownCategory is returned for a category outside Categories
var ErrUnknownCategory = errors.New("unknown leader category")

// Categories lists every all-time leader board, in display order
var Categories = []string{
	"AST", "BLK", "DREB", "FG3A", "FG3M", "FG3_PCT", "FGA", "FGM", "FG_PCT",
	"FTA", "FTM", "FT_PCT", "GP", "OREB", "PF", "PTS", "REB", "STL", "TOV",
}

// ParseCategory normalizes a category name. Unknown names return a
// validation error wrapping ErrUnknownCategory.
func ParseCategory(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	err := apierrors.NewAppError(apierrors.ErrTypeValidation,
		fmt.Sprintf("unknown leader category %q", s), ErrUnknownCategory)
	return "", err.WithContext("category", s)
}

// FileName returns the resource name of a category for a pattern such as
// "nba_alltime_%sleaders.csv"
func FileName(pattern, category string) string {
	return fmt.Sprintf(pattern, strings.ToLower(category))
}

// Entry is one ranked player of a board
type Entry struct {
	Rank       int      `json:"rank"`
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name"`
	Value      *float64 `json:"value"`
	Active     bool     `json:"active"`
}

// Board is the ranked list of one category
type Board struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

// Top returns the board truncated to n entries. n <= 0 keeps every entry.
func (b *Board) Top(n int) *Board {
	if n <= 0 || n >= len(b.Entries) {
		return b
	}
	return &Board{Category: b.Category, Entries: b.Entries[:n]}
}

// Build converts a leader document. The rank column is "<CATEGORY>_RANK" and
// the value column is the category itself. Entries are sorted by rank;
// records without a numeric rank keep file order after the ranked ones.
func Build(category string, doc *datasource.Document) *Board {
	rankCol := category + "_RANK"
	b := &Board{Category: category, Entries: make([]Entry, 0, len(doc.Records))}

	for _, record := range doc.Records {
		get := func(col string) string { return strings.TrimSpace(doc.Value(record, col)) }

		name := get("PLAYER_NAME")
		if name == "" {
			continue
		}
		rank, err := strconv.Atoi(get(rankCol))
		if err != nil || rank <= 0 {
			rank = 0
		}
		b.Entries = append(b.Entries, Entry{
			Rank:       rank,
			PlayerID:   get("PLAYER_ID"),
			PlayerName: name,
			Value:      number(get(category)),
			Active:     get("IS_ACTIVE_FLAG") == "Y",
		})
	}

	sort.SliceStable(b.Entries, func(i, j int) bool {
		ri, rj := b.Entries[i].Rank, b.Entries[j].Rank
		if ri == 0 || rj == 0 {
			return ri != 0 && rj == 0
		}
		return ri < rj
	})
	return b
}

func number(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Loader fetches leader boards
type Loader struct {
	fetcher *datasource.Fetcher
	pattern string
	logger  *slog.Logger
}

// NewLoader creates a Loader. pattern is a fmt pattern with one %s for the
// lower-case category.
func NewLoader(fetcher *datasource.Fetcher, pattern string, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		pattern: pattern,
		logger:  logger.With(slog.String("component", "leaders")),
	}
}

// Load fetches one category
func (l *Loader) Load(ctx context.Context, category string) (*Board, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}

	doc, err := l.fetcher.Fetch(ctx, FileName(l.pattern, c))
	if err != nil {
		return nil, err
	}
	return Build(c, doc), nil
}

// LoadAll fetches the given categories concurrently, or every category when
// none are given. Boards are returned in the requested order; the first
// failure cancels the rest and is returned.
func (l *Loader) LoadAll(ctx context.Context, categories ...string) ([]*Board, error) {
	if len(categories) == 0 {
		categories = Categories
	}

	boards := make([]*Board, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			b, err := l.Load(gctx, category)
			if err != nil {
				return err
			}
			boards[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "leader boards loaded", slog.Int("categories", len(boards)))
	return boards, nil
}

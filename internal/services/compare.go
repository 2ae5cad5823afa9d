package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"nbadash/internal/gamelog"
	"nbadash/internal/roster"
	"nbadash/internal/stats"
)

// maxCountFloor is the smallest MaxCount a compare view reports
const maxCountFloor = 40

// CompareSide is one player's half of the compare view
type CompareSide struct {
	Player PlayerSummary       `json:"player"`
	Bio    *roster.Bio         `json:"bio"`
	Window stats.Window        `json:"window"`
	Points []stats.Point       `json:"points"`
	Stats  []stats.StatSummary `json:"stats"`
}

// CompareView is the head-to-head view of two players
type CompareView struct {
	A            CompareSide          `json:"a"`
	B            CompareSide          `json:"b"`
	Selection    stats.Selection      `json:"selection"`
	Policy       stats.Policy         `json:"policy"`
	MaxCount     int                  `json:"max_count"`
	Seasons      []string             `json:"seasons"`
	Correlations *stats.Correlations  `json:"correlations"`
	Overlay      []stats.OverlayPoint `json:"overlay"`
}

// ComparePlayers builds the compare view. Game logs and bios load
// concurrently; a bio failure leaves the bios absent rather than failing
// the view. Both windows share the selection.
func (s *DashboardService) ComparePlayers(ctx context.Context, nameA, nameB string, sel stats.Selection) (_ *CompareView, err error) {
	ctx, span := s.startView(ctx, "compare",
		attribute.String("player.a", nameA),
		attribute.String("player.b", nameB))
	defer func() { endView(span, err) }()

	var (
		table *gamelog.Table
		dir   *roster.Directory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.games.Load(gctx)
		table = t
		return err
	})
	g.Go(func() error {
		d, err := s.bios.Load(gctx)
		if err != nil {
			s.logger.WarnContext(ctx, "player bios unavailable",
				slog.String("error", err.Error()))
			return nil
		}
		dir = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entryA, err := resolvePlayer(table, nameA)
	if err != nil {
		return nil, err
	}
	entryB, err := resolvePlayer(table, nameB)
	if err != nil {
		return nil, err
	}

	rowsA := table.PlayerRows(entryA.PlayerName)
	rowsB := table.PlayerRows(entryB.PlayerName)

	windowA := stats.SelectWindow(rowsA, sel, s.comparePolicy)
	windowB := stats.SelectWindow(rowsB, sel, s.comparePolicy)

	maxCount := maxCountFloor
	if windowA.Available > maxCount {
		maxCount = windowA.Available
	}
	if windowB.Available > maxCount {
		maxCount = windowB.Available
	}

	view := &CompareView{
		A:            compareSide(entryA, windowA, dir),
		B:            compareSide(entryB, windowB, dir),
		Selection:    sel,
		Policy:       s.comparePolicy,
		MaxCount:     maxCount,
		Seasons:      gamelog.Seasons(rowsA, rowsB),
		Correlations: stats.CorrelationMatrix(stats.MatchGames(windowA.Recent(), windowB.Recent()), nil),
		Overlay:      stats.Overlay(windowA.Rows, windowB.Rows),
	}

	matched := 0
	if view.Correlations != nil {
		matched = view.Correlations.Count
	}
	span.SetAttributes(attribute.Int("compare.matched_games", matched))
	s.logger.DebugContext(ctx, "players compared",
		slog.String("a", entryA.PlayerName),
		slog.String("b", entryB.PlayerName),
		slog.Int("matched_games", matched))

	return view, nil
}

func compareSide(entry gamelog.Row, window stats.Window, dir *roster.Directory) CompareSide {
	side := CompareSide{
		Player: summarizePlayer(entry),
		Window: window,
		Points: stats.Series(window.Rows),
		Stats:  stats.StatTable(window.Rows, nil),
	}
	if dir != nil {
		if bio, ok := dir.Lookup(entry.PlayerName); ok {
			side.Bio = &bio
		}
	}
	return side
}

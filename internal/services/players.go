package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"nbadash/internal/exporter"
	"nbadash/internal/gamelog"
	"nbadash/internal/roster"
	"nbadash/internal/stats"
)

// SearchPlayers matches term against the player index, ignoring case and
// whitespace. An empty term returns an empty result without ingesting.
func (s *DashboardService) SearchPlayers(ctx context.Context, term string, limit int) (_ []PlayerSummary, err error) {
	ctx, span := s.startView(ctx, "search", attribute.String("search.term", term))
	defer func() { endView(span, err) }()

	out := []PlayerSummary{}
	if gamelog.NormalizeName(term) == "" {
		return out, nil
	}

	table, err := s.games.Load(ctx)
	if err != nil {
		return nil, err
	}

	for _, r := range table.Players.Search(term, limit) {
		out = append(out, summarizePlayer(r))
	}

	s.logger.DebugContext(ctx, "player search",
		slog.String("term", term),
		slog.Int("results", len(out)))
	return out, nil
}

// ChartView is one player's chart page
type ChartView struct {
	Player    PlayerSummary       `json:"player"`
	Selection stats.Selection     `json:"selection"`
	Policy    stats.Policy        `json:"policy"`
	Window    stats.Window        `json:"window"`
	Seasons   []string            `json:"seasons"`
	Points    []stats.Point       `json:"points"`
	Stats     []stats.StatSummary `json:"stats"`
}

// PlayerChart selects the player's most recent games under the chart policy
// and summarizes them
func (s *DashboardService) PlayerChart(ctx context.Context, name string, sel stats.Selection) (_ *ChartView, err error) {
	ctx, span := s.startView(ctx, "chart", attribute.String("player.name", name))
	defer func() { endView(span, err) }()

	table, err := s.games.Load(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := resolvePlayer(table, name)
	if err != nil {
		return nil, err
	}

	rows := table.PlayerRows(entry.PlayerName)
	window := stats.SelectWindow(rows, sel, s.chartPolicy)

	span.SetAttributes(
		attribute.Int("window.count", window.Count),
		attribute.Int("window.available", window.Available))

	return &ChartView{
		Player:    summarizePlayer(entry),
		Selection: sel,
		Policy:    s.chartPolicy,
		Window:    window,
		Seasons:   gamelog.Seasons(rows),
		Points:    stats.Series(window.Rows),
		Stats:     stats.StatTable(window.Rows, nil),
	}, nil
}

// PlayerBio returns a player's bio
func (s *DashboardService) PlayerBio(ctx context.Context, name string) (_ *roster.Bio, err error) {
	ctx, span := s.startView(ctx, "bio", attribute.String("player.name", name))
	defer func() { endView(span, err) }()

	dir, err := s.bios.Load(ctx)
	if err != nil {
		return nil, err
	}

	bio, ok := dir.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return &bio, nil
}

// PrepareExport builds the download for a player's chart window
func (s *DashboardService) PrepareExport(ctx context.Context, name string, sel stats.Selection) (_ exporter.WindowExport, err error) {
	ctx, span := s.startView(ctx, "export", attribute.String("player.name", name))
	defer func() { endView(span, err) }()

	table, err := s.games.Load(ctx)
	if err != nil {
		return exporter.WindowExport{}, err
	}

	entry, err := resolvePlayer(table, name)
	if err != nil {
		return exporter.WindowExport{}, err
	}

	window := stats.SelectWindow(table.PlayerRows(entry.PlayerName), sel, s.chartPolicy)
	return exporter.WindowExport{
		Player:  entry.PlayerName,
		Season:  window.Season,
		Rows:    window.Rows,
		Summary: stats.StatTable(window.Rows, nil),
	}, nil
}

// WriteExport writes a prepared export in the given format
func (s *DashboardService) WriteExport(w io.Writer, format exporter.Format, e exporter.WindowExport) error {
	return s.exporter.Export(w, format, e)
}

// ExportWindow prepares and writes a player's chart window download
func (s *DashboardService) ExportWindow(ctx context.Context, name string, sel stats.Selection, format exporter.Format, w io.Writer) (exporter.WindowExport, error) {
	e, err := s.PrepareExport(ctx, name, sel)
	if err != nil {
		return e, err
	}
	return e, s.WriteExport(w, format, e)
}

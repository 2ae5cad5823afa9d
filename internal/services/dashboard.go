package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nbadash/internal/config"
	"nbadash/internal/exporter"
	"nbadash/internal/gamelog"
	"nbadash/internal/infrastructure"
	"nbadash/internal/leaders"
	"nbadash/internal/roster"
	"nbadash/internal/stats"
	"nbadash/internal/store"
)

// Dependencies are the collaborators of a DashboardService. Archive may be
// nil when no archive is configured.
type Dependencies struct {
	Games    *gamelog.Loader
	Bios     *roster.Loader
	Leaders  *leaders.Loader
	Archive  *store.Store
	Exporter *exporter.Exporter
	Metrics  *infrastructure.BusinessMetrics
	Tracer   trace.Tracer
}

// DashboardService computes the dashboard views. Every call ingests the
// resources it needs afresh; nothing is cached between calls.
type DashboardService struct {
	games    *gamelog.Loader
	bios     *roster.Loader
	leaders  *leaders.Loader
	archive  *store.Store
	exporter *exporter.Exporter
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer

	chartPolicy   stats.Policy
	comparePolicy stats.Policy

	logger *slog.Logger
}

// Policies derives the chart and compare window policies from config. Zero
// values keep the built-in defaults.
func Policies(cfg config.WindowConfig) (chart, compare stats.Policy) {
	chart, compare = stats.ChartPolicy, stats.ComparePolicy
	if cfg.ChartMax > 0 {
		chart.Max = cfg.ChartMax
	}
	if cfg.ChartDefault > 0 {
		chart.Default = cfg.ChartDefault
	}
	if cfg.CompareMin > 0 {
		compare.Min = cfg.CompareMin
	}
	if cfg.CompareDefault > 0 {
		compare.Default = cfg.CompareDefault
	}
	return chart, compare
}

// NewDashboardService creates a dashboard service
func NewDashboardService(deps Dependencies, window config.WindowConfig, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer(infrastructure.MeterName)
	}

	chart, compare := Policies(window)

	logger.Info("DashboardService initialized",
		slog.Int("chart_default", chart.Default),
		slog.Int("chart_max", chart.Max),
		slog.Int("compare_default", compare.Default),
		slog.Bool("archive", deps.Archive != nil))

	return &DashboardService{
		games:         deps.Games,
		bios:          deps.Bios,
		leaders:       deps.Leaders,
		archive:       deps.Archive,
		exporter:      deps.Exporter,
		metrics:       deps.Metrics,
		tracer:        deps.Tracer,
		chartPolicy:   chart,
		comparePolicy: compare,
		logger:        logger.With(slog.String("component", "dashboard_service")),
	}
}

// ChartPolicy returns the chart window policy in use
func (s *DashboardService) ChartPolicy() stats.Policy {
	return s.chartPolicy
}

// ComparePolicy returns the compare window policy in use
func (s *DashboardService) ComparePolicy() stats.Policy {
	return s.comparePolicy
}

func (s *DashboardService) startView(ctx context.Context, view string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "dashboard."+view, trace.WithAttributes(attrs...))
	infrastructure.RecordView(ctx, s.metrics, view)
	return ctx, span
}

func endView(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// resolvePlayer finds the canonical index name for name. An exact match
// wins; otherwise names are compared ignoring case and whitespace.
func resolvePlayer(table *gamelog.Table, name string) (gamelog.Row, error) {
	if r, ok := table.Players.Lookup(name); ok {
		return r, nil
	}
	want := gamelog.NormalizeName(name)
	if want != "" {
		for _, n := range table.Players.Names() {
			if gamelog.NormalizeName(n) == want {
				r, _ := table.Players.Lookup(n)
				return r, nil
			}
		}
	}
	return gamelog.Row{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
}

// PlayerSummary is a player's index entry
type PlayerSummary struct {
	Name         string `json:"name"`
	PlayerID     string `json:"player_id"`
	Team         string `json:"team"`
	Season       string `json:"season"`
	LastGameDate string `json:"last_game_date"`
	LastMatchup  string `json:"last_matchup"`
}

func summarizePlayer(r gamelog.Row) PlayerSummary {
	return PlayerSummary{
		Name:         r.PlayerName,
		PlayerID:     r.PlayerID,
		Team:         r.Team,
		Season:       r.SeasonYear,
		LastGameDate: r.GameDate,
		LastMatchup:  r.Matchup,
	}
}

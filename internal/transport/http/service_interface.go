package http

import (
	"context"
	"io"

	"nbadash/internal/exporter"
	"nbadash/internal/leaders"
	"nbadash/internal/roster"
	"nbadash/internal/services"
	"nbadash/internal/stats"
	"nbadash/internal/store"
)

// DashboardServiceInterface defines the dashboard operations the handlers use
type DashboardServiceInterface interface {
	SearchPlayers(ctx context.Context, term string, limit int) ([]services.PlayerSummary, error)
	PlayerChart(ctx context.Context, name string, sel stats.Selection) (*services.ChartView, error)
	PlayerBio(ctx context.Context, name string) (*roster.Bio, error)
	ComparePlayers(ctx context.Context, nameA, nameB string, sel stats.Selection) (*services.CompareView, error)
	GameDetail(ctx context.Context, gameID string) (*services.GameView, error)

	// Exports are prepared before any byte is written so that failures still
	// produce a problem response
	PrepareExport(ctx context.Context, name string, sel stats.Selection) (exporter.WindowExport, error)
	WriteExport(w io.Writer, format exporter.Format, e exporter.WindowExport) error

	Categories() []string
	Leaders(ctx context.Context, category string, limit int) (*leaders.Board, error)
	LeaderBoards(ctx context.Context, limit int) ([]*leaders.Board, error)

	ArchivePlayers(ctx context.Context) ([]string, error)
	ArchiveGames(ctx context.Context, q store.Query) ([]store.Record, error)
}

var _ DashboardServiceInterface = (*services.DashboardService)(nil)

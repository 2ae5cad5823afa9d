package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"nbadash/internal/gamelog"
)

// GameView is a single game line with every source column
type GameView struct {
	Row           gamelog.Row     `json:"row"`
	FormattedDate string          `json:"formatted_date"`
	Columns       []gamelog.Field `json:"columns"`
}

// GameDetail finds the first admitted row with the given GAME_ID
func (s *DashboardService) GameDetail(ctx context.Context, gameID string) (_ *GameView, err error) {
	ctx, span := s.startView(ctx, "game", attribute.String("game.id", gameID))
	defer func() { endView(span, err) }()

	table, err := s.games.Load(ctx)
	if err != nil {
		return nil, err
	}

	row, ok := table.FindGame(gameID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotFound, gameID)
	}

	return &GameView{
		Row:           row,
		FormattedDate: gamelog.FormatGameDate(row.GameDate),
		Columns:       row.Fields,
	}, nil
}

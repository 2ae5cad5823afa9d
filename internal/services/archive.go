package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"nbadash/internal/store"
)

// ArchiveEnabled reports whether an archive is configured
func (s *DashboardService) ArchiveEnabled() bool {
	return s.archive != nil
}

// ArchivePlayers lists the archived player names
func (s *DashboardService) ArchivePlayers(ctx context.Context) (_ []string, err error) {
	ctx, span := s.startView(ctx, "archive_players")
	defer func() { endView(span, err) }()

	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.PlayerNames(ctx)
}

// ArchiveGames queries a player's archived games
func (s *DashboardService) ArchiveGames(ctx context.Context, q store.Query) (_ []store.Record, err error) {
	ctx, span := s.startView(ctx, "archive_games", attribute.String("player.name", q.Name))
	defer func() { endView(span, err) }()

	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	games, err := s.archive.PlayerGames(ctx, q)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []store.Record{}
	}
	return games, nil
}

package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"nbadash/internal/leaders"
)

// Categories returns the leader board categories
func (s *DashboardService) Categories() []string {
	return append([]string(nil), leaders.Categories...)
}

// Leaders returns one category's board truncated to limit entries
// (limit <= 0 keeps all)
func (s *DashboardService) Leaders(ctx context.Context, category string, limit int) (_ *leaders.Board, err error) {
	ctx, span := s.startView(ctx, "leaders", attribute.String("leaders.category", category))
	defer func() { endView(span, err) }()

	b, err := s.leaders.Load(ctx, category)
	if err != nil {
		return nil, err
	}
	return b.Top(limit), nil
}

// LeaderBoards returns every category's board, loaded concurrently
func (s *DashboardService) LeaderBoards(ctx context.Context, limit int) (_ []*leaders.Board, err error) {
	ctx, span := s.startView(ctx, "leader_boards")
	defer func() { endView(span, err) }()

	boards, err := s.leaders.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i, b := range boards {
		boards[i] = b.Top(limit)
	}
	return boards, nil
}

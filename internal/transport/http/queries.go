package http

import "nbadash/internal/stats"

// Query parameter structs, decoded and validated by middleware.QueryValidator

type searchQuery struct {
	Term  string `query:"q" validate:"max=100"`
	Limit int    `query:"limit" validate:"gte=0,lte=100"`
}

// Count is left unbounded; the service clamps it to the view's policy.
type windowQuery struct {
	Season string `query:"season" validate:"omitempty,season"`
	Count  *int   `query:"count"`
}

func (q windowQuery) selection() stats.Selection {
	return stats.Selection{Season: q.Season, Count: q.Count}
}

type exportQuery struct {
	windowQuery
	Format string `query:"format" validate:"omitempty,oneof=csv xlsx CSV XLSX"`
}

type compareQuery struct {
	windowQuery
	A string `query:"a" validate:"required,max=100"`
	B string `query:"b" validate:"required,max=100"`
}

type leadersQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=1000"`
}

type archiveGamesQuery struct {
	Limit  int    `query:"limit" validate:"gte=0,lte=1000"`
	VsTeam string `query:"vs" validate:"max=10"`
	Stat   string `query:"stat" validate:"omitempty,max=64"`
	Order  string `query:"order" validate:"omitempty,oneof=ASC DESC asc desc"`
}

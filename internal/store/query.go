package store

import (
	"context"
	"fmt"
	"strings"

	apierrors "nbadash/internal/errors"
	"nbadash/internal/gamelog"
)

// DefaultLimit is the game count when a query gives none
const DefaultLimit = 10

// Query selects one player's archived games
type Query struct {
	Name   string
	Limit  int
	VsTeam string // matched anywhere in MATCHUP
	Stat   string // single stat column; empty selects every column
	Order  string // ASC or DESC by GAME_DATE
}

// Record is one result row keyed by column name
type Record map[string]interface{}

// PlayerNames returns the distinct archived player names, sorted
func (s *Store) PlayerNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT DISTINCT %s FROM %s ORDER BY %s",
		quoteIdent(gamelog.ColPlayerName), TableName, quoteIdent(gamelog.ColPlayerName)))
	if err != nil {
		return nil, apierrors.NewStorageError("query player names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apierrors.NewStorageError("scan player name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apierrors.NewStorageError("query player names", err)
	}
	return names, nil
}

// Columns returns the archive table's column names
func (s *Store) Columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", TableName)
	if err != nil {
		return nil, apierrors.NewStorageError("read archive columns", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, apierrors.NewStorageError("scan archive column", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apierrors.NewStorageError("read archive columns", err)
	}
	return cols, nil
}

// PlayerGames returns a player's archived games ordered by GAME_DATE. The
// stat must name an archive column and the order must be ASC or DESC.
func (s *Store) PlayerGames(ctx context.Context, q Query) ([]Record, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	order := strings.ToUpper(strings.TrimSpace(q.Order))
	if order == "" {
		order = "DESC"
	}
	if order != "ASC" && order != "DESC" {
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("order must be ASC or DESC, got %q", q.Order))
	}

	selection := "*"
	if q.Stat != "" {
		cols, err := s.Columns(ctx)
		if err != nil {
			return nil, err
		}
		if !hasColumn(cols, q.Stat) {
			return nil, apierrors.NewAppValidationError(fmt.Sprintf("unknown stat column %q", q.Stat))
		}
		selection = quoteIdent(q.Stat)
	}

	stmt := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s WHERE %s = ?",
		quoteIdent(gamelog.ColGameDate), quoteIdent(gamelog.ColTeam), quoteIdent(gamelog.ColMatchup),
		selection, TableName, quoteIdent(gamelog.ColPlayerName))
	args := []interface{}{q.Name}

	if q.VsTeam != "" {
		stmt += fmt.Sprintf(" AND %s LIKE ?", quoteIdent(gamelog.ColMatchup))
		args = append(args, "%"+q.VsTeam+"%")
	}
	stmt += fmt.Sprintf(" ORDER BY %s %s LIMIT ?", quoteIdent(gamelog.ColGameDate), order)
	args = append(args, q.Limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, apierrors.NewStorageError("query player games", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, apierrors.NewStorageError("query player games", err)
	}

	var out []Record
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apierrors.NewStorageError("scan player game", err)
		}

		rec := make(Record, len(cols))
		for i, c := range cols {
			// the leading columns repeat under "*"; first value wins
			if _, dup := rec[c]; dup {
				continue
			}
			if b, ok := values[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = values[i]
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apierrors.NewStorageError("query player games", err)
	}

	s.logger.DebugContext(ctx, "archive query",
		"player", q.Name, "vs", q.VsTeam, "stat", q.Stat, "order", order, "results", len(out))
	return out, nil
}

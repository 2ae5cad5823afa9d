package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/glebarez/go-sqlite"

	apierrors "nbadash/internal/errors"
	"nbadash/internal/gamelog"
)

// TableName is the archive table holding the game logs
const TableName = "game_logs"

// DateLayout is the GAME_DATE format stored in the archive
const DateLayout = "2006-01-02T15:04:05"

// Store is a SQLite archive of the game-log snapshot
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the archive at path
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apierrors.NewStorageError("open archive", err).WithContext("path", path)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apierrors.NewStorageError("open archive", err).WithContext("path", path)
	}

	return &Store{
		db:     db,
		path:   path,
		logger: logger.With(slog.String("component", "store")),
	}, nil
}

// Path returns the archive file path
func (s *Store) Path() string {
	return s.path
}

// Ping checks the archive is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the archive
func (s *Store) Close() error {
	return s.db.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var numericColumns = func() map[string]bool {
	m := make(map[string]bool, len(gamelog.StatColumns))
	for _, c := range gamelog.StatColumns {
		m[c] = true
	}
	return m
}()

// archiveColumns returns the distinct non-empty header names in order
func archiveColumns(header []string) []string {
	seen := make(map[string]bool, len(header))
	out := make([]string, 0, len(header))
	for _, h := range header {
		key := strings.ToUpper(h)
		if h == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

// ImportTable replaces the archive table with the table's admitted rows.
// Every header column is stored; GAME_DATE is normalized to DateLayout when
// it can be parsed and stat columns are stored as REAL (NULL when empty).
func (s *Store) ImportTable(ctx context.Context, table *gamelog.Table) (int, error) {
	columns := archiveColumns(table.Header)
	if len(columns) == 0 {
		return 0, apierrors.NewAppValidationError("game log table has no columns")
	}

	defs := make([]string, len(columns))
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		typ := "TEXT"
		if numericColumns[strings.ToUpper(c)] {
			typ = "REAL"
		}
		defs[i] = quoted[i] + " " + typ
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apierrors.NewStorageError("begin import", err)
	}
	defer tx.Rollback()

	stmts := []string{
		"DROP TABLE IF EXISTS " + TableName,
		fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(defs, ", ")),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, apierrors.NewStorageError("create archive table", err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableName, strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return 0, apierrors.NewStorageError("prepare insert", err)
	}
	defer insert.Close()

	args := make([]interface{}, len(columns))
	for _, row := range table.Rows {
		for i, c := range columns {
			args[i] = archiveValue(row, c)
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return 0, apierrors.NewStorageError("insert row", err).WithContext("line", row.Line())
		}
	}

	if hasColumn(columns, gamelog.ColPlayerName) {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE INDEX idx_%s_player ON %s (%s)",
			TableName, TableName, quoteIdent(gamelog.ColPlayerName))); err != nil {
			return 0, apierrors.NewStorageError("create index", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apierrors.NewStorageError("commit import", err)
	}

	s.logger.InfoContext(ctx, "archive imported",
		slog.String("path", s.path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(columns)))
	return len(table.Rows), nil
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

func archiveValue(row gamelog.Row, column string) interface{} {
	upper := strings.ToUpper(column)
	if upper == gamelog.ColGameDate {
		if row.HasDate() {
			return row.Date.Format(DateLayout)
		}
		return row.GameDate
	}
	if numericColumns[upper] {
		if v, ok := row.Stat(upper); ok {
			return v
		}
		return nil
	}
	return row.Get(column)
}

// Command gamelogs computes dashboard views from the command line and prints
// them as JSON.
//
//	gamelogs [-data dir|url] <search|chart|compare|game|leaders> [flags]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"nbadash/internal/config"
	"nbadash/internal/datasource"
	"nbadash/internal/exporter"
	"nbadash/internal/gamelog"
	"nbadash/internal/infrastructure"
	"nbadash/internal/leaders"
	"nbadash/internal/roster"
	"nbadash/internal/services"
	"nbadash/internal/stats"
)

const usage = `usage: gamelogs [-data dir|url] [-log-level level] <command> [flags]

commands:
  search   -q term [-limit n]
  chart    -player name [-season 2023-24|All] [-count n]
  compare  -a name -b name [-season 2023-24|All] [-count n]
  game     -id game_id
  leaders  [-category PTS] [-limit n]
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "gamelogs:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	global := flag.NewFlagSet("gamelogs", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	dataURL := global.String("data", cfg.Data.BaseURL, "data directory or base URL")
	logLevel := global.String("log-level", "warn", "log level")
	if err := global.Parse(args); err != nil {
		return errUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}
	cfg.Data.BaseURL = *dataURL

	logger := infrastructure.NewLogger(stderr, *logLevel)

	svc, err := newDashboard(cfg, logger)
	if err != nil {
		return err
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	result, err := dispatch(ctx, svc, cmd, rest, stderr)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func newDashboard(cfg *config.Config, logger *slog.Logger) (*services.DashboardService, error) {
	source, err := datasource.NewSource(cfg.Data)
	if err != nil {
		return nil, err
	}
	metrics := infrastructure.NoopBusinessMetrics()
	fetcher := datasource.NewFetcher(source, logger, datasource.WithMetrics(metrics))

	return services.NewDashboardService(services.Dependencies{
		Games:    gamelog.NewLoader(fetcher, cfg.Data.GameLogsFile, logger, metrics),
		Bios:     roster.NewLoader(fetcher, cfg.Data.PlayerInfoFile, logger),
		Leaders:  leaders.NewLoader(fetcher, cfg.Data.LeadersPattern, logger),
		Exporter: exporter.New(exporter.NewCSVWriter(logger)),
		Metrics:  metrics,
	}, cfg.Window, logger), nil
}

func dispatch(ctx context.Context, svc *services.DashboardService, cmd string, args []string, stderr io.Writer) (interface{}, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd {
	case "search":
		term := fs.String("q", "", "search term")
		limit := fs.Int("limit", 10, "maximum results")
		if err := fs.Parse(args); err != nil {
			return nil, errUsage
		}
		return svc.SearchPlayers(ctx, *term, *limit)

	case "chart":
		player := fs.String("player", "", "player name")
		season, count := windowFlags(fs)
		if err := fs.Parse(args); err != nil || strings.TrimSpace(*player) == "" {
			return nil, usageError(fs, "-player is required")
		}
		return svc.PlayerChart(ctx, *player, stats.Selection{Season: *season, Count: count.n})

	case "compare":
		a := fs.String("a", "", "first player")
		b := fs.String("b", "", "second player")
		season, count := windowFlags(fs)
		if err := fs.Parse(args); err != nil || strings.TrimSpace(*a) == "" || strings.TrimSpace(*b) == "" {
			return nil, usageError(fs, "-a and -b are required")
		}
		return svc.ComparePlayers(ctx, *a, *b, stats.Selection{Season: *season, Count: count.n})

	case "game":
		id := fs.String("id", "", "GAME_ID")
		if err := fs.Parse(args); err != nil || strings.TrimSpace(*id) == "" {
			return nil, usageError(fs, "-id is required")
		}
		return svc.GameDetail(ctx, *id)

	case "leaders":
		category := fs.String("category", "", "leader category; empty loads every board")
		limit := fs.Int("limit", 10, "entries per board, 0 for all")
		if err := fs.Parse(args); err != nil {
			return nil, errUsage
		}
		if *category == "" {
			return svc.LeaderBoards(ctx, *limit)
		}
		return svc.Leaders(ctx, *category, *limit)

	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return nil, errUsage
	}
}

func windowFlags(fs *flag.FlagSet) (season *string, count *countFlag) {
	season = fs.String("season", stats.AllSeasons, "season filter")
	count = &countFlag{}
	fs.Var(count, "count", "number of games, clamped to the view's limits (default: the view's default)")
	return season, count
}

// countFlag is an -count value that stays nil unless given
type countFlag struct {
	n *int
}

func (c *countFlag) String() string {
	if c == nil || c.n == nil {
		return ""
	}
	return strconv.Itoa(*c.n)
}

func (c *countFlag) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	c.n = &n
	return nil
}

func usageError(fs *flag.FlagSet, msg string) error {
	fmt.Fprintf(fs.Output(), "%s: %s\n", fs.Name(), msg)
	return errUsage
}

package gamelog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"nbadash/internal/datasource"
	"nbadash/internal/infrastructure"
)

// Loader ingests the game-log snapshot
type Loader struct {
	fetcher *datasource.Fetcher
	file    string
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithTracer sets the tracer used for the gamelog.Load span
func WithTracer(t trace.Tracer) LoaderOption {
	return func(l *Loader) { l.tracer = t }
}

// NewLoader creates a Loader reading file through the fetcher
func NewLoader(fetcher *datasource.Fetcher, file string, logger *slog.Logger, metrics *infrastructure.BusinessMetrics, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher: fetcher,
		file:    file,
		logger:  logger.With(slog.String("component", "gamelog")),
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.MeterName),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses the snapshot into a fresh Table. Each call performs
// its own fetch. A failure of the whole resource returns a data-unavailable
// error and no table.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	ctx, span := l.tracer.Start(ctx, "gamelog.Load",
		trace.WithAttributes(attribute.String("resource.name", l.file)))
	defer span.End()

	doc, err := l.fetcher.Fetch(ctx, l.file)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	table := Build(doc)

	span.SetAttributes(
		attribute.Int("gamelog.rows", len(table.Rows)),
		attribute.Int("gamelog.rejected", table.Rejected),
		attribute.Int("gamelog.players", table.Players.Len()),
	)

	if l.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("resource", l.file))
		l.metrics.RowsAdmitted.Add(ctx, int64(len(table.Rows)), attrs)
		l.metrics.RowsRejected.Add(ctx, int64(table.Rejected), attrs)
	}

	l.logger.DebugContext(ctx, "game logs ingested",
		slog.Int("rows", len(table.Rows)),
		slog.Int("rejected", table.Rejected),
		slog.Int("players", table.Players.Len()))

	return table, nil
}

package datasource

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "nbadash/internal/errors"
	"nbadash/internal/infrastructure"
)

// Fetcher loads CSV resources from a Source. Every call performs a fresh
// fetch; nothing is cached between calls.
type Fetcher struct {
	source  Source
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTracer sets the tracer used for fetch spans
func WithTracer(t trace.Tracer) Option {
	return func(f *Fetcher) { f.tracer = t }
}

// WithMetrics sets the metrics recorded per fetch
func WithMetrics(m *infrastructure.BusinessMetrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher creates a Fetcher
func NewFetcher(source Source, logger *slog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		source: source,
		logger: logger.With(slog.String("component", "datasource")),
		tracer: otel.Tracer(infrastructure.MeterName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch opens and parses one resource. Any failure to open, read or parse the
// whole resource is reported as a data-unavailable error wrapping the cause.
func (f *Fetcher) Fetch(ctx context.Context, name string) (*Document, error) {
	ctx, span := f.tracer.Start(ctx, "datasource.Fetch",
		trace.WithAttributes(
			attribute.String("resource.name", name),
			attribute.String("resource.location", f.source.Location()),
		))
	defer span.End()

	start := time.Now()
	doc, err := f.fetch(ctx, name)
	duration := time.Since(start)

	var size int64
	if doc != nil {
		size = doc.Bytes
	}
	infrastructure.RecordLoad(ctx, f.metrics, name, duration, size, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.logger.ErrorContext(ctx, "resource load failed",
			slog.String("resource", name),
			slog.String("location", f.source.Location()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, apierrors.NewDataUnavailableError(name, err)
	}

	span.SetAttributes(
		attribute.Int("csv.records", len(doc.Records)),
		attribute.Int64("csv.bytes", doc.Bytes),
	)

	f.logger.DebugContext(ctx, "resource loaded",
		slog.String("resource", name),
		slog.Int("records", len(doc.Records)),
		slog.Int64("bytes", doc.Bytes),
		slog.Duration("duration", duration))

	return doc, nil
}

func (f *Fetcher) fetch(ctx context.Context, name string) (*Document, error) {
	rc, err := f.source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ParseCSV(rc)
}

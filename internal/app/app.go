package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"nbadash/internal/config"
	"nbadash/internal/datasource"
	apierrors "nbadash/internal/errors"
	"nbadash/internal/exporter"
	"nbadash/internal/gamelog"
	"nbadash/internal/infrastructure"
	"nbadash/internal/leaders"
	customMiddleware "nbadash/internal/middleware"
	"nbadash/internal/roster"
	"nbadash/internal/services"
	"nbadash/internal/store"
	handlers "nbadash/internal/transport/http"
)

// Build information, overridable with -ldflags
var (
	Version = config.AppVersion
	RepoURL = ""
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Source        datasource.Source
	Archive       *store.Store
	Dashboard     *services.DashboardService
	HealthService *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
}

// NewApplication loads configuration and logging, then builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component for cfg
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("build_id", BuildID))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the data source, loaders and services
func (a *Application) initializeServices() error {
	source, err := datasource.NewSource(a.Config.Data)
	if err != nil {
		return err
	}
	a.Source = source

	fetcher := datasource.NewFetcher(source, a.Logger,
		datasource.WithTracer(a.OTelProviders.Tracer),
		datasource.WithMetrics(a.Metrics))

	if path := a.Config.Data.ArchivePath; path != "" {
		archive, err := store.Open(context.Background(), path, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		a.Archive = archive
	}

	a.Dashboard = services.NewDashboardService(services.Dependencies{
		Games:    gamelog.NewLoader(fetcher, a.Config.Data.GameLogsFile, a.Logger, a.Metrics, gamelog.WithTracer(a.OTelProviders.Tracer)),
		Bios:     roster.NewLoader(fetcher, a.Config.Data.PlayerInfoFile, a.Logger),
		Leaders:  leaders.NewLoader(fetcher, a.Config.Data.LeadersPattern, a.Logger),
		Archive:  a.Archive,
		Exporter: exporter.New(exporter.NewCSVWriter(a.Logger)),
		Metrics:  a.Metrics,
		Tracer:   a.OTelProviders.Tracer,
	}, a.Config.Window, a.Logger)

	deps := map[string]services.Pinger{
		"data_source": services.PingFunc(func(ctx context.Context) error {
			return datasource.Probe(ctx, source, a.Config.Data.GameLogsFile, 0)
		}),
	}
	if a.Archive != nil {
		deps["archive"] = a.Archive
	}
	a.HealthService = services.NewHealthServiceWithBuildInfo(Version, RepoURL, BuildTime, BuildID, deps, a.Logger)

	return nil
}

// setupRouter configures middleware and routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → CORS → RateLimit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfigFrom(a.Config.Security, a.Logger)))
	}

	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(
		a.Dashboard,
		customMiddleware.NewQueryValidator(a.Logger),
		a.Logger,
		a.ErrorHandler,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		healthHandler.Routes(r)
		r.Mount("/", dashboardHandler.Routes())
	})

	if a.OTelProviders.Registry != nil {
		r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.Registry))
	}

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("data_source", a.Source.Location()),
		slog.Bool("archive", a.Archive != nil),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.Archive != nil {
		if err := a.Archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("archive close error: %w", err))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}

// performStartupHealthCheck checks the configured resources once at startup.
// Failures are warnings: the source may come up after the server does.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	status := a.HealthService.ReadinessCheck(ctx)
	if status.Status == "ready" {
		a.Logger.InfoContext(ctx, "Startup health check passed")
		return nil
	}

	var warnings []error
	for name, s := range status.Services {
		if sh, ok := s.(services.ServiceHealth); ok && sh.Status != "ready" {
			warnings = append(warnings, fmt.Errorf("%s: %s", name, sh.Message))
		}
	}
	return errors.Join(warnings...)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Pinger is a dependency that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthService provides health check functionality
type HealthService struct {
	version      string
	repoURL      string
	buildTime    string
	buildID      string
	dependencies map[string]Pinger
	checkTimeout time.Duration
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// NewHealthService creates a new health service checking the named
// dependencies on readiness
func NewHealthService(version, repoURL string, dependencies map[string]Pinger, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, repoURL, "", "", dependencies, logger)
}

// NewHealthServiceWithBuildInfo creates a new health service with build information
func NewHealthServiceWithBuildInfo(version, repoURL, buildTime, buildID string, dependencies map[string]Pinger, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("build_id", buildID),
		slog.Int("dependencies", len(dependencies)))

	return &HealthService{
		version:      version,
		repoURL:      repoURL,
		buildTime:    buildTime,
		buildID:      buildID,
		dependencies: dependencies,
		checkTimeout: 5 * time.Second,
		startTime:    time.Now(),
		logger:       logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.Debug("HealthCheck: performing health check",
		slog.String("version", hs.version),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck pings every dependency concurrently and reports not_ready
// if any fails
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}, len(hs.dependencies)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, dep := range hs.dependencies {
		wg.Add(1)
		go func(name string, dep Pinger) {
			defer wg.Done()
			sh := hs.check(ctx, dep)
			mu.Lock()
			status.Services[name] = sh
			mu.Unlock()
		}(name, dep)
	}
	wg.Wait()

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "dependency not ready",
				slog.String("dependency", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

func (hs *HealthService) check(ctx context.Context, dep Pinger) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, hs.checkTimeout)
	defer cancel()

	start := time.Now()
	err := dep.Ping(ctx)
	latency := time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("unreachable: %v", err),
			Latency: latency,
		}
	}
	return ServiceHealth{Status: "ready", Latency: latency}
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"repo_url":     hs.repoURL,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}

	return result
}

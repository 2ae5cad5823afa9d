// Package services implements the dashboard's view logic between the HTTP
// handlers and the ingestion packages.
//
// DashboardService answers one view per call: player search, a player's
// chart window, the head-to-head compare view, a single game, leader boards,
// window exports and archive queries. Each call ingests the snapshot
// resources it needs afresh, so concurrent requests never share state.
//
// HealthService reports liveness, readiness of the configured data source
// and archive, and build information.
//
// Errors are returned as sentinels (ErrPlayerNotFound, ErrGameNotFound,
// ErrArchiveDisabled) or as the data-unavailable AppError produced during
// ingestion; handlers map them to problem responses.
package services

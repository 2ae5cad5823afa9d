// Package app wires the NBA dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from environment and an optional YAML file
//	2. Initialize logging and OpenTelemetry
//	3. Build the data source, fetcher and resource loaders
//	4. Open the SQLite archive when one is configured
//	5. Create the dashboard and health services
//	6. Set up middleware, handlers and the HTTP server
//
// # Usage
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return a.Run()
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down gracefully
// within the configured shutdown timeout.
package app

// Package http implements the HTTP handlers of the NBA dashboard API.
// Handlers are a thin layer over the dashboard service: they decode and
// validate query parameters, call the service and render JSON.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → DashboardService → CSV source
//
// # Responses
//
// Success responses wrap the payload:
//
//	{"status": "success", "data": ..., "count": 3}
//
// Errors follow RFC 7807 Problem Details and are produced by the shared
// apierrors.ErrorHandler:
//
//	{
//	    "type": "/errors/player/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "Player not found",
//	    "instance": "/api/players/Nobody/chart",
//	    "trace_id": "..."
//	}
//
// Exports stream CSV or XLSX with a Content-Disposition attachment header
// instead of JSON.
package http

// Package app assembles the dashboard server: configuration, telemetry,
// the sheets fetch pipeline, services, HTTP routes, and graceful shutdown.
package app

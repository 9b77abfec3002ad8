// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this
// package defines the configuration structure for it.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key protecting the
// status endpoints, and whether the server runs at all. The sync
// workflows work without it, the server only adds the read-only
// status surface and metrics.
//
// # Usage
//
// This package is primarily used by the core/config package to embed
// server settings.
package server

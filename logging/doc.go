// Package logging provides a tiny abstraction over slog so the rest of the
// module can depend on a minimal Logger interface while users plug in any
// structured logger. NoOpLogger is the default everywhere; the MCP server
// binary builds a real slog-backed logger from its configuration.
package logging

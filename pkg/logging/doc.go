// Package logging provides structured logging utilities for the hibernation agent.
//
// # Overview
//
// This package wraps the standard library slog package with agent-specific
// defaults and conventions: structured JSON logging to stderr, environment
// based log level configuration (LOG_LEVEL), module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hiberd", "v1.0.0")
//
//	    // Use slog as normal
//	    slog.Info("interruption notice received", "url", noticeURL)
//	    slog.Error("swap activation failed", "error", err)
//	}
//
// Setting an explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("hiberd", "v1.0.0", "warn")
//
// # Log Levels
//
// Supported log levels (case-insensitive): DEBUG, INFO (default), WARN/WARNING,
// ERROR. The LOG_LEVEL environment variable controls verbosity when no
// explicit level is given:
//
//	LOG_LEVEL=debug hiberd run
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "swap ready",
//	    "module": "hiberd",
//	    "version": "v1.0.0",
//	    "path": "/swap"
//	}
package logging

// Package cli implements the command-line interface for the hiberd agent.
//
// # Overview
//
// hiberd is a single-command daemon. It loads its configuration, applies
// kernel hibernation settings, starts the background swap initialization and
// the interruption notice poll loop, and serves observability endpoints until
// terminated.
//
// # Usage
//
//	hiberd [--config FILE] [--log-level LEVEL] [--port PORT]
//
// # Global Flags
//
//	--config, -c   Path to the YAML configuration file (default: built-in defaults)
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--port         Observability server port (default: 8080)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
//	HIBERD_CONFIG  Configuration file path
//	LOG_LEVEL      Logging verbosity (debug, info, warn, error)
//	PORT           Observability server port
//
// # Exit Codes
//
//	0  Success (graceful shutdown)
//	1  General error (invalid configuration, fatal runtime failure)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/hibernate-agent/pkg/cli.version=1.0.0'"
package cli

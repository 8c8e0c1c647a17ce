// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"process":      "debug",  // Per-module overrides
//			"orchestrator": "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("orchestrator")
//	logger.Info("Starting up", "port", 3002)
//	logger.Warn("Something unusual", "error", err)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("process").With("task", name)
//	logger.Info("Process started")  // Includes task in all logs
//
// # Output Destinations
//
// The system automatically detects available outputs:
//
//	Journal available + stdout available → MultiHandler (both)
//	Journal available only              → JournalHandler
//	Stdout available only               → TextHandler or JSONHandler
//
// Journal availability is checked via [github.com/coreos/go-systemd/v22/journal.Enabled].
//
// # Viewing Logs
//
// When running on a system with journald:
//
//	journalctl -t installer              # All installer logs
//	journalctl -t installer -f           # Follow live
//	journalctl -t installer -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t installer MODULE=process
//	journalctl -t installer TASK=baileys
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	process = "debug"
//	orchestrator = "warn"
package logging

/*
Package log provides structured logging for devicesync using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with appliance- and device-scoped child loggers, configurable log levels, and
an optional timestamped log file written next to the console output. Every
run of the tool is expected to leave a complete on-disk log behind so that
applied operations can be audited later.

# Usage

Initializing the logger:

	logPath, err := log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: false,
		Output:     os.Stdout,
		FileDir:    "logs",
	})

Context loggers:

	applianceLog := log.WithAppliance("eda1.example.com")
	applianceLog.Info().Msg("reconciling custom devices")

	deviceLog := applianceLog.With().Str("device", "Seattle").Logger()
	deviceLog.Warn().Msg("device already exists, skipping")

Structured fields:

	log.Logger.Error().
		Err(err).
		Str("appliance", host).
		Str("operation", "create").
		Msg("operation failed")

# Design Patterns

Global logger pattern: a single package-level Logger instance initialized once
in main, reachable from every package without threading a logger through call
chains.

Context logger pattern: child loggers created per appliance and per device so
every log line of a reconciliation pass carries its scope automatically.
*/
package log

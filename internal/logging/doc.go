// Package logging provides structured logging for the Solis codec tools.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is given on the command line or through the
// SOLIS_LOG_LEVEL environment variable, so decoded output on stdout is never
// mixed with log lines. Log output goes to stderr.
//
// # Log Levels
//
//   - Debug: hex dumps of every frame
//   - Info: one line per decoded or built frame
//   - Warn: frames that failed to decode during replay
//   - Error: fatal command failures
//
// # Frame Logging
//
//	logging.LogFrame(remoteAddr, logging.DirectionInbound, "InverterData", serial, raw)
//	logging.LogDecodeError("capture.hex", 12, raw, err)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// Logging functions are safe for concurrent use. Initialize and SetLogger
// must be called before any goroutines start logging.
package logging

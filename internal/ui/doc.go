// Package ui renders decoded Solis frames for the terminal.
//
// The detailed format prints a rounded banner with the frame header followed
// by a result box for telemetry: green for current records, orange for
// historical ones, red for decode failures. Boxes are sized to the terminal
// width (clamped to MinTerminalWidth..MaxContentWidth) using golang.org/x/term
// and styled with Lipgloss. FormatCompact prints one plain line per frame for
// piping into other tools.
//
// Components follow a "render once and return a string" pattern; nothing in
// this package reads input or keeps state.
//
// # Logging Integration
//
// Rendered output goes to stdout. zap logging is silent unless SOLIS_LOG_LEVEL
// or --log-level is set, and then writes to stderr.
package ui

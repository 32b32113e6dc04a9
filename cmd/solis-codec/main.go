// Solis-codec decodes and answers Solis (Solarman V5) data logger frames.
//
// It parses frame headers and inverter telemetry from hex input, builds the
// acknowledgement a cloud collector would send back, and replays capture
// files through the decoder. It performs no network I/O.
//
// Usage:
//
//	solis-codec [command] [flags]
//
// See 'solis-codec --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/solis-service/solis/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

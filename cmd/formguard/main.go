// Command formguard runs the validated registration form in a terminal or
// over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/playlists/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)

	runner := NewRunner(RunnerOpts{})
	err := newApp(runner).Run(ctx, os.Args)
	stop()

	if err != nil && !errors.Is(err, shared.ErrMissingArgument) {
		runner.logger.Error("export failed", "error", err)
	}
	os.Exit(exitCode(err))
}

// stopSignals cancel the run context so history is still finalized.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrMissingArgument):
		return 2
	case errors.Is(err, shared.ErrAuthFailed):
		return 3
	default:
		return 1
	}
}

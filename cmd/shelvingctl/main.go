// Command shelvingctl manages bookcases, their shelves and the books on them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.Command().Run(ctx, os.Args); err != nil {
		logger.Error("shelvingctl failed", "error", err)
		stop()
		os.Exit(exitCodeFor(err))
	}
}

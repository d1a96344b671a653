package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/parallel-finance/paractl/internal/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := commands.Paractl()

	if err := app.RunContext(ctx, os.Args); err != nil {
		// Error already logged by middleware
		cancel()
		os.Exit(1)
	}
}

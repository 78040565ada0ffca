package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// cobra already printed the error.
	if err := cli.New().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"

	"budget/internal/cli"
	"budget/internal/commands"
)

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

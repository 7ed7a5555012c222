package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shift-clock/internal/api"
	"shift-clock/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(api.Open)
	if err := root.Execute(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

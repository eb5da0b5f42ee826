// Package main is the entry point for the broom CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/aidanlsb/broom/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

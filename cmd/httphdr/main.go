// Command httphdr parses, validates and fetches HTTP headers.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ghettovoice/gohttp/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newCommandContext()
	defer app.close()

	if err := newRootCommand(app).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// Command rforecast forecasts and decomposes a series read from a CSV column using R's
// forecast package.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/go-rforecast/engine"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, engine.New)
	stop()
	if err != nil {
		newPrinter(os.Stderr).Errorf("%v", err)
		os.Exit(1)
	}
}

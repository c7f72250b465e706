// Command tourism seeds, inspects and exports the synthetic tourism dataset.
//
// Usage:
//
//	tourism seed [--force]
//	tourism report
//	tourism generate --city Kolkata --seed 42 --months 24 --start 2024-01-01
//	tourism export --out tourism.xlsx
//	tourism charts --dir charts
//
// Settings come from the environment (and a .env file); see internal/config.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// File: cmd/lucidconv/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/lucidconv/cmd"
	"github.com/xkilldash9x/lucidconv/internal/observability"
)

func main() {
	// Listen for interrupt signals so an in-flight conversion's cleanup
	// still runs on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

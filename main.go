package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-container/framework/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Execute(ctx); err != nil {
		logging.LoggerFromContext(ctx).Error(err, "")
		stop()
		os.Exit(1)
	}
}

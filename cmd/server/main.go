package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"critter-clash/server/internal/app"
	"critter-clash/server/internal/telemetry"
)

func main() {
	logger, err := app.NewLogger(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Config{Logger: telemetry.WrapZap(logger)}); err != nil {
		logger.Sugar().Fatalf("%v", err)
	}
}

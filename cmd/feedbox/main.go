package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/valentinpelus/feedbox/internal/app"
	"github.com/valentinpelus/feedbox/internal/logging"
	"github.com/valentinpelus/feedbox/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("feedbox: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize application
	application, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer logging.Sync()
	defer application.Close()

	// Log startup information
	application.LogStartupInfo(ctx)

	// Create and start HTTP server
	srv := server.New(application.Config.Port, application.FeedbackHandler, application.Log)
	return srv.Start(ctx)
}

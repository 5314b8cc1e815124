package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maidhub/internal/app"
	"maidhub/internal/server"

	logger "github.com/Bparsons0904/goLogger"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	log := logger.New("main").Function("run")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := app.New()
	if err != nil {
		return log.Err("failed to initialize app", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	server, err := server.New(app)
	if err != nil {
		return log.Err("failed to initialize server", err)
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen(app.Config.ServerPort)
	}()

	select {
	case err := <-listenErr:
		return log.Err("server stopped", err)
	case <-ctx.Done():
	}

	stop()
	log.Info("Shutting down, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.FiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Er("server forced to shutdown", err)
	}

	log.Info("Shutdown complete")
	return nil
}

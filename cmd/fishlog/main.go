package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fishlog/internal/buildinfo"
	"github.com/dmitrijs2005/fishlog/internal/client/cli"
	"github.com/dmitrijs2005/fishlog/internal/client/config"
	"github.com/dmitrijs2005/fishlog/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Info(context.Background(), "shutting down")
		if err := app.Close(); err != nil {
			logger.Warn(context.Background(), "shutdown", "error", err)
		}
	}
}

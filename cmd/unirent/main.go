package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/unirent/unirent/internal/client/cli"
	"github.com/unirent/unirent/internal/client/config"
	"github.com/unirent/unirent/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}

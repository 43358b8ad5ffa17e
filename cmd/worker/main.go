package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/di"
	"hotel/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.SetupLogger(cfg)

	if !cfg.Kafka.Enable {
		log.Fatal().Msg("Kafka is disabled, the loyalty worker has nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Loyalty worker stopped")
	}

	log.Info().Msg("Loyalty worker shut down")
}

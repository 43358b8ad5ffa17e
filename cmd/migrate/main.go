package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"
)

const argLength = 2

func main() {
	cfg := config.Get()
	logger.SetupLogger(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up or drop")
	}

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

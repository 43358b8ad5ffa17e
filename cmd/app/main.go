package main

import (
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/di"
	_ "hotel/docs"
	"hotel/helper"
	"hotel/shared/logger"
)

// @title Hotel API
// @version 1.0
// @description Public booking site and back office for a single hotel.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.SetupLogger(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Auto migration failed")
		}
	}

	http := di.InitializeService()
	http.Serve()
}

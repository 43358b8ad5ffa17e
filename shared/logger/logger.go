package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/shared/constant"
)

// SetupLogger configures the global zerolog logger. Production emits JSON;
// every other environment gets the console writer.
func SetupLogger(cfg *config.Config) {
	setup(cfg, os.Stdout)
}

func setup(cfg *config.Config, out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if cfg.Server.Env != constant.ServerEnvProduction {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := log.Output(out).With()
	if cfg.App.Name != constant.Empty {
		ctx = ctx.Str("service", cfg.App.Name)
	}

	log.Logger = ctx.Logger()

	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == constant.Empty {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("loglevel", level.String()).Msg("Log level configured")
}

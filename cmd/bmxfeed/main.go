package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"bmxfeed/internal/application/service"
	"bmxfeed/internal/infrastructure/config"
	"bmxfeed/internal/infrastructure/logger"
	"bmxfeed/internal/infrastructure/svc"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Setup("info")
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("service context initialization failed")
	}
	defer sc.Close()

	recorder := service.NewRecorderService(sc.BuildRecorderDeps())

	log.Info().
		Str("config", *configPath).
		Str("network", cfg.App.Network).
		Int("topics", len(cfg.Topics.List)).
		Bool("authenticated", cfg.Auth.APIKey != "").
		Msg("bmxfeed started")

	if err := recorder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("recorder exited with error")
		os.Exit(1)
	}
}

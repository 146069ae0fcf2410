package svc

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"bmxfeed/internal/application/port"
	"bmxfeed/internal/application/service"
	"bmxfeed/internal/infrastructure/config"
	"bmxfeed/internal/infrastructure/exchange/bitmex"
	compositerepo "bmxfeed/internal/infrastructure/storage/composite"
	postgresrepo "bmxfeed/internal/infrastructure/storage/postgres"
	redisrepo "bmxfeed/internal/infrastructure/storage/redis"
	sqliterepo "bmxfeed/internal/infrastructure/storage/sqlite"
	"bmxfeed/internal/interfaces/console"
)

// ServiceContext wires infrastructure into the recorder use case. It is the
// single place where storage backends are opened and closed.
type ServiceContext struct {
	Ctx    context.Context
	Config *config.Config

	Feed     port.MarketFeed
	Recorder port.Recorder
	Sink     port.Sink

	closerChain []func() error
}

// New creates and initializes a ServiceContext. All dependency setup happens
// here, in dependency order.
func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		Sink:        console.NewSink(),
		closerChain: make([]func() error, 0),
	}

	if err := sc.initializeStorage(); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageInitFailed, err)
	}

	sc.Feed = buildFeed(cfg)

	log.Info().
		Str("network", cfg.App.Network).
		Int("topics", len(cfg.Topics.List)).
		Msg("service context initialized")
	return sc, nil
}

func buildFeed(cfg *config.Config) port.MarketFeed {
	network := bitmex.Mainnet
	if cfg.App.Network == "testnet" {
		network = bitmex.Testnet
	}
	timeout := time.Duration(cfg.App.ConnectTimeoutSec) * time.Second

	if cfg.Auth.APIKey != "" {
		creds := bitmex.NewCredentials(cfg.Auth.APIKey, cfg.Auth.Secret)
		return bitmex.NewAuthenticatedFeed(network, creds, timeout)
	}
	return bitmex.NewFeed(network, timeout)
}

func (sc *ServiceContext) initializeStorage() error {
	var recorders []port.Recorder

	if sc.Config.SQLite.Enabled {
		repo, err := sqliterepo.New(sc.Config.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		recorders = append(recorders, repo)
		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing sqlite connection")
			return repo.Close()
		})
		log.Info().Str("path", sc.Config.SQLite.Path).Msg("sqlite initialized")
	}

	if sc.Config.Postgres.Enabled {
		repo, err := postgresrepo.New(sc.Config.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		recorders = append(recorders, repo)
		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing postgres connection")
			return repo.Close()
		})
		log.Info().Msg("postgres initialized")
	}

	if sc.Config.Redis.Enabled {
		repo, err := sc.initRedis()
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		recorders = append(recorders, repo)
	}

	if len(recorders) == 0 {
		return ErrNoRecorders
	}
	sc.Recorder = compositerepo.New(recorders...)
	return nil
}

func (sc *ServiceContext) initRedis() (*redisrepo.Repo, error) {
	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Redis.Addr,
		Password: sc.Config.Redis.Password,
		DB:       sc.Config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(sc.Ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	ttl := time.Duration(sc.Config.Redis.TTLSeconds) * time.Second
	log.Info().
		Str("addr", sc.Config.Redis.Addr).
		Int("db", sc.Config.Redis.DB).
		Msg("redis initialized")
	return redisrepo.New(rdb, sc.Config.Redis.Prefix, ttl, sc.Config.Redis.FrameStream), nil
}

// BuildRecorderDeps assembles the dependency set for the recorder use case.
func (sc *ServiceContext) BuildRecorderDeps() service.RecorderDeps {
	return service.RecorderDeps{
		Feed:   sc.Feed,
		Topics: sc.Config.Topics.List,
		Repo:   sc.Recorder,
		Sink:   sc.Sink,
	}
}

// Close releases all resources in reverse initialization order.
func (sc *ServiceContext) Close() error {
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	return nil
}

package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		Network           string `toml:"network"` // "mainnet" or "testnet"
		ConnectTimeoutSec int    `toml:"connect_timeout_sec"`
		LogLevel          string `toml:"log_level"`
	} `toml:"app"`

	Topics struct {
		// Sent to the server in this exact order. Duplicates are allowed and
		// kept: the server treats a repeated topic as a no-op.
		List []string `toml:"list"`
	} `toml:"topics"`

	Auth struct {
		APIKey string `toml:"api_key"`
		Secret string `toml:"secret"`
	} `toml:"auth"`

	SQLite struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"sqlite"`

	Postgres struct {
		Enabled bool   `toml:"enabled"`
		DSN     string `toml:"dsn"`
	} `toml:"postgres"`

	Redis struct {
		Enabled     bool   `toml:"enabled"`
		Addr        string `toml:"addr"`
		Password    string `toml:"password"`
		DB          int    `toml:"db"`
		Prefix      string `toml:"prefix"`
		TTLSeconds  int    `toml:"ttl_seconds"`
		FrameStream string `toml:"frame_stream"`
	} `toml:"redis"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.Network) == "" {
		cfg.App.Network = "mainnet"
	}
	if cfg.App.ConnectTimeoutSec <= 0 {
		cfg.App.ConnectTimeoutSec = 10
	}
	if strings.TrimSpace(cfg.App.LogLevel) == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Prefix) == "" {
		cfg.Redis.Prefix = "bmxfeed"
	}
	if cfg.SQLite.Enabled && strings.TrimSpace(cfg.SQLite.Path) == "" {
		cfg.SQLite.Path = "data/frames.db"
	}
}

func validate(cfg *Config) error {
	cfg.Topics.List = normalizeTopics(cfg.Topics.List)
	if len(cfg.Topics.List) == 0 {
		return errors.New("topics.list is empty")
	}

	switch cfg.App.Network {
	case "mainnet", "testnet":
	default:
		return errors.New("app.network must be mainnet or testnet")
	}

	if (cfg.Auth.APIKey == "") != (cfg.Auth.Secret == "") {
		return errors.New("auth.api_key and auth.secret must be set together")
	}
	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		return errors.New("postgres.dsn empty but enabled")
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but enabled")
	}
	return nil
}

// normalizeTopics trims entries and drops empties. Order and duplicates are
// preserved on purpose; the topic list goes to the server exactly as given.
func normalizeTopics(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		t := strings.TrimSpace(s)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel     string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr     string  `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	JWTSecret    string  `yaml:"jwt-secret" env:"JWT_SECRET"`
	OtelEndpoint string  `yaml:"otel-endpoint" env:"OTEL_ENDPOINT"`
	Session      Session `yaml:"session"`
	Redis        Redis   `yaml:"redis"`
}

type Session struct {
	Store      string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	ThinkDelay time.Duration `yaml:"ai-think-delay" env:"AI_THINK_DELAY" env-default:"500ms"`
}

type Redis struct {
	ConnString string `yaml:"connstring" env:"REDIS_CONNSTRING" env-default:"localhost:6379"`
}

// Load reads the YAML file at path, then applies environment overrides. An
// empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%w: unknown session store %q", ErrInvalidConfig, c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive", ErrInvalidConfig)
	}
	if c.Session.ThinkDelay < 0 {
		return fmt.Errorf("%w: ai think delay must not be negative", ErrInvalidConfig)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: jwt secret is required", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	return level, nil
}

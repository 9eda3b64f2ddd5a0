package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PULSE_CONFIG is set
//  3. env (prefix PULSE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PULSE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PULSE_ADDR, PULSE_QUEUE_SIZE, ...
	// Map env keys like PULSE_QUEUE_SIZE -> queue_size (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("PULSE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pulse_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.DataSource {
	case SourceFixture, SourceLive:
	default:
		return fmt.Errorf("%w: unknown data_source %q", ErrInvalidConfig, c.DataSource)
	}
	switch c.RightsEmptyPoolPolicy {
	case "fail-open", "fail-closed":
	default:
		return fmt.Errorf("%w: unknown rights_empty_pool_policy %q", ErrInvalidConfig, c.RightsEmptyPoolPolicy)
	}
	if c.EventWindowDays <= 0 {
		return fmt.Errorf("%w: event_window_days must be positive", ErrInvalidConfig)
	}
	return nil
}

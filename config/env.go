package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// LoadRuntime overlays environment settings onto cfg.
func LoadRuntime(cfg *Config) error {
	if err := env.Parse(&cfg.Runtime); err != nil {
		return fmt.Errorf("parse runtime env: %w", err)
	}
	return nil
}

// LoadRuntimeFrom is LoadRuntime over an explicit environment.
func LoadRuntimeFrom(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(&cfg.Runtime, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse runtime env: %w", err)
	}
	return nil
}

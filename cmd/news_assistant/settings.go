package main

import (
	"fmt"

	"github.com/KissedByF1re/News-Assistant-AI/internal/config"
)

// loadSettings reads the optional config file. Each command applies its flag
// overrides and then cfg.ApplyDefaults on the result.
func loadSettings() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

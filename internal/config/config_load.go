package config

import (
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// Load reads config from a JSON5 file, then overlays env vars. A missing
// file is not an error; defaults plus the environment may be enough.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays DOPPEL_* environment variables. Secrets are env-only.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOPPEL_DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("DOPPEL_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("DOPPEL_API_BASE"); v != "" {
		c.Provider.APIBase = v
	}
	if v := os.Getenv("DOPPEL_MODEL"); v != "" {
		c.Provider.Model = v
	}
	if v := os.Getenv("DOPPEL_PERSONA"); v != "" {
		c.Persona.ProfilePath = v
	}
}

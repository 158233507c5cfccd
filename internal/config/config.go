// Package config loads and validates the doppel configuration: a JSON5 file
// overlaid with DOPPEL_* environment variables. Secrets (the Discord token
// and the provider API key) come from the environment only and are never
// written to the config file.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	Provider ProviderConfig `json:"provider"`
	Persona  PersonaConfig  `json:"persona"`
	Reply    ReplyConfig    `json:"reply"`
}

// DiscordConfig configures the gateway connection and the channel allow-set.
type DiscordConfig struct {
	Token    string   `json:"-"` // from env DOPPEL_DISCORD_TOKEN only
	Channels []string `json:"channels"`
}

// ProviderConfig configures the OpenAI-compatible generation endpoint.
type ProviderConfig struct {
	APIKey      string  `json:"-"` // from env DOPPEL_API_KEY only
	APIBase     string  `json:"api_base,omitempty"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// PersonaConfig points at the profile produced by `doppel ingest`.
type PersonaConfig struct {
	ProfilePath string `json:"profile"`
}

// ReplyConfig tunes the response pipeline. Validated here once; the pipeline
// itself never re-checks these invariants.
type ReplyConfig struct {
	Chance          float64 `json:"chance"`           // probability of replying, [0,1]
	CooldownMs      int     `json:"cooldown_ms"`      // min gap between sends per channel
	MinDelayMs      int     `json:"min_delay_ms"`     // human-pacing delay bounds
	MaxDelayMs      int     `json:"max_delay_ms"`
	ContextMessages int     `json:"context_messages"` // history window size
	IgnoreBots      *bool   `json:"ignore_bots"`      // default true
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.9,
			MaxTokens:   256,
		},
		Persona: PersonaConfig{
			ProfilePath: "persona.json",
		},
		Reply: ReplyConfig{
			Chance:          0.25,
			CooldownMs:      45000,
			MinDelayMs:      2000,
			MaxDelayMs:      9000,
			ContextMessages: 12,
		},
	}
}

// IgnoreBotsEnabled resolves the tri-state flag (unset means true).
func (r ReplyConfig) IgnoreBotsEnabled() bool {
	return r.IgnoreBots == nil || *r.IgnoreBots
}

// Cooldown returns the cooldown as a duration.
func (r ReplyConfig) Cooldown() time.Duration { return time.Duration(r.CooldownMs) * time.Millisecond }

// MinDelay returns the lower pacing bound as a duration.
func (r ReplyConfig) MinDelay() time.Duration { return time.Duration(r.MinDelayMs) * time.Millisecond }

// MaxDelay returns the upper pacing bound as a duration.
func (r ReplyConfig) MaxDelay() time.Duration { return time.Duration(r.MaxDelayMs) * time.Millisecond }

// Validate checks every invariant the runtime depends on. Called once at
// startup, after env overlay.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token missing (set DOPPEL_DISCORD_TOKEN)")
	}
	if len(c.Discord.Channels) == 0 {
		return fmt.Errorf("discord.channels: at least one channel ID required")
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider API key missing (set DOPPEL_API_KEY)")
	}
	if c.Reply.Chance < 0 || c.Reply.Chance > 1 {
		return fmt.Errorf("reply.chance: %v not in [0,1]", c.Reply.Chance)
	}
	if c.Reply.CooldownMs < 0 {
		return fmt.Errorf("reply.cooldown_ms: must be >= 0")
	}
	if c.Reply.MinDelayMs < 0 {
		return fmt.Errorf("reply.min_delay_ms: must be >= 0")
	}
	if c.Reply.MaxDelayMs < c.Reply.MinDelayMs {
		return fmt.Errorf("reply.max_delay_ms: %d less than min_delay_ms %d",
			c.Reply.MaxDelayMs, c.Reply.MinDelayMs)
	}
	if c.Reply.ContextMessages <= 0 {
		return fmt.Errorf("reply.context_messages: must be > 0")
	}
	return nil
}

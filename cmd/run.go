package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/doppelbot/doppel/internal/bot"
	"github.com/doppelbot/doppel/internal/channels/discord"
	"github.com/doppelbot/doppel/internal/config"
	"github.com/doppelbot/doppel/internal/persona"
	"github.com/doppelbot/doppel/internal/providers"
)

func runBot() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Secrets may live in a local env file.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	profile, err := persona.Load(cfg.Persona.ProfilePath)
	if err != nil {
		slog.Error("failed to load persona profile", "error", err,
			"hint", "build one with `doppel ingest`")
		os.Exit(1)
	}

	generator := providers.NewClient(
		cfg.Provider.APIKey,
		cfg.Provider.APIBase,
		cfg.Provider.Model,
		cfg.Provider.Temperature,
		cfg.Provider.MaxTokens,
	)

	channel, err := discord.New(cfg.Discord.Token)
	if err != nil {
		slog.Error("failed to create discord channel", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := channel.Start(ctx); err != nil {
		slog.Error("failed to start discord channel", "error", err)
		os.Exit(1)
	}
	defer channel.Stop(ctx)

	handler := bot.NewHandler(channel, generator, bot.Config{
		Channels:        cfg.Discord.Channels,
		ReplyChance:     cfg.Reply.Chance,
		Cooldown:        cfg.Reply.Cooldown(),
		MinDelay:        cfg.Reply.MinDelay(),
		MaxDelay:        cfg.Reply.MaxDelay(),
		ContextMessages: cfg.Reply.ContextMessages,
		IgnoreBots:      cfg.Reply.IgnoreBotsEnabled(),
	}, bot.Identity{
		UserID:      channel.SelfID(),
		DisplayName: profile.Name,
		Instruction: profile.Instruction(),
	}, nil)

	channel.Subscribe(handler.HandleMessage)

	slog.Info("doppel running",
		"persona", profile.Name,
		"channels", len(cfg.Discord.Channels),
		"model", cfg.Provider.Model,
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")
}

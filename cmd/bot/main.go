package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourcinglab/sourcingbot/core/bootstrap"
	"github.com/sourcinglab/sourcingbot/core/buildinfo"
	"github.com/sourcinglab/sourcingbot/core/logger"
	tg "github.com/sourcinglab/sourcingbot/core/telegram"
	"github.com/sourcinglab/sourcingbot/internal/bot"
	appconfig "github.com/sourcinglab/sourcingbot/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.Core(),
		Database: cfg.Database,
	})
	if err != nil {
		return err
	}
	defer logger.Shutdown()
	defer res.DB.Close()

	logger.L.Info("starting",
		slog.String("event", "boot"),
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := bot.New(cfg, res.DB)
	if err := tg.RunTelegram(ctx, app.TelegramRunOptions()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.L.Info("stopped", slog.String("event", "shutdown"))
	return nil
}

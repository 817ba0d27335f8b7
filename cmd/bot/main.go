// Package main contains the entrypoint for the logbook Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/logbook/internal/bot"
	"github.com/edgard/logbook/internal/bot/handlers"
	"github.com/edgard/logbook/internal/bot/tasks"
	"github.com/edgard/logbook/internal/config"
	"github.com/edgard/logbook/internal/conversation"
	"github.com/edgard/logbook/internal/database"
	"github.com/edgard/logbook/internal/health"
	"github.com/edgard/logbook/internal/logger"
	"github.com/edgard/logbook/internal/reporting"
	"github.com/edgard/logbook/internal/telegram"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log, logCloser := logger.NewLogger(logger.Options{
		Level:      cfg.Logger.Level,
		JSON:       cfg.Logger.JSON,
		File:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
	})
	defer logCloser.Close()
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON, "stage", cfg.Stage, "version", version)

	reporter, err := reporting.New(reporting.Options{
		DSN:              cfg.Sentry.DSN,
		Environment:      cfg.Stage,
		Release:          version,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Enabled:          cfg.IsProd(),
	}, log)
	if err != nil {
		log.Error("Failed to initialize error reporting", "error", err)
		return 1
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)

	store := database.NewStore(db, log,
		database.WithLocation(cfg.Location),
		database.WithMaxTitleLength(cfg.Items.MaxTitleLength),
	)
	states := conversation.NewTable()

	middlewares := []tgbot.Middleware{logger.Middleware(log)}
	if !cfg.IsProd() {
		middlewares = append(middlewares, logger.UpdatesDumper(log))
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, tgbot.WithMiddlewares(middlewares...))
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Tx:        database.NewTxManager(db),
		States:    states,
		Reporter:  reporter,
		Responder: telegram.NewResponder(tg, log, cfg.Telegram.AdminUserID),
	}
	dispatcher := handlers.NewDispatcher(hDeps)
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps, dispatcher)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		States: states,
		Config: cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps), cfg.Location, reporter)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	var healthServer *health.Server
	if cfg.Health.Addr != "" {
		healthServer = health.NewServer(cfg.Health.Addr, store, log)
	}

	app := bot.NewBot(log, cfg, tg, sched, healthServer, reporter)

	log.Info("Starting bot...")
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Bot stopped due to error", "error", err)
		return 1
	}

	log.Info("Bot stopped gracefully")
	return 0
}

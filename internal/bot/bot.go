// Package bot wires the Telegram listener, the task scheduler and the
// health server together and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/logbook/internal/bot/handlers"
	"github.com/edgard/logbook/internal/config"
	"github.com/edgard/logbook/internal/health"
	"github.com/edgard/logbook/internal/reporting"
	"github.com/edgard/logbook/internal/telegram"
)

const (
	noticeTimeout = 5 * time.Second
	flushTimeout  = 2 * time.Second
)

// Bot owns the long-running components of the application.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	tgBot     *tgbot.Bot
	scheduler *Scheduler
	health    *health.Server
	reporter  reporting.Reporter
}

// NewBot creates the orchestrator. healthServer may be nil.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	tgBot *tgbot.Bot,
	scheduler *Scheduler,
	healthServer *health.Server,
	reporter reporting.Reporter,
) *Bot {
	if reporter == nil {
		reporter = reporting.Nop{}
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		tgBot:     tgBot,
		scheduler: scheduler,
		health:    healthServer,
		reporter:  reporter,
	}
}

// Run starts all components and blocks until ctx is cancelled or one of
// them fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	if b.cfg.Telegram.DropPendingUpdates {
		if _, err := b.tgBot.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			b.logger.Warn("Failed to drop pending updates", "error", err)
		}
	}
	if err := telegram.SetCommands(ctx, b.tgBot, handlers.BotCommands()); err != nil {
		b.logger.Warn("Failed to publish command menu", "error", err)
	}
	b.notifyAdmin(ctx, b.cfg.Messages.Started)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(gCtx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	if b.health != nil {
		g.Go(func() error {
			if err := b.health.Run(gCtx); err != nil {
				return fmt.Errorf("health server failed: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()

	// The run context is done by now; shutdown notices get their own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), noticeTimeout)
	defer cancel()
	b.notifyAdmin(shutdownCtx, b.cfg.Messages.Shutdown)
	b.reporter.Flush(flushTimeout)

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully")
	return nil
}

func (b *Bot) notifyAdmin(ctx context.Context, text string) {
	telegram.NotifyAdmin(ctx, b.tgBot, b.logger, b.cfg.Telegram.AdminUserID, text)
}

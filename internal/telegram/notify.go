package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NotifyAdmin sends a silent HTML notice to the admin. It is a no-op when
// adminID is zero; failures are only logged.
func NotifyAdmin(ctx context.Context, b *bot.Bot, logger *slog.Logger, adminID int64, text string) {
	if adminID == 0 || b == nil {
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:              adminID,
		Text:                text,
		ParseMode:           models.ParseModeHTML,
		DisableNotification: true,
	})
	if err != nil {
		logger.WarnContext(ctx, "Failed to notify admin", "admin_id", adminID, "error", err)
	}
}

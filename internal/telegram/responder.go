package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/logbook/internal/bot/handlers"
	"github.com/edgard/logbook/internal/keyboard"
)

const maxReportedTextLen = 500

// Responder delivers dispatcher replies through the Bot API.
type Responder struct {
	b       *bot.Bot
	logger  *slog.Logger
	adminID int64
}

// NewResponder creates a Responder. A non-zero adminID receives a notice
// whenever a user cannot be reached.
func NewResponder(b *bot.Bot, logger *slog.Logger, adminID int64) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{b: b, logger: logger.With("component", "responder"), adminID: adminID}
}

var _ handlers.Responder = (*Responder)(nil)

// Render edits the message behind a pressed button, or sends a new message
// for typed input and for buttons whose message can no longer be edited.
func (r *Responder) Render(ctx context.Context, ev handlers.Event, text string, kb keyboard.Keyboard) error {
	markup := InlineMarkup(kb)

	if ev.Kind == handlers.EventControl && ev.MessageID != 0 {
		_, err := r.b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      ev.ChatID,
			MessageID:   ev.MessageID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})
		switch {
		case err == nil, IsNotModified(err):
			return nil
		case !errors.Is(err, bot.ErrorBadRequest):
			return r.deliveryFailed(ctx, ev, text, err)
		}
		r.logger.DebugContext(ctx, "Edit rejected, sending new message", "chat_id", ev.ChatID, "error", err)
	}

	_, err := r.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      ev.ChatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		return r.deliveryFailed(ctx, ev, text, err)
	}
	return nil
}

// Notify answers the callback of a control event or sends a plain message
// for a message event.
func (r *Responder) Notify(ctx context.Context, ev handlers.Event, text string, ephemeral bool) error {
	if ev.Kind == handlers.EventControl && ev.CallbackID != "" {
		_, err := r.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: ev.CallbackID,
			Text:            text,
			ShowAlert:       !ephemeral && text != "",
		})
		if err != nil {
			return fmt.Errorf("failed to answer callback: %w", err)
		}
		return nil
	}
	if text == "" {
		return nil
	}

	_, err := r.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    ev.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return r.deliveryFailed(ctx, ev, text, err)
	}
	return nil
}

// deliveryFailed swallows failures caused by the user blocking the bot and
// tells the admin about them. Other errors are returned.
func (r *Responder) deliveryFailed(ctx context.Context, ev handlers.Event, text string, err error) error {
	if !IsDeliveryError(err) {
		return fmt.Errorf("failed to deliver message: %w", err)
	}

	r.logger.WarnContext(ctx, "User unreachable", "user_id", ev.From.ID, "error", err)
	report := fmt.Sprintf("<b>Message delivery failed</b>\nUser: <b>%s</b>\n<pre>%s</pre>",
		html.EscapeString(ev.From.FullName),
		html.EscapeString(truncateRunes(text, maxReportedTextLen)))
	NotifyAdmin(ctx, r.b, r.logger, r.adminID, report)
	return nil
}

// IsDeliveryError reports whether err means the user cannot be messaged.
func IsDeliveryError(err error) bool {
	return errors.Is(err, bot.ErrorForbidden)
}

// IsNotModified reports whether an edit failed only because nothing changed.
func IsNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// InlineMarkup converts a keyboard to Telegram markup. Empty keyboards
// yield nil so no markup is sent.
func InlineMarkup(kb keyboard.Keyboard) models.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Token.Encode(),
			})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

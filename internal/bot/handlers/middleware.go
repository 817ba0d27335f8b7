// Package handlers routes Telegram updates to the item store and the
// conversation table, and renders the resulting views.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// PrivateOnly drops messages sent outside private chats. Lists and flows
// are per user, so group chats are not served.
func PrivateOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message != nil && update.Message.Chat.Type != models.ChatTypePrivate {
				deps.Logger.DebugContext(ctx, "Ignoring message outside private chat",
					"middleware", "PrivateOnly",
					"chat_id", update.Message.Chat.ID,
					"chat_type", update.Message.Chat.Type)
				return
			}
			next(ctx, bot, update)
		}
	}
}

package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler describes one handler registration with its middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the handler registrations for the bot. Text
// and button presses each go through a single catch-all handler so the
// dispatcher sees every event, including commands and malformed tokens.
func RegisterAllCommands(deps HandlerDeps, d *Dispatcher) map[string]RegisteredHandler {
	handler := d.Handler()

	return map[string]RegisteredHandler{
		"messages": {
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "",
			Handler:     handler,
			MatchType:   tgbot.MatchTypePrefix,
			Middleware:  []tgbot.Middleware{PrivateOnly(deps)},
		},
		"controls": {
			HandlerType: tgbot.HandlerTypeCallbackQueryData,
			Pattern:     "",
			Handler:     handler,
			MatchType:   tgbot.MatchTypePrefix,
		},
	}
}

// Handler adapts Dispatch to the Telegram handler signature.
func (d *Dispatcher) Handler() tgbot.HandlerFunc {
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		ev, ok := EventFromUpdate(update)
		if !ok {
			d.logger.DebugContext(ctx, "Ignoring update without sender", "update_id", update.ID)
			return
		}
		d.Dispatch(ctx, ev)
	}
}

// BotCommands lists the commands shown in the client's command menu.
func BotCommands() []models.BotCommand {
	return []models.BotCommand{
		{Command: "start", Description: "Open the menu"},
		{Command: "stats", Description: "Show your stats"},
		{Command: "help", Description: "How to use the bot"},
		{Command: "cancel", Description: "Drop a pending input"},
	}
}

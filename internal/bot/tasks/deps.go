// Package tasks implements the bot's scheduled maintenance jobs.
package tasks

import (
	"log/slog"

	"github.com/edgard/logbook/internal/config"
	"github.com/edgard/logbook/internal/conversation"
	"github.com/edgard/logbook/internal/database"
)

// TaskDeps contains the dependencies shared by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	States *conversation.Table
	Config *config.Config
}

package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/logbook/internal/config"
	"github.com/edgard/logbook/internal/conversation"
	"github.com/edgard/logbook/internal/database"
	"github.com/edgard/logbook/internal/reporting"
)

// TxRunner runs fn inside one store transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// HandlerDeps provides dependencies for the dispatcher and its handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Tx        TxRunner
	States    *conversation.Table
	Reporter  reporting.Reporter
	Responder Responder
}

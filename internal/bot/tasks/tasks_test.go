package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/logbook/internal/config"
	"github.com/edgard/logbook/internal/conversation"
	"github.com/edgard/logbook/internal/database"
)

type maintenanceStore struct {
	database.Store
	calls int
	err   error
}

func (s *maintenanceStore) RunSQLMaintenance(context.Context) error {
	s.calls++
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	got := RegisterAllTasks(TaskDeps{Logger: discardLogger()})
	assert.Len(t, got, 2)
	assert.Contains(t, got, SQLMaintenance)
	assert.Contains(t, got, ConversationPrune)
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store := &maintenanceStore{}
	task := newSQLMaintenanceTask(TaskDeps{Logger: discardLogger(), Store: store})
	require.NoError(t, task(context.Background()))
	assert.Equal(t, 1, store.calls)

	store.err = errors.New("disk I/O error")
	err := task(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)
}

func TestConversationPruneTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	states := conversation.NewTableWithClock(func() time.Time { return now })
	states.StartAdd(1, database.CategoryBooks, database.StatusBacklog)
	now = now.Add(2 * time.Hour)
	states.StartAdd(2, database.CategoryGames, database.StatusLogged)

	cfg := &config.Config{Conversation: config.ConversationConfig{MaxIdle: time.Hour}}
	task := newConversationPruneTask(TaskDeps{Logger: discardLogger(), States: states, Config: cfg})
	require.NoError(t, task(context.Background()))

	assert.True(t, states.Get(1).IsIdle(), "stale flow pruned")
	assert.False(t, states.Get(2).IsIdle(), "fresh flow kept")

	cfg.Conversation.MaxIdle = 0
	now = now.Add(48 * time.Hour)
	require.NoError(t, task(context.Background()))
	assert.False(t, states.Get(2).IsIdle(), "pruning disabled")
}

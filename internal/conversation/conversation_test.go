package conversation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/logbook/internal/conversation"
	"github.com/edgard/logbook/internal/database"
)

func TestTableTransitions(t *testing.T) {
	t.Parallel()

	table := conversation.NewTable()
	const user = int64(10)

	assert.True(t, table.Get(user).IsIdle(), "unknown users start idle")

	table.StartAdd(user, database.CategoryBooks, database.StatusLogged)
	s := table.Get(user)
	require.Equal(t, conversation.AwaitingItemTitle, s.Kind)
	assert.Equal(t, database.CategoryBooks, s.Category)
	assert.Equal(t, database.StatusLogged, s.TargetStatus)
	assert.False(t, s.StartedAt.IsZero())

	// A newer flow overwrites the pending one.
	table.StartEdit(user, 99, database.CategoryMovies, 2)
	s = table.Get(user)
	require.Equal(t, conversation.AwaitingEditTitle, s.Kind)
	assert.Equal(t, int64(99), s.ItemID)
	assert.Equal(t, 2, s.ReturnPage)
	assert.Equal(t, database.CategoryMovies, s.Category)

	table.Clear(user)
	assert.True(t, table.Get(user).IsIdle())
	assert.Zero(t, table.Len())
}

func TestTableSetIdleClears(t *testing.T) {
	t.Parallel()

	table := conversation.NewTable()
	table.StartAdd(1, database.CategoryGames, database.StatusBacklog)
	require.Equal(t, 1, table.Len())

	table.Set(1, conversation.State{})
	assert.Zero(t, table.Len())
}

func TestTableIsPerUser(t *testing.T) {
	t.Parallel()

	table := conversation.NewTable()
	table.StartAdd(1, database.CategoryBooks, database.StatusBacklog)
	table.StartEdit(2, 5, database.CategorySeries, 0)

	assert.Equal(t, conversation.AwaitingItemTitle, table.Get(1).Kind)
	assert.Equal(t, conversation.AwaitingEditTitle, table.Get(2).Kind)

	table.Clear(1)
	assert.True(t, table.Get(1).IsIdle())
	assert.Equal(t, conversation.AwaitingEditTitle, table.Get(2).Kind)
}

func TestTablePrune(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	table := conversation.NewTableWithClock(clock)
	table.StartAdd(1, database.CategoryBooks, database.StatusBacklog)
	advance(2 * time.Hour)
	table.StartAdd(2, database.CategoryMovies, database.StatusBacklog)
	advance(30 * time.Minute)

	assert.Zero(t, table.Prune(0))
	assert.Equal(t, 1, table.Prune(time.Hour))
	assert.True(t, table.Get(1).IsIdle())
	assert.False(t, table.Get(2).IsIdle())
}

func TestTableConcurrentAccess(t *testing.T) {
	t.Parallel()

	table := conversation.NewTable()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			table.StartAdd(id, database.CategoryBooks, database.StatusBacklog)
			_ = table.Get(id)
			table.Clear(id)
		}(int64(i))
	}
	wg.Wait()
	assert.Zero(t, table.Len())
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", conversation.Idle.String())
	assert.Equal(t, "awaiting_item_title", conversation.AwaitingItemTitle.String())
	assert.Equal(t, "awaiting_edit_title", conversation.AwaitingEditTitle.String())
}

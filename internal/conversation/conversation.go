// Package conversation tracks per-user multi-step title flows (adding or
// renaming an item) between consecutive chat events.
package conversation

import (
	"sync"
	"time"

	"github.com/edgard/logbook/internal/database"
)

// Kind identifies the mode a user is in.
type Kind int

const (
	Idle Kind = iota
	AwaitingItemTitle
	AwaitingEditTitle
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case AwaitingItemTitle:
		return "awaiting_item_title"
	case AwaitingEditTitle:
		return "awaiting_edit_title"
	default:
		return "unknown"
	}
}

// State is a user's conversation mode plus the data the pending step needs.
// The zero value is Idle.
type State struct {
	Kind Kind

	// Category is the target category for AwaitingItemTitle and the item's
	// category for AwaitingEditTitle.
	Category database.Category
	// TargetStatus is only meaningful for AwaitingItemTitle.
	TargetStatus database.Status
	// ItemID and ReturnPage are only meaningful for AwaitingEditTitle.
	ItemID     int64
	ReturnPage int

	StartedAt time.Time
}

// IsIdle reports whether no flow is pending.
func (s State) IsIdle() bool {
	return s.Kind == Idle
}

// AddFlow is the state entered when the user asks to add an item.
func AddFlow(category database.Category, status database.Status) State {
	return State{Kind: AwaitingItemTitle, Category: category, TargetStatus: status}
}

// EditFlow is the state entered when the user asks to rename an item.
func EditFlow(itemID int64, category database.Category, returnPage int) State {
	return State{Kind: AwaitingEditTitle, ItemID: itemID, Category: category, ReturnPage: returnPage}
}

// Table holds exactly one State per user. It is safe for concurrent use;
// concurrent writers for the same user resolve as last write wins.
type Table struct {
	mu     sync.RWMutex
	states map[int64]State
	now    func() time.Time
}

// NewTable creates an empty table.
func NewTable() *Table {
	return NewTableWithClock(time.Now)
}

// NewTableWithClock creates an empty table stamping flows with now.
func NewTableWithClock(now func() time.Time) *Table {
	if now == nil {
		now = time.Now
	}
	return &Table{states: make(map[int64]State), now: now}
}

// Get returns the user's state, Idle if none is stored.
func (t *Table) Get(userID int64) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.states[userID]
}

// Set replaces the user's state. Setting an Idle state clears it.
func (t *Table) Set(userID int64, s State) {
	if s.IsIdle() {
		t.Clear(userID)
		return
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = t.now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[userID] = s
}

// StartAdd begins an add flow, superseding any pending one.
func (t *Table) StartAdd(userID int64, category database.Category, status database.Status) {
	t.Set(userID, AddFlow(category, status))
}

// StartEdit begins a rename flow, superseding any pending one.
func (t *Table) StartEdit(userID int64, itemID int64, category database.Category, returnPage int) {
	t.Set(userID, EditFlow(itemID, category, returnPage))
}

// Clear returns the user to Idle.
func (t *Table) Clear(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, userID)
}

// Prune drops flows started more than maxIdle ago and returns how many were removed.
func (t *Table) Prune(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := t.now().Add(-maxIdle)

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, s := range t.states {
		if s.StartedAt.Before(cutoff) {
			delete(t.states, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of users with a pending flow.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.states)
}

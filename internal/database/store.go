package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Every method uses the transaction carried by ctx when there is one (see TxManager).
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// EnsureUser creates the user if absent and returns the stored record.
	EnsureUser(ctx context.Context, user User) (*User, error)

	// GetUser returns ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, userID int64) (*User, error)

	// DeleteUser removes the user and, by cascade, all of their items.
	DeleteUser(ctx context.Context, userID int64) (bool, error)

	// CreateItem stores a new item. The title is normalized first and an
	// empty result is rejected with a *ValidationError.
	CreateItem(ctx context.Context, userID int64, title string, category Category, status Status) (*Item, error)

	// GetItem returns ErrNotFound if the item does not exist.
	GetItem(ctx context.Context, itemID int64) (*Item, error)

	// ListItems returns one page of a user's items, newest first.
	// Pages past the end yield an empty slice.
	ListItems(ctx context.Context, userID int64, category Category, status Status, page, pageSize int) ([]Item, error)

	// CountItems counts a user's items in one category and status.
	CountItems(ctx context.Context, userID int64, category Category, status Status) (int, error)

	// MarkLogged moves the item to StatusLogged and stamps logged_at with the
	// current time. Calling it on an already logged item stamps it again.
	MarkLogged(ctx context.Context, itemID int64) (*Item, error)

	// RenameItem replaces the item's title.
	RenameItem(ctx context.Context, itemID int64, title string) (*Item, error)

	// DeleteItem reports whether a row was removed.
	DeleteItem(ctx context.Context, itemID int64) (bool, error)

	// StatsByCategory counts logged items per category. A zero year means all time.
	// Every category is present in the result.
	StatsByCategory(ctx context.Context, userID int64, year int) (map[Category]int, error)

	// TotalStats counts a user's backlog and logged items.
	TotalStats(ctx context.Context, userID int64) (TotalStats, error)

	// LoggedYears lists the distinct calendar years of logged_at, newest first.
	LoggedYears(ctx context.Context, userID int64) ([]int, error)
}

// StoreOption configures a Store.
type StoreOption func(*sqlxStore)

// WithClock overrides the time source used for created_at and logged_at.
func WithClock(now func() time.Time) StoreOption {
	return func(s *sqlxStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the location calendar years are computed in.
func WithLocation(loc *time.Location) StoreOption {
	return func(s *sqlxStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMaxTitleLength sets the rune limit titles are truncated to.
func WithMaxTitleLength(n int) StoreOption {
	return func(s *sqlxStore) {
		if n > 0 {
			s.maxTitleLen = n
		}
	}
}

// DefaultMaxTitleLength is used when WithMaxTitleLength is not given.
const DefaultMaxTitleLength = 100

const itemColumns = "id, user_id, title, category, status, created_at, logged_at"

// sqlxStore provides an implementation of the Store interface using sqlx and squirrel.
type sqlxStore struct {
	db          *sqlx.DB
	logger      *slog.Logger
	now         func() time.Time
	loc         *time.Location
	maxTitleLen int
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger, opts ...StoreOption) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &sqlxStore{
		db:          db,
		logger:      logger.With("component", "store"),
		now:         time.Now,
		loc:         time.Local,
		maxTitleLen: DefaultMaxTitleLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ext returns the transaction from ctx, or the pool.
func (s *sqlxStore) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := txFromCtx(ctx); ok {
		return tx
	}
	return s.db
}

func (s *sqlxStore) timestamp() time.Time {
	return s.now().UTC()
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// RunSQLMaintenance runs VACUUM and PRAGMA optimize. VACUUM cannot run inside
// a transaction, so this always goes through the pool.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	start := time.Now()

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to execute VACUUM", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		s.logger.WarnContext(ctx, "PRAGMA optimize failed", "error", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(start))
	return nil
}

// EnsureUser inserts the user unless a row with the same id exists.
// Existing users are returned unchanged.
func (s *sqlxStore) EnsureUser(ctx context.Context, user User) (*User, error) {
	if user.ID == 0 {
		return nil, &ValidationError{Field: "id", Message: "must be non-zero"}
	}

	query, args, err := sq.Insert("users").
		Columns("id", "fullname", "username", "created_at").
		Values(user.ID, user.FullName, user.Username, s.timestamp()).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user insert: %w", err)
	}

	res, err := s.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error ensuring user", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("failed to ensure user %d: %w", user.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		s.logger.InfoContext(ctx, "Created user", "user_id", user.ID)
	}

	return s.GetUser(ctx, user.ID)
}

func (s *sqlxStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	var u User
	err := sqlx.GetContext(ctx, s.ext(ctx), &u,
		"SELECT id, fullname, username, created_at FROM users WHERE id = ?", userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &u, nil
}

func (s *sqlxStore) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	res, err := s.ext(ctx).ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

func (s *sqlxStore) CreateItem(ctx context.Context, userID int64, title string, category Category, status Status) (*Item, error) {
	if !category.Valid() {
		return nil, &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", category)}
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	title, err := NormalizeTitle(title, s.maxTitleLen)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	var loggedAt sql.NullTime
	if status == StatusLogged {
		loggedAt = sql.NullTime{Time: now, Valid: true}
	}

	query, args, err := sq.Insert("items").
		Columns("user_id", "title", "category", "status", "created_at", "logged_at").
		Values(userID, title, category, status, now, loggedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item insert: %w", err)
	}

	res, err := s.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating item", "user_id", userID, "category", category, "error", err)
		return nil, fmt.Errorf("failed to create item for user %d: %w", userID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new item id: %w", err)
	}

	s.logger.DebugContext(ctx, "Item created", "item_id", id, "user_id", userID, "category", category, "status", status)
	return &Item{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Category:  category,
		Status:    status,
		CreatedAt: now,
		LoggedAt:  loggedAt,
	}, nil
}

func (s *sqlxStore) GetItem(ctx context.Context, itemID int64) (*Item, error) {
	query, args, err := sq.Select(itemColumns).From("items").Where(sq.Eq{"id": itemID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	var item Item
	err = sqlx.GetContext(ctx, s.ext(ctx), &item, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get item %d: %w", itemID, err)
	}
	return &item, nil
}

func (s *sqlxStore) ListItems(ctx context.Context, userID int64, category Category, status Status, page, pageSize int) ([]Item, error) {
	if pageSize <= 0 {
		return nil, &ValidationError{Field: "page_size", Message: "must be positive"}
	}
	if page < 0 {
		return []Item{}, nil
	}

	query, args, err := sq.Select(itemColumns).
		From("items").
		Where(itemFilter(userID, category, status)).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(page) * uint64(pageSize)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	items := []Item{}
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &items, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error listing items", "user_id", userID, "category", category, "status", status, "page", page, "error", err)
		return nil, fmt.Errorf("failed to list items for user %d: %w", userID, err)
	}
	return items, nil
}

func (s *sqlxStore) CountItems(ctx context.Context, userID int64, category Category, status Status) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("items").Where(itemFilter(userID, category, status)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, s.ext(ctx), &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count items for user %d: %w", userID, err)
	}
	return n, nil
}

func (s *sqlxStore) MarkLogged(ctx context.Context, itemID int64) (*Item, error) {
	query, args, err := sq.Update("items").
		Set("status", StatusLogged).
		Set("logged_at", s.timestamp()).
		Where(sq.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build log update: %w", err)
	}

	if err := s.execOne(ctx, query, args...); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to mark item %d logged: %w", itemID, err)
	}

	s.logger.DebugContext(ctx, "Item logged", "item_id", itemID)
	return s.GetItem(ctx, itemID)
}

func (s *sqlxStore) RenameItem(ctx context.Context, itemID int64, title string) (*Item, error) {
	title, err := NormalizeTitle(title, s.maxTitleLen)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Update("items").Set("title", title).Where(sq.Eq{"id": itemID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rename update: %w", err)
	}

	if err := s.execOne(ctx, query, args...); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to rename item %d: %w", itemID, err)
	}

	s.logger.DebugContext(ctx, "Item renamed", "item_id", itemID)
	return s.GetItem(ctx, itemID)
}

func (s *sqlxStore) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	err := s.execOne(ctx, "DELETE FROM items WHERE id = ?", itemID)
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to delete item %d: %w", itemID, err)
	}
	s.logger.DebugContext(ctx, "Item deleted", "item_id", itemID)
	return true, nil
}

// execOne runs a statement expected to touch exactly one row and maps zero
// affected rows to ErrNotFound.
func (s *sqlxStore) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func itemFilter(userID int64, category Category, status Status) sq.Eq {
	return sq.Eq{"user_id": userID, "category": category, "status": status}
}

package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

func (s *sqlxStore) StatsByCategory(ctx context.Context, userID int64, year int) (map[Category]int, error) {
	b := sq.Select("category", "COUNT(*) AS n").
		From("items").
		Where(sq.Eq{"user_id": userID, "status": StatusLogged}).
		GroupBy("category")

	if year != 0 {
		from, to := s.yearBounds(year)
		b = b.Where(sq.GtOrEq{"logged_at": from}).Where(sq.Lt{"logged_at": to})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	var rows []struct {
		Category Category `db:"category"`
		N        int      `db:"n"`
	}
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get stats for user %d: %w", userID, err)
	}

	stats := make(map[Category]int, len(AllCategories))
	for _, c := range AllCategories {
		stats[c] = 0
	}
	for _, r := range rows {
		stats[r.Category] = r.N
	}
	return stats, nil
}

func (s *sqlxStore) TotalStats(ctx context.Context, userID int64) (TotalStats, error) {
	query, args, err := sq.Select().
		Column(sq.Expr("COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS backlog", StatusBacklog)).
		Column(sq.Expr("COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS logged", StatusLogged)).
		From("items").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return TotalStats{}, fmt.Errorf("failed to build totals query: %w", err)
	}

	var t TotalStats
	if err := sqlx.GetContext(ctx, s.ext(ctx), &t, query, args...); err != nil {
		return TotalStats{}, fmt.Errorf("failed to get totals for user %d: %w", userID, err)
	}
	return t, nil
}

// LoggedYears reads the logged_at values and buckets them into calendar years
// of the store location. SQLite has no notion of that location, so the
// grouping happens here.
func (s *sqlxStore) LoggedYears(ctx context.Context, userID int64) ([]int, error) {
	query, args, err := sq.Select("logged_at").
		From("items").
		Where(sq.Eq{"user_id": userID, "status": StatusLogged}).
		Where(sq.NotEq{"logged_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build years query: %w", err)
	}

	var stamps []time.Time
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &stamps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get logged years for user %d: %w", userID, err)
	}

	seen := make(map[int]struct{})
	years := []int{}
	for _, ts := range stamps {
		y := ts.In(s.loc).Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// yearBounds returns the UTC half-open range covering year in the store location.
func (s *sqlxStore) yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	return from.UTC(), from.AddDate(1, 0, 0).UTC()
}

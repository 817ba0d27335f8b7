package database

import (
	"database/sql"
	"time"
)

// Category is the closed set of media kinds an item can belong to.
type Category string

const (
	CategoryBooks  Category = "books"
	CategoryMovies Category = "movies"
	CategorySeries Category = "series"
	CategoryGames  Category = "games"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{CategoryBooks, CategoryMovies, CategorySeries, CategoryGames}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBooks, CategoryMovies, CategorySeries, CategoryGames:
		return true
	}
	return false
}

// ParseCategory converts a raw string into a Category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Status is the lifecycle state of an item. It only ever moves from
// StatusBacklog to StatusLogged.
type Status string

const (
	StatusBacklog Status = "backlog"
	StatusLogged  Status = "logged"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusBacklog || s == StatusLogged
}

// User is a Telegram user known to the bot.
type User struct {
	ID        int64          `db:"id"`
	FullName  string         `db:"fullname"`
	Username  sql.NullString `db:"username"`
	CreatedAt time.Time      `db:"created_at"`
}

// Item is a single tracked book, movie, series or game.
type Item struct {
	ID        int64        `db:"id"`
	UserID    int64        `db:"user_id"`
	Title     string       `db:"title"`
	Category  Category     `db:"category"`
	Status    Status       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	LoggedAt  sql.NullTime `db:"logged_at"` // set iff Status == StatusLogged
}

// TotalStats holds a user's item counts across all categories.
type TotalStats struct {
	Backlog int `db:"backlog"`
	Logged  int `db:"logged"`
}

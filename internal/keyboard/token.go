// Package keyboard encodes navigation intent into compact callback tokens and
// lays out the inline keyboards that carry them.
package keyboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/edgard/logbook/internal/database"
)

// MaxTokenLen is Telegram's limit for callback_data.
const MaxTokenLen = 64

const (
	menuPrefix = "m"
	itemPrefix = "i"
	sep        = ":"
)

// ErrInvalidToken is wrapped by every decode failure.
var ErrInvalidToken = errors.New("invalid token")

// Token is either a MenuToken or an ItemToken.
type Token interface {
	Encode() string
	Validate() error
	isToken()
}

// MenuAction names a navigation target.
type MenuAction string

const (
	MenuMain      MenuAction = "main"
	MenuCategory  MenuAction = "category"
	MenuBacklog   MenuAction = "backlog"
	MenuLogged    MenuAction = "logged"
	MenuStats     MenuAction = "stats"
	MenuStatsYear MenuAction = "stats_year"
)

// MenuActions lists every menu action.
var MenuActions = []MenuAction{MenuMain, MenuCategory, MenuBacklog, MenuLogged, MenuStats, MenuStatsYear}

// ItemAction names an item-scoped operation.
type ItemAction string

const (
	ItemView       ItemAction = "view"
	ItemEdit       ItemAction = "edit"
	ItemLog        ItemAction = "log"
	ItemDelete     ItemAction = "delete"
	ItemAddBacklog ItemAction = "add_backlog"
	ItemAddLogged  ItemAction = "add_logged"
)

// ItemActions lists every item action.
var ItemActions = []ItemAction{ItemView, ItemEdit, ItemLog, ItemDelete, ItemAddBacklog, ItemAddLogged}

// MenuToken addresses a navigation view.
type MenuToken struct {
	Action   MenuAction
	Category database.Category // category, backlog and logged only
	Page     int
	Year     int // stats_year only
}

func (MenuToken) isToken() {}

// Encode renders the token as m:<action>:<category>:<page>:<year>.
func (t MenuToken) Encode() string {
	return strings.Join([]string{
		menuPrefix,
		string(t.Action),
		string(t.Category),
		strconv.Itoa(t.Page),
		optionalInt(int64(t.Year)),
	}, sep)
}

// Validate checks the fields required and allowed by the action.
func (t MenuToken) Validate() error {
	if t.Page < 0 {
		return fmt.Errorf("%w: negative page %d", ErrInvalidToken, t.Page)
	}
	switch t.Action {
	case MenuMain, MenuStats:
		if t.Category != "" || t.Year != 0 {
			return fmt.Errorf("%w: %s takes no category or year", ErrInvalidToken, t.Action)
		}
	case MenuCategory, MenuBacklog, MenuLogged:
		if !t.Category.Valid() {
			return fmt.Errorf("%w: %s needs a valid category, got %q", ErrInvalidToken, t.Action, t.Category)
		}
		if t.Year != 0 {
			return fmt.Errorf("%w: %s takes no year", ErrInvalidToken, t.Action)
		}
	case MenuStatsYear:
		if t.Year <= 0 {
			return fmt.Errorf("%w: stats_year needs a year", ErrInvalidToken)
		}
		if t.Category != "" {
			return fmt.Errorf("%w: stats_year takes no category", ErrInvalidToken)
		}
	default:
		return fmt.Errorf("%w: unknown menu action %q", ErrInvalidToken, t.Action)
	}
	return nil
}

// ItemToken addresses an operation on one item, or the start of an add flow.
type ItemToken struct {
	Action   ItemAction
	ItemID   int64             // view, edit, log and delete only
	Category database.Category // required for add_*, optional otherwise
	Page     int
}

func (ItemToken) isToken() {}

// Encode renders the token as i:<action>:<id>:<category>:<page>.
func (t ItemToken) Encode() string {
	return strings.Join([]string{
		itemPrefix,
		string(t.Action),
		optionalInt(t.ItemID),
		string(t.Category),
		strconv.Itoa(t.Page),
	}, sep)
}

// Validate checks the fields required and allowed by the action.
func (t ItemToken) Validate() error {
	if t.Page < 0 {
		return fmt.Errorf("%w: negative page %d", ErrInvalidToken, t.Page)
	}
	if t.Category != "" && !t.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidToken, t.Category)
	}
	switch t.Action {
	case ItemView, ItemEdit, ItemLog, ItemDelete:
		if t.ItemID <= 0 {
			return fmt.Errorf("%w: %s needs an item id", ErrInvalidToken, t.Action)
		}
	case ItemAddBacklog, ItemAddLogged:
		if t.ItemID != 0 {
			return fmt.Errorf("%w: %s takes no item id", ErrInvalidToken, t.Action)
		}
		if t.Category == "" {
			return fmt.Errorf("%w: %s needs a category", ErrInvalidToken, t.Action)
		}
	default:
		return fmt.Errorf("%w: unknown item action %q", ErrInvalidToken, t.Action)
	}
	return nil
}

// Decode parses data produced by Encode. Anything malformed, unknown or
// inconsistent fails with an error wrapping ErrInvalidToken.
func Decode(data string) (Token, error) {
	if data == "" || len(data) > MaxTokenLen {
		return nil, fmt.Errorf("%w: bad length %d", ErrInvalidToken, len(data))
	}

	parts := strings.Split(data, sep)
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: expected 5 fields, got %d", ErrInvalidToken, len(parts))
	}

	var tok Token
	switch parts[0] {
	case menuPrefix:
		page, err := parseInt(parts[3], false)
		if err != nil {
			return nil, err
		}
		year, err := parseInt(parts[4], true)
		if err != nil {
			return nil, err
		}
		tok = MenuToken{
			Action:   MenuAction(parts[1]),
			Category: database.Category(parts[2]),
			Page:     int(page),
			Year:     int(year),
		}
	case itemPrefix:
		id, err := parseInt(parts[2], true)
		if err != nil {
			return nil, err
		}
		page, err := parseInt(parts[4], false)
		if err != nil {
			return nil, err
		}
		tok = ItemToken{
			Action:   ItemAction(parts[1]),
			ItemID:   id,
			Category: database.Category(parts[3]),
			Page:     int(page),
		}
	default:
		return nil, fmt.Errorf("%w: unknown prefix %q", ErrInvalidToken, parts[0])
	}

	if err := tok.Validate(); err != nil {
		return nil, err
	}
	return tok, nil
}

func optionalInt(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// parseInt accepts only the canonical decimal form Encode produces. An empty
// field is zero when optional.
func parseInt(s string, optional bool) (int64, error) {
	if s == "" {
		if optional {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: missing number", ErrInvalidToken)
	}
	n, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil || strconv.FormatInt(n, 10) != s {
		return 0, fmt.Errorf("%w: bad number %q", ErrInvalidToken, s)
	}
	if optional && n == 0 {
		return 0, fmt.Errorf("%w: zero must be encoded as empty", ErrInvalidToken)
	}
	return n, nil
}

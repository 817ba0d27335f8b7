package keyboard

import (
	"fmt"
	"strings"

	"github.com/edgard/logbook/internal/database"
)

// Button is a single labelled control.
type Button struct {
	Label string
	Token Token
}

// Keyboard is an ordered grid of buttons, one slice per row.
type Keyboard [][]Button

// Tokens returns every token on the keyboard in row order.
func (k Keyboard) Tokens() []Token {
	var out []Token
	for _, row := range k {
		for _, b := range row {
			out = append(out, b.Token)
		}
	}
	return out
}

const (
	labelBack       = "⬅ Back"
	labelCancel     = "❌ Cancel"
	labelPrev       = "◀"
	labelNext       = "▶"
	labelAddBacklog = "➕ Backlog"
	labelAddLogged  = "➕ Log"
	labelLog        = "✅ Log"
	labelEdit       = "✏️"
	labelDelete     = "🗑"
)

var categoryGlyph = map[database.Category]string{
	database.CategoryBooks:  "📚",
	database.CategoryMovies: "🎬",
	database.CategorySeries: "📺",
	database.CategoryGames:  "🎮",
}

// Glyph returns the emoji shown next to items of category c.
func Glyph(c database.Category) string {
	return categoryGlyph[c]
}

// CategoryName returns the capitalized category name, e.g. "Books".
func CategoryName(c database.Category) string {
	return capitalize(string(c))
}

// StatusName returns the capitalized status name, e.g. "Backlog".
func StatusName(s database.Status) string {
	return capitalize(string(s))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ListAction maps an item status to the menu action listing it.
func ListAction(s database.Status) MenuAction {
	if s == database.StatusLogged {
		return MenuLogged
	}
	return MenuBacklog
}

// MainMenu shows one row per category.
func MainMenu() Keyboard {
	kb := make(Keyboard, 0, len(database.AllCategories))
	for _, c := range database.AllCategories {
		kb = append(kb, []Button{{
			Label: Glyph(c) + " " + CategoryName(c),
			Token: MenuToken{Action: MenuCategory, Category: c},
		}})
	}
	return kb
}

// CategoryMenu offers adding items and opening either list of category c.
func CategoryMenu(c database.Category, backlogCount, loggedCount int) Keyboard {
	return Keyboard{
		{
			{Label: labelAddBacklog, Token: ItemToken{Action: ItemAddBacklog, Category: c}},
			{Label: labelAddLogged, Token: ItemToken{Action: ItemAddLogged, Category: c}},
		},
		{{Label: fmt.Sprintf("📋 Show Backlog (%d)", backlogCount), Token: MenuToken{Action: MenuBacklog, Category: c}}},
		{{Label: fmt.Sprintf("✅ Show Logged (%d)", loggedCount), Token: MenuToken{Action: MenuLogged, Category: c}}},
		{{Label: labelBack, Token: MenuToken{Action: MenuMain}}},
	}
}

// ItemsList lays out one page of items: a row per item, a pagination row
// when there is a neighbouring page, and a back row.
func ItemsList(items []database.Item, c database.Category, s database.Status, page, total, pageSize int) Keyboard {
	kb := make(Keyboard, 0, len(items)+2)
	for _, it := range items {
		kb = append(kb, []Button{{
			Label: Glyph(c) + " " + it.Title,
			Token: ItemToken{Action: ItemView, ItemID: it.ID, Category: c, Page: page},
		}})
	}

	var nav []Button
	if page > 0 {
		nav = append(nav, Button{Label: labelPrev, Token: MenuToken{Action: ListAction(s), Category: c, Page: page - 1}})
	}
	if pageSize > 0 && (page+1)*pageSize < total {
		nav = append(nav, Button{Label: labelNext, Token: MenuToken{Action: ListAction(s), Category: c, Page: page + 1}})
	}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}

	return append(kb, []Button{{Label: labelBack, Token: MenuToken{Action: MenuCategory, Category: c}}})
}

// ItemDetail shows the item actions. Log is offered only for backlog items.
func ItemDetail(item database.Item, page int) Keyboard {
	var actions []Button
	if item.Status == database.StatusBacklog {
		actions = append(actions, Button{Label: labelLog, Token: ItemToken{Action: ItemLog, ItemID: item.ID, Category: item.Category, Page: page}})
	}
	actions = append(actions,
		Button{Label: labelEdit, Token: ItemToken{Action: ItemEdit, ItemID: item.ID, Category: item.Category, Page: page}},
		Button{Label: labelDelete, Token: ItemToken{Action: ItemDelete, ItemID: item.ID, Category: item.Category, Page: page}},
	)
	return Keyboard{
		actions,
		{{Label: labelBack, Token: MenuToken{Action: ListAction(item.Status), Category: item.Category, Page: page}}},
	}
}

// Cancel abandons an add flow and returns to the main menu.
func Cancel() Keyboard {
	return Keyboard{{{Label: labelCancel, Token: MenuToken{Action: MenuMain}}}}
}

// CancelEdit abandons a rename flow and returns to the item.
func CancelEdit(itemID int64, c database.Category, page int) Keyboard {
	return Keyboard{{{Label: labelCancel, Token: ItemToken{Action: ItemView, ItemID: itemID, Category: c, Page: page}}}}
}

// Stats lists the years with logged items, two per row.
func Stats(years []int) Keyboard {
	kb := make(Keyboard, 0, len(years)/2+2)
	var row []Button
	for _, y := range years {
		row = append(row, Button{Label: fmt.Sprintf("📅 %d", y), Token: MenuToken{Action: MenuStatsYear, Year: y}})
		if len(row) == 2 {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	return append(kb, []Button{{Label: labelBack, Token: MenuToken{Action: MenuMain}}})
}

// StatsYear returns to the stats overview.
func StatsYear() Keyboard {
	return Keyboard{{{Label: labelBack, Token: MenuToken{Action: MenuStats}}}}
}

package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/edgard/logbook/internal/database"
	"github.com/edgard/logbook/internal/keyboard"
)

const (
	textChooseCategory = "Choose a category:"
	textEnterTitle     = "Enter title:"
	textEnterNewTitle  = "Enter new title:"
	textEmptyTitle     = "Title cannot be empty. Try again:"
	textItemNotFound   = "Item not found"
	textLogged         = "Logged!"
	textDeleted        = "Deleted!"
	textNoYears        = "<i>No logged items yet to show yearly stats.</i>"
)

var emptyListText = map[database.Status]string{
	database.StatusBacklog: "Backlog is empty",
	database.StatusLogged:  "Nothing logged yet",
}

func (d *Dispatcher) mainView() Reply {
	return Reply{Text: textChooseCategory, Keyboard: keyboard.MainMenu()}
}

func (d *Dispatcher) greetingView(user *database.User) Reply {
	return Reply{
		Text:     fmt.Sprintf("Hi, %s!\n%s", html.EscapeString(user.FullName), textChooseCategory),
		Keyboard: keyboard.MainMenu(),
	}
}

func (d *Dispatcher) categoryView(ctx context.Context, userID int64, c database.Category) (Reply, error) {
	backlog, err := d.store.CountItems(ctx, userID, c, database.StatusBacklog)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to count backlog: %w", err)
	}
	logged, err := d.store.CountItems(ctx, userID, c, database.StatusLogged)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to count logged: %w", err)
	}
	return Reply{
		Text:     keyboard.CategoryName(c) + ":",
		Keyboard: keyboard.CategoryMenu(c, backlog, logged),
	}, nil
}

// listView renders one page of a list. A page past the end is clamped to
// the last non-empty page.
func (d *Dispatcher) listView(ctx context.Context, userID int64, c database.Category, s database.Status, page int) (Reply, error) {
	total, err := d.store.CountItems(ctx, userID, c, s)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to count items: %w", err)
	}
	page = clampPage(page, total, d.pageSize)

	items, err := d.store.ListItems(ctx, userID, c, s, page, d.pageSize)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to list items: %w", err)
	}

	text := emptyListText[s]
	if total > 0 {
		text = fmt.Sprintf("%s (%d):", keyboard.StatusName(s), total)
	}
	return Reply{
		Text:     text,
		Keyboard: keyboard.ItemsList(items, c, s, page, total, d.pageSize),
	}, nil
}

func clampPage(page, total, pageSize int) int {
	if page < 0 || total == 0 {
		return 0
	}
	if last := (total - 1) / pageSize; page > last {
		return last
	}
	return page
}

func (d *Dispatcher) itemText(item *database.Item) string {
	return fmt.Sprintf("<b>%s</b>\n%s",
		html.EscapeString(item.Title),
		item.CreatedAt.In(d.loc).Format("2006-01-02"))
}

func (d *Dispatcher) itemView(item *database.Item, page int) Reply {
	return Reply{Text: d.itemText(item), Keyboard: keyboard.ItemDetail(*item, page)}
}

func (d *Dispatcher) statsView(ctx context.Context, userID int64) (Reply, error) {
	totals, err := d.store.TotalStats(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to get totals: %w", err)
	}
	years, err := d.store.LoggedYears(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to get logged years: %w", err)
	}

	text := fmt.Sprintf("<b>Your stats</b>\n\nBacklog: %d\nLogged: %d", totals.Backlog, totals.Logged)
	if len(years) == 0 {
		return Reply{Text: text + "\n\n" + textNoYears, Keyboard: keyboard.MainMenu()}, nil
	}
	return Reply{Text: text, Keyboard: keyboard.Stats(years)}, nil
}

func (d *Dispatcher) statsYearView(ctx context.Context, userID int64, year int) (Reply, error) {
	counts, err := d.store.StatsByCategory(ctx, userID, year)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to get stats for %d: %w", year, err)
	}

	lines := []string{fmt.Sprintf("<b>Logged in %d</b>\n", year)}
	total := 0
	for _, c := range database.AllCategories {
		lines = append(lines, fmt.Sprintf("%s %s: %d", keyboard.Glyph(c), keyboard.CategoryName(c), counts[c]))
		total += counts[c]
	}
	lines = append(lines, fmt.Sprintf("\nTotal: %d", total))

	return Reply{Text: strings.Join(lines, "\n"), Keyboard: keyboard.StatsYear()}, nil
}

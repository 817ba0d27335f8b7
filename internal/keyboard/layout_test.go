package keyboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/logbook/internal/database"
	"github.com/edgard/logbook/internal/keyboard"
)

func makeItems(n int) []database.Item {
	items := make([]database.Item, n)
	for i := range items {
		items[i] = database.Item{ID: int64(i + 1), Title: fmt.Sprintf("Item %d", i+1), Category: database.CategoryMovies}
	}
	return items
}

func labels(row []keyboard.Button) []string {
	out := make([]string, len(row))
	for i, b := range row {
		out[i] = b.Label
	}
	return out
}

func TestEveryLayoutTokenIsValid(t *testing.T) {
	t.Parallel()

	item := database.Item{ID: 3, Title: "X", Category: database.CategoryBooks, Status: database.StatusBacklog}
	layouts := map[string]keyboard.Keyboard{
		"main":        keyboard.MainMenu(),
		"category":    keyboard.CategoryMenu(database.CategoryGames, 3, 4),
		"list":        keyboard.ItemsList(makeItems(5), database.CategoryMovies, database.StatusLogged, 1, 30, 5),
		"detail":      keyboard.ItemDetail(item, 2),
		"cancel":      keyboard.Cancel(),
		"cancel edit": keyboard.CancelEdit(3, database.CategoryBooks, 2),
		"stats":       keyboard.Stats([]int{2025, 2024, 2023}),
		"stats year":  keyboard.StatsYear(),
	}

	for name, kb := range layouts {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, tok := range kb.Tokens() {
				require.NoError(t, tok.Validate())
				decoded, err := keyboard.Decode(tok.Encode())
				require.NoError(t, err)
				assert.Equal(t, tok, decoded)
			}
		})
	}
}

func TestMainMenu(t *testing.T) {
	t.Parallel()

	kb := keyboard.MainMenu()
	require.Len(t, kb, 4)
	assert.Equal(t, []string{"📚 Books"}, labels(kb[0]))
	assert.Equal(t, []string{"🎬 Movies"}, labels(kb[1]))
	assert.Equal(t, []string{"📺 Series"}, labels(kb[2]))
	assert.Equal(t, []string{"🎮 Games"}, labels(kb[3]))
	assert.Equal(t, keyboard.MenuToken{Action: keyboard.MenuCategory, Category: database.CategorySeries}, kb[2][0].Token)
}

func TestCategoryMenu(t *testing.T) {
	t.Parallel()

	kb := keyboard.CategoryMenu(database.CategoryBooks, 2, 9)
	require.Len(t, kb, 4)
	assert.Equal(t, []string{"➕ Backlog", "➕ Log"}, labels(kb[0]))
	assert.Equal(t, []string{"📋 Show Backlog (2)"}, labels(kb[1]))
	assert.Equal(t, []string{"✅ Show Logged (9)"}, labels(kb[2]))
	assert.Equal(t, keyboard.MenuToken{Action: keyboard.MenuMain}, kb[3][0].Token)
}

func TestItemsListPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		items    int
		page     int
		total    int
		pageSize int
		wantNav  []string
	}{
		{name: "single page", items: 3, page: 0, total: 3, pageSize: 20, wantNav: nil},
		{name: "exactly one full page", items: 20, page: 0, total: 20, pageSize: 20, wantNav: nil},
		{name: "first of many", items: 20, page: 0, total: 45, pageSize: 20, wantNav: []string{"▶"}},
		{name: "middle", items: 20, page: 1, total: 45, pageSize: 20, wantNav: []string{"◀", "▶"}},
		{name: "last", items: 5, page: 2, total: 45, pageSize: 20, wantNav: []string{"◀"}},
		{name: "past the end", items: 0, page: 3, total: 45, pageSize: 20, wantNav: []string{"◀"}},
		{name: "empty", items: 0, page: 0, total: 0, pageSize: 20, wantNav: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kb := keyboard.ItemsList(makeItems(tt.items), database.CategoryMovies, database.StatusBacklog, tt.page, tt.total, tt.pageSize)

			wantRows := tt.items + 1
			if tt.wantNav != nil {
				wantRows++
			}
			require.Len(t, kb, wantRows)

			for i := range tt.items {
				require.Len(t, kb[i], 1)
				assert.Equal(t, fmt.Sprintf("🎬 Item %d", i+1), kb[i][0].Label)
				assert.Equal(t, keyboard.ItemToken{
					Action:   keyboard.ItemView,
					ItemID:   int64(i + 1),
					Category: database.CategoryMovies,
					Page:     tt.page,
				}, kb[i][0].Token)
			}

			if tt.wantNav != nil {
				nav := kb[tt.items]
				assert.Equal(t, tt.wantNav, labels(nav))
				for _, b := range nav {
					mt, ok := b.Token.(keyboard.MenuToken)
					require.True(t, ok)
					assert.Equal(t, keyboard.MenuBacklog, mt.Action)
					if b.Label == "◀" {
						assert.Equal(t, tt.page-1, mt.Page)
					} else {
						assert.Equal(t, tt.page+1, mt.Page)
					}
				}
			}

			back := kb[len(kb)-1]
			require.Len(t, back, 1)
			assert.Equal(t, keyboard.MenuToken{Action: keyboard.MenuCategory, Category: database.CategoryMovies}, back[0].Token)
		})
	}
}

func TestItemDetail(t *testing.T) {
	t.Parallel()

	t.Run("backlog offers log", func(t *testing.T) {
		t.Parallel()
		kb := keyboard.ItemDetail(database.Item{ID: 8, Category: database.CategoryGames, Status: database.StatusBacklog}, 1)
		require.Len(t, kb, 2)
		assert.Equal(t, []string{"✅ Log", "✏️", "🗑"}, labels(kb[0]))
		assert.Equal(t, keyboard.MenuToken{Action: keyboard.MenuBacklog, Category: database.CategoryGames, Page: 1}, kb[1][0].Token)
	})

	t.Run("logged hides log", func(t *testing.T) {
		t.Parallel()
		kb := keyboard.ItemDetail(database.Item{ID: 8, Category: database.CategoryGames, Status: database.StatusLogged}, 0)
		require.Len(t, kb, 2)
		assert.Equal(t, []string{"✏️", "🗑"}, labels(kb[0]))
		assert.Equal(t, keyboard.MenuToken{Action: keyboard.MenuLogged, Category: database.CategoryGames}, kb[1][0].Token)
	})
}

func TestStatsLayout(t *testing.T) {
	t.Parallel()

	kb := keyboard.Stats([]int{2025, 2024, 2023})
	require.Len(t, kb, 3)
	assert.Equal(t, []string{"📅 2025", "📅 2024"}, labels(kb[0]))
	assert.Equal(t, []string{"📅 2023"}, labels(kb[1]))
	assert.Equal(t, []string{"⬅ Back"}, labels(kb[2]))

	kb = keyboard.Stats([]int{2025, 2024})
	require.Len(t, kb, 2)

	assert.Equal(t, keyboard.MenuToken{Action: keyboard.MenuStats}, keyboard.StatsYear()[0][0].Token)
}

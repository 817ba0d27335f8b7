package handlers

import (
	"context"
	"fmt"

	"github.com/edgard/logbook/internal/database"
	"github.com/edgard/logbook/internal/keyboard"
)

func (d *Dispatcher) menu(ctx context.Context, r request, t keyboard.MenuToken) (outcome, error) {
	var (
		reply Reply
		err   error
	)
	switch t.Action {
	case keyboard.MenuMain:
		reply = d.mainView()
	case keyboard.MenuCategory:
		reply, err = d.categoryView(ctx, r.User.ID, t.Category)
	case keyboard.MenuBacklog:
		reply, err = d.listView(ctx, r.User.ID, t.Category, database.StatusBacklog, t.Page)
	case keyboard.MenuLogged:
		reply, err = d.listView(ctx, r.User.ID, t.Category, database.StatusLogged, t.Page)
	case keyboard.MenuStats:
		reply, err = d.statsView(ctx, r.User.ID)
	case keyboard.MenuStatsYear:
		reply, err = d.statsYearView(ctx, r.User.ID, t.Year)
	default:
		err = fmt.Errorf("unhandled menu action %q", t.Action)
	}
	if err != nil {
		return outcome{}, err
	}
	return outcome{reply: reply}, nil
}

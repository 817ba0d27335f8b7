package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edgard/logbook/internal/conversation"
	"github.com/edgard/logbook/internal/database"
	"github.com/edgard/logbook/internal/keyboard"
)

func (d *Dispatcher) item(ctx context.Context, r request, t keyboard.ItemToken) (outcome, error) {
	switch t.Action {
	case keyboard.ItemAddBacklog:
		return d.startAdd(t.Category, database.StatusBacklog), nil
	case keyboard.ItemAddLogged:
		return d.startAdd(t.Category, database.StatusLogged), nil
	case keyboard.ItemView:
		return d.viewItem(ctx, r, t)
	case keyboard.ItemEdit:
		return d.startEdit(ctx, r, t)
	case keyboard.ItemLog:
		return d.logItem(ctx, r, t)
	case keyboard.ItemDelete:
		return d.deleteItem(ctx, r, t)
	default:
		return outcome{}, fmt.Errorf("unhandled item action %q", t.Action)
	}
}

func (d *Dispatcher) startAdd(c database.Category, s database.Status) outcome {
	next := conversation.AddFlow(c, s)
	return outcome{
		reply: Reply{Text: textEnterTitle, Keyboard: keyboard.Cancel()},
		next:  &next,
	}
}

func (d *Dispatcher) viewItem(ctx context.Context, r request, t keyboard.ItemToken) (outcome, error) {
	item, err := d.ownedItem(ctx, r.User.ID, t.ItemID)
	if isNotFound(err) {
		return d.notFound(ctx, r, t.Category)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("failed to get item: %w", err)
	}
	return outcome{reply: d.itemView(item, t.Page)}, nil
}

func (d *Dispatcher) startEdit(ctx context.Context, r request, t keyboard.ItemToken) (outcome, error) {
	item, err := d.ownedItem(ctx, r.User.ID, t.ItemID)
	if isNotFound(err) {
		return d.notFound(ctx, r, t.Category)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("failed to get item: %w", err)
	}

	next := conversation.EditFlow(item.ID, item.Category, t.Page)
	return outcome{
		reply: Reply{Text: textEnterNewTitle, Keyboard: keyboard.CancelEdit(item.ID, item.Category, t.Page)},
		next:  &next,
	}, nil
}

func (d *Dispatcher) logItem(ctx context.Context, r request, t keyboard.ItemToken) (outcome, error) {
	item, err := d.ownedItem(ctx, r.User.ID, t.ItemID)
	if err == nil {
		item, err = d.store.MarkLogged(ctx, item.ID)
	}
	if isNotFound(err) {
		return d.notFound(ctx, r, t.Category)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("failed to log item: %w", err)
	}

	reply, err := d.listView(ctx, r.User.ID, item.Category, database.StatusBacklog, t.Page)
	if err != nil {
		return outcome{}, err
	}
	reply.Notice = textLogged
	return outcome{reply: reply}, nil
}

func (d *Dispatcher) deleteItem(ctx context.Context, r request, t keyboard.ItemToken) (outcome, error) {
	item, err := d.ownedItem(ctx, r.User.ID, t.ItemID)
	if isNotFound(err) {
		return d.notFound(ctx, r, t.Category)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("failed to get item: %w", err)
	}

	deleted, err := d.store.DeleteItem(ctx, item.ID)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to delete item: %w", err)
	}
	if !deleted {
		return d.notFound(ctx, r, item.Category)
	}

	reply, err := d.listView(ctx, r.User.ID, item.Category, item.Status, t.Page)
	if err != nil {
		return outcome{}, err
	}
	reply.Notice = textDeleted
	return outcome{reply: reply}, nil
}

// addTitle completes an add flow. An empty title re-prompts and keeps the flow.
func (d *Dispatcher) addTitle(ctx context.Context, r request) (outcome, error) {
	s := r.State
	item, err := d.store.CreateItem(ctx, r.User.ID, r.Text, s.Category, s.TargetStatus)
	if isValidation(err) {
		return outcome{reply: Reply{Text: textEmptyTitle, Keyboard: keyboard.Cancel()}}, nil
	}
	if err != nil {
		return outcome{}, fmt.Errorf("failed to create item: %w", err)
	}

	reply, err := d.categoryView(ctx, r.User.ID, item.Category)
	if err != nil {
		return outcome{}, err
	}
	reply.Text = fmt.Sprintf("Added to %s!\n\n%s", item.Status, reply.Text)
	return outcome{reply: reply, next: idle()}, nil
}

// editTitle completes a rename flow. An empty title re-prompts and keeps the flow.
func (d *Dispatcher) editTitle(ctx context.Context, r request) (outcome, error) {
	s := r.State
	item, err := d.ownedItem(ctx, r.User.ID, s.ItemID)
	if err == nil {
		item, err = d.store.RenameItem(ctx, item.ID, r.Text)
	}
	switch {
	case isValidation(err):
		return outcome{reply: Reply{
			Text:     textEmptyTitle,
			Keyboard: keyboard.CancelEdit(s.ItemID, s.Category, s.ReturnPage),
		}}, nil
	case isNotFound(err):
		return d.notFound(ctx, r, s.Category)
	case err != nil:
		return outcome{}, fmt.Errorf("failed to rename item: %w", err)
	}

	return outcome{
		reply: Reply{
			Text:     "Updated!\n\n" + d.itemText(item),
			Keyboard: keyboard.ItemDetail(*item, s.ReturnPage),
		},
		next: idle(),
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

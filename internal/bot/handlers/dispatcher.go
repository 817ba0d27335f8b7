package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/edgard/logbook/internal/config"
	"github.com/edgard/logbook/internal/conversation"
	"github.com/edgard/logbook/internal/database"
	"github.com/edgard/logbook/internal/keyboard"
	"github.com/edgard/logbook/internal/logger"
	"github.com/edgard/logbook/internal/reporting"
)

// Dispatcher turns inbound events into store operations, conversation
// transitions and exactly one rendered reply.
type Dispatcher struct {
	store     database.Store
	tx        TxRunner
	states    *conversation.Table
	responder Responder
	reporter  reporting.Reporter
	logger    *slog.Logger
	msgs      config.MessagesConfig
	pageSize  int
	loc       *time.Location
}

// NewDispatcher creates a dispatcher from deps.
func NewDispatcher(deps HandlerDeps) *Dispatcher {
	d := &Dispatcher{
		store:     deps.Store,
		tx:        deps.Tx,
		states:    deps.States,
		responder: deps.Responder,
		reporter:  deps.Reporter,
		logger:    deps.Logger,
		msgs:      config.DefaultMessages,
		pageSize:  config.DefaultPageSize,
		loc:       time.UTC,
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.logger = d.logger.With("component", "dispatcher")
	if d.reporter == nil {
		d.reporter = reporting.Nop{}
	}
	if d.states == nil {
		d.states = conversation.NewTable()
	}
	if cfg := deps.Config; cfg != nil {
		d.msgs = cfg.Messages
		if cfg.Items.PageSize > 0 {
			d.pageSize = cfg.Items.PageSize
		}
		if cfg.Location != nil {
			d.loc = cfg.Location
		}
	}
	return d
}

// request is the per-event context handed to handlers.
type request struct {
	Event
	User  *database.User
	State conversation.State
}

// outcome pairs a reply with the conversation state to apply after commit.
// A nil next leaves the state untouched.
type outcome struct {
	reply Reply
	next  *conversation.State
}

func idle() *conversation.State {
	return &conversation.State{}
}

// Dispatch handles one event. Errors never escape: they are logged, reported
// and answered with a generic message.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	log := d.logger.With("user_id", ev.From.ID, "event", ev.Kind.String())
	if id := logger.RequestID(ctx); id != "" {
		log = log.With("request_id", id)
	}

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "Recovered from panic in handler", "panic", r, "stack", string(debug.Stack()))
			d.fail(ctx, log, ev, fmt.Errorf("panic: %v", r))
		}
	}()

	out, err := d.handle(ctx, ev)
	if err != nil {
		log.ErrorContext(ctx, "Failed to handle event", "error", err)
		d.fail(ctx, log, ev, err)
		return
	}

	if out.next != nil {
		d.states.Set(ev.From.ID, *out.next)
	}
	d.deliver(ctx, log, ev, out.reply)
}

func (d *Dispatcher) handle(ctx context.Context, ev Event) (outcome, error) {
	var tok keyboard.Token
	if ev.Kind == EventControl {
		t, err := keyboard.Decode(ev.Data)
		if err != nil {
			d.logger.WarnContext(ctx, "Rejected control token", "user_id", ev.From.ID, "data", ev.Data, "error", err)
			return outcome{reply: Reply{Notice: d.msgs.UnknownAction}}, nil
		}
		tok = t
	}

	var out outcome
	err := d.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := d.store.EnsureUser(ctx, database.User{
			ID:       ev.From.ID,
			FullName: ev.From.FullName,
			Username: nullString(ev.From.Username),
		})
		if err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}

		r := request{Event: ev, User: user, State: d.states.Get(user.ID)}
		switch ev.Kind {
		case EventMessage:
			out, err = d.routeMessage(ctx, r)
		case EventControl:
			out, err = d.routeControl(ctx, r, tok)
		default:
			err = fmt.Errorf("unknown event kind %d", ev.Kind)
		}
		return err
	})
	return out, err
}

func (d *Dispatcher) routeMessage(ctx context.Context, r request) (outcome, error) {
	if cmd, ok := parseCommand(r.Text); ok {
		return d.command(ctx, r, cmd)
	}

	switch r.State.Kind {
	case conversation.AwaitingItemTitle:
		return d.addTitle(ctx, r)
	case conversation.AwaitingEditTitle:
		return d.editTitle(ctx, r)
	default:
		return outcome{reply: Reply{Text: d.msgs.IdleHint, Keyboard: keyboard.MainMenu()}}, nil
	}
}

// command handles slash commands. Every command supersedes a pending flow.
func (d *Dispatcher) command(ctx context.Context, r request, cmd string) (outcome, error) {
	out := outcome{next: idle()}
	switch cmd {
	case "start":
		out.reply = d.greetingView(r.User)
	case "stats":
		reply, err := d.statsView(ctx, r.User.ID)
		if err != nil {
			return outcome{}, err
		}
		out.reply = reply
	case "help":
		out.reply = Reply{Text: d.msgs.Help, Keyboard: keyboard.MainMenu()}
	case "cancel":
		out.reply = d.mainView()
	default:
		out.reply = Reply{Text: d.msgs.IdleHint, Keyboard: keyboard.MainMenu()}
	}
	return out, nil
}

func (d *Dispatcher) routeControl(ctx context.Context, r request, tok keyboard.Token) (outcome, error) {
	var (
		out outcome
		err error
	)
	switch t := tok.(type) {
	case keyboard.MenuToken:
		out, err = d.menu(ctx, r, t)
	case keyboard.ItemToken:
		out, err = d.item(ctx, r, t)
	default:
		return outcome{}, fmt.Errorf("unhandled token %T", tok)
	}
	if err != nil {
		return outcome{}, err
	}
	// Any control abandons a pending flow unless it starts a new one.
	if out.next == nil {
		out.next = idle()
	}
	return out, nil
}

// notFound answers a reference to a missing or foreign item with a notice
// and the category view, or the main menu when no category is known.
func (d *Dispatcher) notFound(ctx context.Context, r request, c database.Category) (outcome, error) {
	reply := d.mainView()
	if c.Valid() {
		var err error
		if reply, err = d.categoryView(ctx, r.User.ID, c); err != nil {
			return outcome{}, err
		}
	}

	if r.Kind == EventMessage {
		reply.Text = textItemNotFound + "\n\n" + reply.Text
	} else {
		reply.Notice = textItemNotFound
	}
	return outcome{reply: reply, next: idle()}, nil
}

// ownedItem loads an item and hides items owned by someone else.
func (d *Dispatcher) ownedItem(ctx context.Context, userID, itemID int64) (*database.Item, error) {
	item, err := d.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, database.ErrNotFound
	}
	return item, nil
}

func (d *Dispatcher) deliver(ctx context.Context, log *slog.Logger, ev Event, reply Reply) {
	if ev.Kind == EventControl || reply.Notice != "" {
		if err := d.responder.Notify(ctx, ev, reply.Notice, !reply.Alert); err != nil {
			log.WarnContext(ctx, "Failed to send notice", "error", err)
		}
	}
	if reply.Text == "" {
		return
	}
	if err := d.responder.Render(ctx, ev, reply.Text, reply.Keyboard); err != nil {
		log.WarnContext(ctx, "Failed to render reply", "error", err)
	}
}

func (d *Dispatcher) fail(ctx context.Context, log *slog.Logger, ev Event, err error) {
	d.states.Clear(ev.From.ID)
	d.reporter.Capture(ctx, err, map[string]string{
		"user_id":    strconv.FormatInt(ev.From.ID, 10),
		"event":      ev.Kind.String(),
		"request_id": logger.RequestID(ctx),
	})

	var nerr error
	if ev.Kind == EventControl {
		nerr = d.responder.Notify(ctx, ev, d.msgs.CallbackError, false)
	} else {
		nerr = d.responder.Notify(ctx, ev, d.msgs.GeneralError, true)
	}
	if nerr != nil {
		log.WarnContext(ctx, "Failed to send error notice", "error", nerr)
	}
}

// parseCommand extracts the lowercased command name from "/name@bot args".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text[1:])
	if len(name) == 0 {
		return "", false
	}
	cmd, _, _ := strings.Cut(name[0], "@")
	if cmd == "" {
		return "", false
	}
	return strings.ToLower(cmd), true
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

func isValidation(err error) bool {
	return errors.Is(err, database.ErrValidation)
}

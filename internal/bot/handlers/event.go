package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/logbook/internal/keyboard"
)

// EventKind distinguishes typed text from button presses.
type EventKind int

const (
	EventMessage EventKind = iota
	EventControl
)

func (k EventKind) String() string {
	if k == EventControl {
		return "control"
	}
	return "message"
}

// Sender identifies who produced an event.
type Sender struct {
	ID       int64
	FullName string
	Username string
}

// Event is a transport-neutral inbound update.
type Event struct {
	Kind EventKind
	From Sender

	ChatID    int64
	MessageID int // message holding the pressed keyboard; zero if unavailable
	// CallbackID must be answered for control events.
	CallbackID string

	Text string // message events
	Data string // raw token, control events
}

// Responder delivers replies for an event.
type Responder interface {
	// Render shows text with keyboard. Control events edit the message that
	// carried the pressed button; message events get a new message.
	Render(ctx context.Context, ev Event, text string, kb keyboard.Keyboard) error
	// Notify shows a transient notice. For control events it answers the
	// callback (as an alert unless ephemeral) and an empty text only
	// acknowledges it. For message events a non-empty text is sent as a message.
	Notify(ctx context.Context, ev Event, text string, ephemeral bool) error
}

// Reply is what a handler wants shown.
type Reply struct {
	Text     string
	Keyboard keyboard.Keyboard
	Notice   string
	Alert    bool
}

// EventFromUpdate converts a Telegram update. Updates without a sender and
// update types the bot does not handle yield false.
func EventFromUpdate(update *models.Update) (Event, bool) {
	switch {
	case update == nil:
		return Event{}, false

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return Event{}, false
		}
		return Event{
			Kind:      EventMessage,
			From:      senderFromUser(*msg.From),
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      msg.Text,
		}, true

	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		ev := Event{
			Kind:       EventControl,
			From:       senderFromUser(cq.From),
			ChatID:     cq.From.ID,
			CallbackID: cq.ID,
			Data:       cq.Data,
		}
		switch {
		case cq.Message.Message != nil:
			ev.ChatID = cq.Message.Message.Chat.ID
			ev.MessageID = cq.Message.Message.ID
		case cq.Message.InaccessibleMessage != nil:
			ev.ChatID = cq.Message.InaccessibleMessage.Chat.ID
		}
		return ev, true
	}
	return Event{}, false
}

func senderFromUser(u models.User) Sender {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return Sender{ID: u.ID, FullName: name, Username: u.Username}
}

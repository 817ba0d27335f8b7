package handlers_test

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/logbook/internal/bot/handlers"
)

func TestEventFromUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update *models.Update
		want   handlers.Event
		ok     bool
	}{
		{
			name: "text message",
			update: &models.Update{Message: &models.Message{
				ID:   7,
				Chat: models.Chat{ID: 10, Type: models.ChatTypePrivate},
				From: &models.User{ID: 10, FirstName: "Ada", LastName: "Lovelace", Username: "ada"},
				Text: "Dune",
			}},
			want: handlers.Event{
				Kind:      handlers.EventMessage,
				From:      handlers.Sender{ID: 10, FullName: "Ada Lovelace", Username: "ada"},
				ChatID:    10,
				MessageID: 7,
				Text:      "Dune",
			},
			ok: true,
		},
		{
			name: "callback on accessible message",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				ID:   "cb1",
				From: models.User{ID: 10, Username: "ada"},
				Data: "m:main::0:",
				Message: models.MaybeInaccessibleMessage{
					Message: &models.Message{ID: 3, Chat: models.Chat{ID: 10}},
				},
			}},
			want: handlers.Event{
				Kind:       handlers.EventControl,
				From:       handlers.Sender{ID: 10, FullName: "ada", Username: "ada"},
				ChatID:     10,
				MessageID:  3,
				CallbackID: "cb1",
				Data:       "m:main::0:",
			},
			ok: true,
		},
		{
			name: "callback on inaccessible message",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				ID:   "cb2",
				From: models.User{ID: 11, FirstName: "Grace"},
				Data: "m:stats::0:",
				Message: models.MaybeInaccessibleMessage{
					InaccessibleMessage: &models.InaccessibleMessage{Chat: models.Chat{ID: 12}},
				},
			}},
			want: handlers.Event{
				Kind:       handlers.EventControl,
				From:       handlers.Sender{ID: 11, FullName: "Grace"},
				ChatID:     12,
				CallbackID: "cb2",
				Data:       "m:stats::0:",
			},
			ok: true,
		},
		{
			name:   "message without sender",
			update: &models.Update{Message: &models.Message{Chat: models.Chat{ID: 1}}},
		},
		{
			name:   "unsupported update",
			update: &models.Update{ID: 1},
		},
		{
			name: "nil update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := handlers.EventFromUpdate(tt.update)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "message", handlers.EventMessage.String())
	assert.Equal(t, "control", handlers.EventControl.String())
}

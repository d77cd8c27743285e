package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	qport "marketchat/internal/infrastructure/queue/port"
	identity "marketchat/internal/pkg/identity/port"
)

// MessageNotificationTaskType is the queue task name for notifying a
// participant about a new message in one of their conversations.
const MessageNotificationTaskType = "conversations:notify"

// MessageNotificationPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type MessageNotificationPayload struct {
	Kind           string  `json:"kind"`
	ConversationID string  `json:"conversationId"`
	SenderID       string  `json:"senderId"`
	RecipientID    string  `json:"recipientId"`
	Preview        *string `json:"preview,omitempty"`
}

// NewMessageNotification builds the queue task for a freshly appended message.
func NewMessageNotification(p MessageNotificationPayload) (qport.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: MessageNotificationTaskType, Payload: b}, nil
}

// RegisterMessageNotificationTask binds the notification handler to the
// provided server. The handler resolves both parties and records the delivery
// intent; the actual out-of-band channel (mail, push) hangs off this point.
func RegisterMessageNotificationTask(srv qport.Server, ids identity.Provider, log zerolog.Logger) {
	srv.Register(MessageNotificationTaskType, func(ctx context.Context, t qport.Task) error {
		var p MessageNotificationPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying cannot help
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		recipient, err := ids.Resolve(ctx, p.RecipientID)
		if errors.Is(err, identity.ErrProfileNotFound) {
			log.Warn().Str("recipient_id", p.RecipientID).Msg("notification recipient no longer exists")
			return nil
		}
		if err != nil {
			// transient lookup failure: let the queue retry
			return err
		}
		sender, err := ids.Resolve(ctx, p.SenderID)
		if err != nil {
			sender = identity.Profile{ID: p.SenderID}
		}

		// TODO: hand off to the platform mailer once its queue contract lands
		log.Info().
			Str("kind", p.Kind).
			Str("conversation_id", p.ConversationID).
			Str("sender", sender.FullName).
			Str("recipient", recipient.FullName).
			Msg("message notification delivered")
		return nil
	})
}

package conversation

import (
	"errors"
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. Ordering within a
// conversation is by CreatedAt with Seq as the insertion-order tie-break.
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	Text           *string   `db:"text"`
	AttachmentURL  *string   `db:"attachment_url"`
	CreatedAt      time.Time `db:"created_at"`
	Seq            int64     `db:"seq"`
}

// NewMessage validates and normalizes a message before persistence.
// Whitespace-only text is treated as absent; a message with neither text nor
// attachment is rejected.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return nil, errors.New("conversation_id and sender_id are required")
	}

	if m.Text != nil {
		trimmed := strings.TrimSpace(*m.Text)
		if trimmed == "" {
			m.Text = nil
		} else {
			m.Text = &trimmed
		}
	}

	if m.Text == nil && m.AttachmentURL == nil {
		return nil, ErrEmptyMessage
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return &m, nil
}

// HasContent reports whether at least one of text/attachment is present after
// normalization. Start-conversation calls with an empty payload are legal and
// simply skip the append.
func HasContent(text, attachmentURL *string) bool {
	if attachmentURL != nil && *attachmentURL != "" {
		return true
	}
	return text != nil && strings.TrimSpace(*text) != ""
}

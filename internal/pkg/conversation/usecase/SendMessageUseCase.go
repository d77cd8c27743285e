package usecase

import (
	"context"
	"errors"
	"fmt"

	"marketchat/internal/infrastructure/metrics"
	conversation "marketchat/internal/pkg/conversation/domain"
	repository "marketchat/internal/pkg/conversation/persistence/repository/port"
)

// SendMessageInput carries the data needed to append a message to an
// existing conversation.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Text           *string
	AttachmentURL  *string
}

// SendMessageOutput carries the stored message together with the conversation
// it was appended to, so callers can address the counterpart without a second
// lookup.
type SendMessageOutput struct {
	Conversation conversation.Conversation
	Message      conversation.Message
}

// SendMessageUseCase appends a message to a conversation the sender belongs
// to. Unlike the start path, an empty payload here is an error.
type SendMessageUseCase struct {
	Repo repository.ConversationRepository
}

func NewSendMessageUseCase(repo repository.ConversationRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if in.ConversationID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("conversation_id and sender_id are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, conversation.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.SenderID) {
		return nil, conversation.ErrNotParticipant
	}

	msg, err := conversation.NewMessage(conversation.Message{
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Text:           in.Text,
		AttachmentURL:  in.AttachmentURL,
	})
	if err != nil {
		return nil, err
	}

	saved, err := uc.Repo.AppendMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	metrics.MessagesAppended.WithLabelValues(string(conv.Kind)).Inc()
	return &SendMessageOutput{Conversation: conv, Message: saved}, nil
}

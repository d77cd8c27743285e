package repository

import (
	"context"

	conversation "marketchat/internal/pkg/conversation/domain"
)

// StartResult is the outcome of a find-or-create(+append) call.
type StartResult struct {
	Conversation conversation.Conversation
	Message      *conversation.Message // nil when the call carried no content
	Created      bool                  // true when a new conversation row was inserted
}

// ConversationSummary pairs a conversation with its most recent message, if
// any. Used by the grouped conversation list.
type ConversationSummary struct {
	Conversation conversation.Conversation
	LastMessage  *conversation.Message
}

// ConversationRepository defines persistence operations for the conversation
// engine. StartOrAppend must execute as a single atomic unit: concurrent
// calls with the same unordered participant pair converge on one row.
type ConversationRepository interface {
	StartOrAppend(ctx context.Context, kind conversation.Kind, initiatorID, receiverID string, text, attachmentURL *string) (StartResult, error)
	GetConversation(ctx context.Context, id string) (conversation.Conversation, error)
	ListForParticipant(ctx context.Context, kind conversation.Kind, userID string) ([]ConversationSummary, error)
	AllMessages(ctx context.Context, conversationID string) ([]conversation.Message, error)
	AppendMessage(ctx context.Context, m conversation.Message) (conversation.Message, error)
	DeleteConversation(ctx context.Context, id string) error
}

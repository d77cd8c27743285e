package usecase

import (
	"context"
	"errors"
	"fmt"

	conversation "marketchat/internal/pkg/conversation/domain"
	repository "marketchat/internal/pkg/conversation/persistence/repository/port"
)

// DeleteConversationInput identifies the conversation and the caller asking
// for its removal.
type DeleteConversationInput struct {
	ConversationID string
	RequesterID    string
}

// DeleteConversationUseCase removes a conversation and, through the store's
// cascade, all of its messages. Only participants may delete.
type DeleteConversationUseCase struct {
	Repo repository.ConversationRepository
}

func NewDeleteConversationUseCase(repo repository.ConversationRepository) *DeleteConversationUseCase {
	return &DeleteConversationUseCase{Repo: repo}
}

func (uc *DeleteConversationUseCase) Execute(ctx context.Context, in DeleteConversationInput) error {
	if in.ConversationID == "" || in.RequesterID == "" {
		return fmt.Errorf("conversation_id and requester_id are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, conversation.ErrConversationNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return conversation.ErrNotParticipant
	}

	if err := uc.Repo.DeleteConversation(ctx, conv.ID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			// already gone; deletion is idempotent from the caller's view
			return nil
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

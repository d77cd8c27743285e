package usecase

import (
	"context"
	"errors"
	"fmt"

	conversation "marketchat/internal/pkg/conversation/domain"
	repository "marketchat/internal/pkg/conversation/persistence/repository/port"
	identity "marketchat/internal/pkg/identity/port"
)

// GetConversationInput identifies the transcript to fetch and the caller
// requesting it.
type GetConversationInput struct {
	ConversationID string
	RequesterID    string
}

type GetConversationOutput struct {
	Conversation conversation.Conversation
	Counterpart  identity.Profile
	Messages     []conversation.Message // ascending by creation, insertion order as tie-break
}

// GetConversationUseCase returns a full transcript. Only participants may
// read a conversation; everyone else gets ErrNotParticipant.
type GetConversationUseCase struct {
	Repo     repository.ConversationRepository
	Identity identity.Provider
}

func NewGetConversationUseCase(repo repository.ConversationRepository, ids identity.Provider) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo, Identity: ids}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) (*GetConversationOutput, error) {
	if in.ConversationID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("conversation_id and requester_id are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, conversation.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return nil, conversation.ErrNotParticipant
	}

	msgs, err := uc.Repo.AllMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	counterpart := lookupProfile(ctx, uc.Identity, conv.CounterpartOf(in.RequesterID))

	return &GetConversationOutput{Conversation: conv, Counterpart: counterpart, Messages: msgs}, nil
}

// lookupProfile resolves a counterpart for response shaping. A missing or
// failing lookup degrades to a bare id rather than failing the read.
func lookupProfile(ctx context.Context, ids identity.Provider, userID string) identity.Profile {
	profile, err := ids.Resolve(ctx, userID)
	if err != nil {
		return identity.Profile{ID: userID}
	}
	return profile
}

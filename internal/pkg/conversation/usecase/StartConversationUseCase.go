package usecase

import (
	"context"
	"errors"
	"fmt"

	"marketchat/internal/infrastructure/metrics"
	conversation "marketchat/internal/pkg/conversation/domain"
	repository "marketchat/internal/pkg/conversation/persistence/repository/port"
	identity "marketchat/internal/pkg/identity/port"
)

// StartConversationInput carries the data to open (or continue) a
// conversation between the authenticated initiator and a receiver.
type StartConversationInput struct {
	Kind          conversation.Kind
	InitiatorID   string
	ReceiverID    string
	Text          *string
	AttachmentURL *string
}

// StartConversationOutput is the resolver result plus the receiver profile
// needed to shape the response.
type StartConversationOutput struct {
	Conversation conversation.Conversation
	Message      *conversation.Message // nil when the call carried no content
	Receiver     identity.Profile
	Created      bool
}

// StartConversationUseCase finds or creates the single canonical conversation
// for an unordered participant pair and appends the first message, as one
// atomic unit against the store.
type StartConversationUseCase struct {
	Repo     repository.ConversationRepository
	Identity identity.Provider
}

func NewStartConversationUseCase(repo repository.ConversationRepository, ids identity.Provider) *StartConversationUseCase {
	return &StartConversationUseCase{Repo: repo, Identity: ids}
}

func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (*StartConversationOutput, error) {
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("unknown conversation kind %q", in.Kind)
	}
	if in.InitiatorID == "" || in.ReceiverID == "" {
		return nil, fmt.Errorf("initiator and receiver are required")
	}
	if in.InitiatorID == in.ReceiverID {
		return nil, conversation.ErrSelfConversation
	}

	if _, err := uc.resolve(ctx, in.InitiatorID); err != nil {
		return nil, err
	}
	receiver, err := uc.resolve(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	result, err := uc.Repo.StartOrAppend(ctx, in.Kind, in.InitiatorID, in.ReceiverID, in.Text, in.AttachmentURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if result.Created {
		metrics.ConversationsStarted.WithLabelValues(string(in.Kind)).Inc()
	}
	if result.Message != nil {
		metrics.MessagesAppended.WithLabelValues(string(in.Kind)).Inc()
	}

	return &StartConversationOutput{
		Conversation: result.Conversation,
		Message:      result.Message,
		Receiver:     receiver,
		Created:      result.Created,
	}, nil
}

func (uc *StartConversationUseCase) resolve(ctx context.Context, userID string) (identity.Profile, error) {
	profile, err := uc.Identity.Resolve(ctx, userID)
	if errors.Is(err, identity.ErrProfileNotFound) {
		return identity.Profile{}, conversation.ErrParticipantNotFound
	}
	if err != nil {
		return identity.Profile{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return profile, nil
}

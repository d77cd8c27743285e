package usecase

import (
	"context"
	"fmt"
	"time"

	conversation "marketchat/internal/pkg/conversation/domain"
	repository "marketchat/internal/pkg/conversation/persistence/repository/port"
	identity "marketchat/internal/pkg/identity/port"
)

// ListConversationsInput identifies whose conversation list to build.
type ListConversationsInput struct {
	Kind          conversation.Kind
	ParticipantID string
}

// ConversationPreview is one entry of the grouped list: the surfaced
// conversation with its counterpart and last message.
type ConversationPreview struct {
	Conversation conversation.Conversation
	Counterpart  identity.Profile
	LastMessage  *conversation.Message
}

// ListConversationsUseCase groups a participant's conversations by
// counterpart. Should multiple rows ever exist for the same counterpart (a
// data anomaly under the pair invariant), only the one with the most recent
// message survives the reduction. Ordering across groups is unspecified.
type ListConversationsUseCase struct {
	Repo     repository.ConversationRepository
	Identity identity.Provider
}

func NewListConversationsUseCase(repo repository.ConversationRepository, ids identity.Provider) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Identity: ids}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]ConversationPreview, error) {
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("unknown conversation kind %q", in.Kind)
	}
	if in.ParticipantID == "" {
		return nil, fmt.Errorf("participant_id is required")
	}

	summaries, err := uc.Repo.ListForParticipant(ctx, in.Kind, in.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	best := make(map[string]repository.ConversationSummary)
	for _, s := range summaries {
		counterpart := s.Conversation.CounterpartOf(in.ParticipantID)
		current, ok := best[counterpart]
		if !ok || newerSummary(s, current) {
			best[counterpart] = s
		}
	}

	previews := make([]ConversationPreview, 0, len(best))
	for counterpartID, s := range best {
		previews = append(previews, ConversationPreview{
			Conversation: s.Conversation,
			Counterpart:  lookupProfile(ctx, uc.Identity, counterpartID),
			LastMessage:  s.LastMessage,
		})
	}
	return previews, nil
}

// newerSummary ranks by last-message creation time with insertion order as
// tie-break; a conversation with no messages ranks by its own creation time.
func newerSummary(a, b repository.ConversationSummary) bool {
	at, aseq := rankOf(a)
	bt, bseq := rankOf(b)
	if at.Equal(bt) {
		return aseq > bseq
	}
	return at.After(bt)
}

func rankOf(s repository.ConversationSummary) (t time.Time, seq int64) {
	if s.LastMessage != nil {
		return s.LastMessage.CreatedAt, s.LastMessage.Seq
	}
	return s.Conversation.CreatedAt, 0
}

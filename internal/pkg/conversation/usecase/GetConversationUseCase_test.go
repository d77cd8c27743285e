package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conversation "marketchat/internal/pkg/conversation/domain"
)

func TestGetConversationUseCase(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*fakeRepo, string) {
		t.Helper()
		repo := newFakeRepo()
		start := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))
		out, err := start.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("first"),
		})
		require.NoError(t, err)
		_, err = repo.AppendMessage(ctx, conversation.Message{
			ConversationID: out.Conversation.ID, SenderID: "bob", Text: strPtr("second"),
		})
		require.NoError(t, err)
		return repo, out.Conversation.ID
	}

	t.Run("participant reads the full transcript in order", func(t *testing.T) {
		repo, convID := seed(t)
		uc := NewGetConversationUseCase(repo, newFakeIdentity("alice", "bob"))

		out, err := uc.Execute(ctx, GetConversationInput{ConversationID: convID, RequesterID: "alice"})
		require.NoError(t, err)
		require.Len(t, out.Messages, 2)
		assert.Equal(t, "first", *out.Messages[0].Text)
		assert.Equal(t, "second", *out.Messages[1].Text)
		assert.Equal(t, "bob", out.Counterpart.ID)
	})

	t.Run("counterpart is relative to the requester", func(t *testing.T) {
		repo, convID := seed(t)
		uc := NewGetConversationUseCase(repo, newFakeIdentity("alice", "bob"))

		out, err := uc.Execute(ctx, GetConversationInput{ConversationID: convID, RequesterID: "bob"})
		require.NoError(t, err)
		assert.Equal(t, "alice", out.Counterpart.ID)
	})

	t.Run("non-participant is refused", func(t *testing.T) {
		repo, convID := seed(t)
		uc := NewGetConversationUseCase(repo, newFakeIdentity("alice", "bob", "mallory"))

		_, err := uc.Execute(ctx, GetConversationInput{ConversationID: convID, RequesterID: "mallory"})
		assert.ErrorIs(t, err, conversation.ErrNotParticipant)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		uc := NewGetConversationUseCase(newFakeRepo(), newFakeIdentity("alice"))
		_, err := uc.Execute(ctx, GetConversationInput{ConversationID: "nope", RequesterID: "alice"})
		assert.ErrorIs(t, err, conversation.ErrConversationNotFound)
	})

	t.Run("failed profile lookup degrades to a bare id", func(t *testing.T) {
		repo, convID := seed(t)
		ids := newFakeIdentity("alice", "bob")
		ids.err = assert.AnError
		uc := NewGetConversationUseCase(repo, ids)

		out, err := uc.Execute(ctx, GetConversationInput{ConversationID: convID, RequesterID: "alice"})
		require.NoError(t, err)
		assert.Equal(t, "bob", out.Counterpart.ID)
		assert.Empty(t, out.Counterpart.FullName)
	})
}

func TestDeleteConversationUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("participant deletes conversation and messages", func(t *testing.T) {
		repo := newFakeRepo()
		start := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))
		out, err := start.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("bye"),
		})
		require.NoError(t, err)

		uc := NewDeleteConversationUseCase(repo)
		require.NoError(t, uc.Execute(ctx, DeleteConversationInput{
			ConversationID: out.Conversation.ID, RequesterID: "bob",
		}))

		_, err = repo.GetConversation(ctx, out.Conversation.ID)
		assert.ErrorIs(t, err, conversation.ErrConversationNotFound)
	})

	t.Run("non-participant cannot delete", func(t *testing.T) {
		repo := newFakeRepo()
		start := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))
		out, err := start.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("hi"),
		})
		require.NoError(t, err)

		uc := NewDeleteConversationUseCase(repo)
		err = uc.Execute(ctx, DeleteConversationInput{
			ConversationID: out.Conversation.ID, RequesterID: "mallory",
		})
		assert.ErrorIs(t, err, conversation.ErrNotParticipant)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		uc := NewDeleteConversationUseCase(newFakeRepo())
		err := uc.Execute(ctx, DeleteConversationInput{ConversationID: "nope", RequesterID: "alice"})
		assert.ErrorIs(t, err, conversation.ErrConversationNotFound)
	})
}

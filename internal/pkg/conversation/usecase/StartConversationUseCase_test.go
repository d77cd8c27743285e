package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conversation "marketchat/internal/pkg/conversation/domain"
)

func TestStartConversationUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a conversation with the first message", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))

		out, err := uc.Execute(ctx, StartConversationInput{
			Kind:        conversation.KindAds,
			InitiatorID: "alice",
			ReceiverID:  "bob",
			Text:        strPtr("is this still available?"),
		})
		require.NoError(t, err)
		assert.True(t, out.Created)
		require.NotNil(t, out.Message)
		assert.Equal(t, "alice", out.Message.SenderID)
		assert.Equal(t, "bob", out.Receiver.ID)
	})

	t.Run("repeat call appends to the same conversation", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))

		first, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("hi"),
		})
		require.NoError(t, err)

		second, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("hello again"),
		})
		require.NoError(t, err)

		assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
		assert.False(t, second.Created)

		msgs, err := repo.AllMessages(ctx, first.Conversation.ID)
		require.NoError(t, err)
		assert.Len(t, msgs, 2)
	})

	t.Run("pair is unordered", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))

		fromAlice, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("hi"),
		})
		require.NoError(t, err)

		fromBob, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "bob", ReceiverID: "alice", Text: strPtr("hi back"),
		})
		require.NoError(t, err)

		assert.Equal(t, fromAlice.Conversation.ID, fromBob.Conversation.ID)
		assert.False(t, fromBob.Created)
	})

	t.Run("same pair under a different kind is a different conversation", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))

		ads, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("hi"),
		})
		require.NoError(t, err)

		matri, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindMatrimonials, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("hi"),
		})
		require.NoError(t, err)

		assert.NotEqual(t, ads.Conversation.ID, matri.Conversation.ID)
		assert.True(t, matri.Created)
	})

	t.Run("empty payload finds without appending", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))

		out, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("   "),
		})
		require.NoError(t, err)
		assert.Nil(t, out.Message)

		msgs, err := repo.AllMessages(ctx, out.Conversation.ID)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("self conversation is rejected", func(t *testing.T) {
		uc := NewStartConversationUseCase(newFakeRepo(), newFakeIdentity("alice"))
		_, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "alice", Text: strPtr("hi"),
		})
		assert.ErrorIs(t, err, conversation.ErrSelfConversation)
	})

	t.Run("unknown receiver is rejected", func(t *testing.T) {
		uc := NewStartConversationUseCase(newFakeRepo(), newFakeIdentity("alice"))
		_, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "ghost", Text: strPtr("hi"),
		})
		assert.ErrorIs(t, err, conversation.ErrParticipantNotFound)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		uc := NewStartConversationUseCase(newFakeRepo(), newFakeIdentity("alice", "bob"))
		_, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.Kind("jobs"), InitiatorID: "alice", ReceiverID: "bob",
		})
		assert.Error(t, err)
	})

	t.Run("store failures surface as persistence errors", func(t *testing.T) {
		repo := newFakeRepo()
		repo.failWith = assert.AnError
		uc := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))
		_, err := uc.Execute(ctx, StartConversationInput{
			Kind: conversation.KindAds, InitiatorID: "alice", ReceiverID: "bob", Text: strPtr("hi"),
		})
		assert.ErrorIs(t, err, ErrPersistence)
	})
}

func TestStartConversationUseCase_ConcurrentStarts(t *testing.T) {
	repo := newFakeRepo()
	uc := NewStartConversationUseCase(repo, newFakeIdentity("alice", "bob"))

	const workers = 16
	results := make([]*StartConversationOutput, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			initiator, receiver := "alice", "bob"
			if i%2 == 1 {
				initiator, receiver = receiver, initiator
			}
			results[i], errs[i] = uc.Execute(context.Background(), StartConversationInput{
				Kind:        conversation.KindAds,
				InitiatorID: initiator,
				ReceiverID:  receiver,
				Text:        strPtr("racing"),
			})
		}(i)
	}
	wg.Wait()

	created := 0
	var convID string
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if results[i].Created {
			created++
		}
		if convID == "" {
			convID = results[i].Conversation.ID
		}
		assert.Equal(t, convID, results[i].Conversation.ID)
	}
	assert.Equal(t, 1, created, "exactly one caller should observe creation")

	msgs, err := repo.AllMessages(context.Background(), convID)
	require.NoError(t, err)
	assert.Len(t, msgs, workers, "every call should have appended its message")
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	conversation "marketchat/internal/pkg/conversation/domain"
	repository "marketchat/internal/pkg/conversation/persistence/repository/port"
	identity "marketchat/internal/pkg/identity/port"
)

// fakeRepo is an in-memory ConversationRepository with the same pair
// uniqueness semantics the SQL schema enforces.
type fakeRepo struct {
	mu            sync.Mutex
	conversations map[string]conversation.Conversation // id -> row
	byPair        map[string]string                    // kind|low|high -> id
	messages      map[string][]conversation.Message    // conversation id -> append order
	nextID        int
	nextSeq       int64

	failWith error // when set, every call errors
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		conversations: make(map[string]conversation.Conversation),
		byPair:        make(map[string]string),
		messages:      make(map[string][]conversation.Message),
	}
}

func pairKey(kind conversation.Kind, a, b string) string {
	low, high := conversation.CanonicalPair(a, b)
	return string(kind) + "|" + low + "|" + high
}

func (r *fakeRepo) StartOrAppend(ctx context.Context, kind conversation.Kind, initiatorID, receiverID string, text, attachmentURL *string) (repository.StartResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return repository.StartResult{}, r.failWith
	}

	key := pairKey(kind, initiatorID, receiverID)
	id, exists := r.byPair[key]
	created := false
	if !exists {
		r.nextID++
		id = fmt.Sprintf("conv-%d", r.nextID)
		now := time.Now().UTC()
		r.conversations[id] = conversation.Conversation{
			ID:          id,
			Kind:        kind,
			InitiatorID: initiatorID,
			ReceiverID:  receiverID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		r.byPair[key] = id
		created = true
	}

	res := repository.StartResult{Conversation: r.conversations[id], Created: created}
	if conversation.HasContent(text, attachmentURL) {
		msg, err := conversation.NewMessage(conversation.Message{
			ConversationID: id,
			SenderID:       initiatorID,
			Text:           text,
			AttachmentURL:  attachmentURL,
		})
		if err != nil {
			return repository.StartResult{}, err
		}
		saved := r.appendLocked(*msg)
		res.Message = &saved
	}
	return res, nil
}

func (r *fakeRepo) GetConversation(ctx context.Context, id string) (conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return conversation.Conversation{}, r.failWith
	}
	c, ok := r.conversations[id]
	if !ok {
		return conversation.Conversation{}, conversation.ErrConversationNotFound
	}
	return c, nil
}

func (r *fakeRepo) ListForParticipant(ctx context.Context, kind conversation.Kind, userID string) ([]repository.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []repository.ConversationSummary
	for _, c := range r.conversations {
		if c.Kind != kind || !c.HasParticipant(userID) {
			continue
		}
		s := repository.ConversationSummary{Conversation: c}
		if msgs := r.messages[c.ID]; len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			s.LastMessage = &last
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) AllMessages(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	msgs := r.messages[conversationID]
	out := make([]conversation.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *fakeRepo) AppendMessage(ctx context.Context, m conversation.Message) (conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return conversation.Message{}, r.failWith
	}
	if _, ok := r.conversations[m.ConversationID]; !ok {
		return conversation.Message{}, conversation.ErrConversationNotFound
	}
	return r.appendLocked(m), nil
}

func (r *fakeRepo) DeleteConversation(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	c, ok := r.conversations[id]
	if !ok {
		return conversation.ErrConversationNotFound
	}
	delete(r.conversations, id)
	delete(r.byPair, pairKey(c.Kind, c.InitiatorID, c.ReceiverID))
	delete(r.messages, id)
	return nil
}

func (r *fakeRepo) appendLocked(m conversation.Message) conversation.Message {
	r.nextSeq++
	m.Seq = r.nextSeq
	m.ID = fmt.Sprintf("msg-%d", r.nextSeq)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	c := r.conversations[m.ConversationID]
	c.UpdatedAt = m.CreatedAt
	r.conversations[m.ConversationID] = c
	return m
}

var _ repository.ConversationRepository = (*fakeRepo)(nil)

// fakeIdentity resolves profiles from a fixed map.
type fakeIdentity struct {
	profiles map[string]identity.Profile
	err      error // when set, every lookup fails with it
}

func newFakeIdentity(ids ...string) *fakeIdentity {
	f := &fakeIdentity{profiles: make(map[string]identity.Profile)}
	for _, id := range ids {
		f.profiles[id] = identity.Profile{ID: id, FullName: "User " + id}
	}
	return f
}

func (f *fakeIdentity) Resolve(ctx context.Context, userID string) (identity.Profile, error) {
	if f.err != nil {
		return identity.Profile{}, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return identity.Profile{}, identity.ErrProfileNotFound
	}
	return p, nil
}

var _ identity.Provider = (*fakeIdentity)(nil)

func strPtr(s string) *string { return &s }

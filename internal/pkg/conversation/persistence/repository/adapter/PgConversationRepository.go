package adapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	conversation "marketchat/internal/pkg/conversation/domain"
	repository "marketchat/internal/pkg/conversation/persistence/repository/port"
)

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

const conversationColumns = "id::text, kind, initiator_id::text, receiver_id::text, created_at, updated_at"

// validUUID keeps malformed path ids from reaching the ::uuid casts, where
// they would surface as SQL errors instead of not-found.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanConversation(row pgx.Row) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := row.Scan(&c.ID, &c.Kind, &c.InitiatorID, &c.ReceiverID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// StartOrAppend runs the whole find-or-create-and-append sequence in one
// transaction. The unique index on (kind, participant_low, participant_high)
// serializes concurrent starts for the same pair: the losing inserter gets no
// row back from ON CONFLICT DO NOTHING and re-reads the winner's row.
func (r *PgConversationRepository) StartOrAppend(ctx context.Context, kind conversation.Kind, initiatorID, receiverID string, text, attachmentURL *string) (repository.StartResult, error) {
	if r == nil || r.pool == nil {
		return repository.StartResult{}, errors.New("PgConversationRepository: nil pool")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return repository.StartResult{}, err
	}
	defer tx.Rollback(ctx)

	low, high := conversation.CanonicalPair(initiatorID, receiverID)

	var result repository.StartResult
	result.Conversation, err = scanConversation(tx.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE kind = $1 AND participant_low = $2::uuid AND participant_high = $3::uuid
	`, kind, low, high))
	if errors.Is(err, pgx.ErrNoRows) {
		result.Conversation, err = scanConversation(tx.QueryRow(ctx, `
			INSERT INTO conversations (kind, initiator_id, receiver_id, participant_low, participant_high)
			VALUES ($1, $2::uuid, $3::uuid, $4::uuid, $5::uuid)
			ON CONFLICT (kind, participant_low, participant_high) DO NOTHING
			RETURNING `+conversationColumns+`
		`, kind, initiatorID, receiverID, low, high))
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race; converge on the winner's row
			result.Conversation, err = scanConversation(tx.QueryRow(ctx, `
				SELECT `+conversationColumns+`
				FROM conversations
				WHERE kind = $1 AND participant_low = $2::uuid AND participant_high = $3::uuid
			`, kind, low, high))
		} else if err == nil {
			result.Created = true
		}
	}
	if err != nil {
		return repository.StartResult{}, err
	}

	if conversation.HasContent(text, attachmentURL) {
		msg, err := appendMessageTx(ctx, tx, conversation.Message{
			ConversationID: result.Conversation.ID,
			SenderID:       initiatorID,
			Text:           normalizeText(text),
			AttachmentURL:  attachmentURL,
		})
		if err != nil {
			return repository.StartResult{}, err
		}
		result.Message = &msg
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.StartResult{}, err
	}
	return result, nil
}

func normalizeText(text *string) *string {
	if text == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*text)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func appendMessageTx(ctx context.Context, tx pgx.Tx, m conversation.Message) (conversation.Message, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, text, attachment_url)
		VALUES ($1::uuid, $2::uuid, $3, $4)
		RETURNING id::text, created_at, seq
	`, m.ConversationID, m.SenderID, m.Text, m.AttachmentURL).Scan(&m.ID, &m.CreatedAt, &m.Seq)
	if err != nil {
		return conversation.Message{}, err
	}
	_, err = tx.Exec(ctx, `UPDATE conversations SET updated_at = now() WHERE id = $1::uuid`, m.ConversationID)
	if err != nil {
		return conversation.Message{}, err
	}
	return m, nil
}

func (r *PgConversationRepository) GetConversation(ctx context.Context, id string) (conversation.Conversation, error) {
	if r == nil || r.pool == nil {
		return conversation.Conversation{}, errors.New("PgConversationRepository: nil pool")
	}
	if !validUUID(id) {
		return conversation.Conversation{}, conversation.ErrConversationNotFound
	}
	c, err := scanConversation(r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE id = $1::uuid
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return conversation.Conversation{}, conversation.ErrConversationNotFound
	}
	return c, err
}

// ListForParticipant returns every conversation the user is part of, each
// paired with its latest message. Grouping by counterpart happens in the use
// case; the lateral join only surfaces the per-conversation maximum.
func (r *PgConversationRepository) ListForParticipant(ctx context.Context, kind conversation.Kind, userID string) ([]repository.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	if !validUUID(userID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.kind, c.initiator_id::text, c.receiver_id::text, c.created_at, c.updated_at,
		       m.id::text, m.sender_id::text, m.text, m.attachment_url, m.created_at, m.seq
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT id, sender_id, text, attachment_url, created_at, seq
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, seq DESC
			LIMIT 1
		) m ON true
		WHERE c.kind = $1 AND (c.initiator_id = $2::uuid OR c.receiver_id = $2::uuid)
	`, kind, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []repository.ConversationSummary
	for rows.Next() {
		var (
			s         repository.ConversationSummary
			msgID     *string
			senderID  *string
			text      *string
			att       *string
			createdAt *time.Time
			seq       *int64
		)
		if err := rows.Scan(
			&s.Conversation.ID, &s.Conversation.Kind, &s.Conversation.InitiatorID, &s.Conversation.ReceiverID,
			&s.Conversation.CreatedAt, &s.Conversation.UpdatedAt,
			&msgID, &senderID, &text, &att, &createdAt, &seq,
		); err != nil {
			return nil, err
		}
		if msgID != nil {
			s.LastMessage = &conversation.Message{
				ID:             *msgID,
				ConversationID: s.Conversation.ID,
				SenderID:       *senderID,
				Text:           text,
				AttachmentURL:  att,
				CreatedAt:      *createdAt,
				Seq:            *seq,
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PgConversationRepository) AllMessages(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	if !validUUID(conversationID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, text, attachment_url, created_at, seq
		FROM messages
		WHERE conversation_id = $1::uuid
		ORDER BY created_at ASC, seq ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []conversation.Message
	for rows.Next() {
		var m conversation.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Text, &m.AttachmentURL, &m.CreatedAt, &m.Seq); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgConversationRepository) AppendMessage(ctx context.Context, m conversation.Message) (conversation.Message, error) {
	if r == nil || r.pool == nil {
		return conversation.Message{}, errors.New("PgConversationRepository: nil pool")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return conversation.Message{}, err
	}
	defer tx.Rollback(ctx)

	saved, err := appendMessageTx(ctx, tx, m)
	if err != nil {
		return conversation.Message{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return conversation.Message{}, err
	}
	return saved, nil
}

func (r *PgConversationRepository) DeleteConversation(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	if !validUUID(id) {
		return conversation.ErrConversationNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return conversation.ErrConversationNotFound
	}
	return nil
}

package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "marketchat/internal/infrastructure/queue/port"
	conversation "marketchat/internal/pkg/conversation/domain"
	"marketchat/internal/pkg/conversation/persistence/repository/adapter"
	"marketchat/internal/pkg/conversation/task"
	"marketchat/internal/pkg/conversation/usecase"
)

// SendMessageController appends a message to an existing conversation
// (one controller per endpoint)
type SendMessageController struct {
	UC   *usecase.SendMessageUseCase
	Kind conversation.Kind
	Q    qport.Client
	Log  zerolog.Logger
}

func NewSendMessageController(pool *pgxpool.Pool, kind conversation.Kind, q qport.Client, log zerolog.Logger) *SendMessageController {
	repo := adapter.NewPgConversationRepository(pool)
	return &SendMessageController{
		UC:   usecase.NewSendMessageUseCase(repo),
		Kind: kind,
		Q:    q,
		Log:  log,
	}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Text       *string `json:"text"`
	Attachment *string `json:"attachment"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		senderID, ok := callerID(c)
		if !ok {
			return
		}
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			respondFailed(c, http.StatusBadRequest, "Conversation ID is required")
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailed(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: conversationID,
			SenderID:       senderID,
			Text:           req.Text,
			AttachmentURL:  req.Attachment,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		h.notify(ctx, out.Conversation, out.Message)

		respond(c, http.StatusCreated, "Message sent successfully", messageData(out.Message))
	}
}

// notify enqueues the out-of-band notification. Best-effort: an unavailable
// queue never fails the HTTP request.
func (h *SendMessageController) notify(ctx context.Context, conv conversation.Conversation, msg conversation.Message) {
	t, err := task.NewMessageNotification(task.MessageNotificationPayload{
		Kind:           string(conv.Kind),
		ConversationID: conv.ID,
		SenderID:       msg.SenderID,
		RecipientID:    conv.CounterpartOf(msg.SenderID),
		Preview:        msg.Text,
	})
	if err != nil {
		return
	}
	opts := qport.EnqueueOption{Queue: "conversations", MaxRetry: 5}
	if _, err := h.Q.Enqueue(ctx, t, opts); err != nil {
		h.Log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("failed to enqueue message notification")
	}
}

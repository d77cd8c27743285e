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
	identity "marketchat/internal/pkg/identity/port"
)

// StartConversationController handles the start-or-continue endpoint
// (one controller per endpoint)
type StartConversationController struct {
	UC   *usecase.StartConversationUseCase
	Kind conversation.Kind
	Q    qport.Client
	Log  zerolog.Logger
}

func NewStartConversationController(pool *pgxpool.Pool, ids identity.Provider, kind conversation.Kind, q qport.Client, log zerolog.Logger) *StartConversationController {
	repo := adapter.NewPgConversationRepository(pool)
	return &StartConversationController{
		UC:   usecase.NewStartConversationUseCase(repo, ids),
		Kind: kind,
		Q:    q,
		Log:  log,
	}
}

// startConversationRequest is the DTO for the HTTP request body
type startConversationRequest struct {
	Receiver   string  `json:"receiver" binding:"required"`
	Text       *string `json:"text"`
	Attachment *string `json:"attachment"`
}

func (h *StartConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		initiatorID, ok := callerID(c)
		if !ok {
			return
		}

		var req startConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailed(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.StartConversationInput{
			Kind:          h.Kind,
			InitiatorID:   initiatorID,
			ReceiverID:    req.Receiver,
			Text:          req.Text,
			AttachmentURL: req.Attachment,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if out.Message != nil {
			h.notify(ctx, out)
		}

		var text, attachment string
		if out.Message != nil {
			text = strOrEmpty(out.Message.Text)
			attachment = strOrEmpty(out.Message.AttachmentURL)
		}

		respond(c, http.StatusCreated, "Message sent successfully", gin.H{
			"id": out.Conversation.ID,
			"receiving_user": gin.H{
				"id":        out.Receiver.ID,
				"full_name": out.Receiver.FullName,
			},
			"receiver_profile_image": out.Receiver.AvatarURL,
			"message":                text,
			"attachment":             attachment,
		})
	}
}

// notify enqueues the out-of-band notification. Best-effort: an unavailable
// queue never fails the HTTP request.
func (h *StartConversationController) notify(ctx context.Context, out *usecase.StartConversationOutput) {
	t, err := task.NewMessageNotification(task.MessageNotificationPayload{
		Kind:           string(h.Kind),
		ConversationID: out.Conversation.ID,
		SenderID:       out.Message.SenderID,
		RecipientID:    out.Conversation.CounterpartOf(out.Message.SenderID),
		Preview:        out.Message.Text,
	})
	if err != nil {
		return
	}
	opts := qport.EnqueueOption{Queue: "conversations", MaxRetry: 5}
	if _, err := h.Q.Enqueue(ctx, t, opts); err != nil {
		h.Log.Warn().Err(err).Str("conversation_id", out.Conversation.ID).Msg("failed to enqueue message notification")
	}
}

package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketchat/internal/pkg/conversation/persistence/repository/adapter"
	"marketchat/internal/pkg/conversation/usecase"
	identity "marketchat/internal/pkg/identity/port"
)

// GetConversationController serves a full conversation transcript
// (one controller per endpoint)
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(pool *pgxpool.Pool, ids identity.Provider) *GetConversationController {
	repo := adapter.NewPgConversationRepository(pool)
	return &GetConversationController{UC: usecase.NewGetConversationUseCase(repo, ids)}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID, ok := callerID(c)
		if !ok {
			return
		}
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			respondFailed(c, http.StatusBadRequest, "Conversation ID is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.GetConversationInput{
			ConversationID: conversationID,
			RequesterID:    requesterID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		messages := make([]gin.H, 0, len(out.Messages))
		for _, m := range out.Messages {
			messages = append(messages, messageData(m))
		}

		respond(c, http.StatusOK, "Conversation retrieved successfully", gin.H{
			"id": out.Conversation.ID,
			"receiving_user": gin.H{
				"id":        out.Counterpart.ID,
				"full_name": out.Counterpart.FullName,
			},
			"receiver_profile_image": out.Counterpart.AvatarURL,
			"messages":               messages,
		})
	}
}

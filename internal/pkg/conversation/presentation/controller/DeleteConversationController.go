package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketchat/internal/pkg/conversation/persistence/repository/adapter"
	"marketchat/internal/pkg/conversation/usecase"
)

// DeleteConversationController removes a conversation and its messages
// (one controller per endpoint)
type DeleteConversationController struct {
	UC *usecase.DeleteConversationUseCase
}

func NewDeleteConversationController(pool *pgxpool.Pool) *DeleteConversationController {
	repo := adapter.NewPgConversationRepository(pool)
	return &DeleteConversationController{UC: usecase.NewDeleteConversationUseCase(repo)}
}

func (h *DeleteConversationController) Handle() gin.HandlerFunc {
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

		err := h.UC.Execute(ctx, usecase.DeleteConversationInput{
			ConversationID: conversationID,
			RequesterID:    requesterID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	conversation "marketchat/internal/pkg/conversation/domain"
	"marketchat/internal/pkg/conversation/persistence/repository/adapter"
	"marketchat/internal/pkg/conversation/usecase"
	identity "marketchat/internal/pkg/identity/port"
)

// ListConversationsController serves the caller's conversation overview,
// one entry per counterpart (one controller per endpoint)
type ListConversationsController struct {
	UC   *usecase.ListConversationsUseCase
	Kind conversation.Kind
}

func NewListConversationsController(pool *pgxpool.Pool, ids identity.Provider, kind conversation.Kind) *ListConversationsController {
	repo := adapter.NewPgConversationRepository(pool)
	return &ListConversationsController{
		UC:   usecase.NewListConversationsUseCase(repo, ids),
		Kind: kind,
	}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		participantID, ok := callerID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		previews, err := h.UC.Execute(ctx, usecase.ListConversationsInput{
			Kind:          h.Kind,
			ParticipantID: participantID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		data := make([]gin.H, 0, len(previews))
		for _, p := range previews {
			entry := gin.H{
				"id": p.Conversation.ID,
				"receiving_user": gin.H{
					"id":        p.Counterpart.ID,
					"full_name": p.Counterpart.FullName,
				},
				"avatar": p.Counterpart.AvatarURL,
			}
			if p.LastMessage != nil {
				entry["last_message"] = messageData(*p.LastMessage)
			} else {
				entry["last_message"] = nil
			}
			data = append(data, entry)
		}

		respond(c, http.StatusOK, "Conversations retrieved successfully", data)
	}
}

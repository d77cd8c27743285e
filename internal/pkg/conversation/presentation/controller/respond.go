package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	conversation "marketchat/internal/pkg/conversation/domain"
	"marketchat/internal/pkg/conversation/usecase"
)

// All endpoints answer with the platform's response envelope:
// {"message": ..., "data": ..., "status": "success"|"failed"}.

func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"message": message, "status": "success"}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondFailed(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message, "status": "failed"})
}

// respondError maps domain and use-case errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrConversationNotFound):
		respondFailed(c, http.StatusNotFound, "Conversation does not exist")
	case errors.Is(err, conversation.ErrParticipantNotFound):
		respondFailed(c, http.StatusNotFound, "Participant profile does not exist")
	case errors.Is(err, conversation.ErrNotParticipant):
		respondFailed(c, http.StatusForbidden, "User is not a participant in this conversation")
	case errors.Is(err, conversation.ErrSelfConversation):
		respondFailed(c, http.StatusBadRequest, "Initiator cannot chat with him/herself")
	case errors.Is(err, conversation.ErrEmptyMessage):
		respondFailed(c, http.StatusBadRequest, "Message must contain either text or attachment")
	case errors.Is(err, usecase.ErrPersistence):
		respondFailed(c, http.StatusInternalServerError, "Unexpected persistence error")
	default:
		respondFailed(c, http.StatusBadRequest, err.Error())
	}
}

// callerID extracts the authenticated participant id injected by the
// surrounding API layer. Authentication itself happens upstream.
func callerID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		respondFailed(c, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return id, true
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func messageData(m conversation.Message) gin.H {
	return gin.H{
		"id":         m.ID,
		"sender_id":  m.SenderID,
		"text":       strOrEmpty(m.Text),
		"attachment": strOrEmpty(m.AttachmentURL),
		"created_at": m.CreatedAt,
	}
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "marketchat/internal/infrastructure/queue/port"
	"marketchat/internal/infrastructure/realtime"
	conversation "marketchat/internal/pkg/conversation/domain"
	"marketchat/internal/pkg/conversation/presentation/controller"
	identity "marketchat/internal/pkg/identity/port"
)

// RegisterRoutes mounts the conversation endpoints of one kind under the
// given router group. It constructs per-endpoint controllers and binds them
// directly to routes.
func RegisterRoutes(g *gin.RouterGroup, kind conversation.Kind, pool *pgxpool.Pool, ids identity.Provider, client qport.Client, log zerolog.Logger) {
	startCtl := controller.NewStartConversationController(pool, ids, kind, client, log)
	listCtl := controller.NewListConversationsController(pool, ids, kind)
	getCtl := controller.NewGetConversationController(pool, ids)
	sendCtl := controller.NewSendMessageController(pool, kind, client, log)
	deleteCtl := controller.NewDeleteConversationController(pool)

	// POST /conversations/start -> start a conversation, or continue the
	// existing one with the same counterpart
	g.POST("/conversations/start", startCtl.Handle())

	// GET /conversations -> the caller's conversation overview
	g.GET("/conversations", listCtl.Handle())

	// GET /conversations/:conversationId -> full transcript
	g.GET("/conversations/:conversationId", getCtl.Handle())

	// POST /conversations/:conversationId/messages -> append a message
	g.POST("/conversations/:conversationId/messages", sendCtl.Handle())

	// DELETE /conversations/:conversationId -> remove conversation + messages
	g.DELETE("/conversations/:conversationId", deleteCtl.Handle())
}

// RegisterRealtime mounts the room relay websocket endpoint. Rooms are
// independent of the stored conversations; any client may join any room id.
func RegisterRealtime(g *gin.RouterGroup, registry *realtime.Registry, log zerolog.Logger) {
	socketCtl := controller.NewRoomSocketController(registry, log)

	// GET /ws/room/:roomId -> websocket endpoint for realtime room relay
	g.GET("/ws/room/:roomId", socketCtl.Handle())
}

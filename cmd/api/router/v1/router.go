package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "marketchat/internal/infrastructure/queue/port"
	"marketchat/internal/infrastructure/realtime"
	conversation "marketchat/internal/pkg/conversation/domain"
	httpHandler "marketchat/internal/pkg/conversation/presentation/http"
	identity "marketchat/internal/pkg/identity/port"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1. Each
// conversation kind gets its own route group backed by the shared engine.
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, ids identity.Provider, client qport.Client, registry *realtime.Registry, log zerolog.Logger) {
	v1 := r.Group("/api/v1")

	httpHandler.RegisterRoutes(v1.Group("/ads"), conversation.KindAds, pool, ids, client, log)
	httpHandler.RegisterRoutes(v1.Group("/matrimonials"), conversation.KindMatrimonials, pool, ids, client, log)

	httpHandler.RegisterRealtime(v1, registry, log)
}

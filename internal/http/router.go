// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movelink/internal/http/handlers"
	"movelink/internal/http/middleware"
	"movelink/internal/modules/matching"
	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
)

func NewRouter(
	matchingService *matching.Service,
	requestService *request.Service,
	moveService *move.Service,
	log *zap.Logger,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	matchHandler := handlers.NewMatchHandler(matchingService)
	r.POST("/api/matches/generate", matchHandler.Generate)
	r.GET("/api/matches", matchHandler.List)
	r.POST("/api/matches/:id/accept", matchHandler.Accept)
	r.POST("/api/matches/:id/reject", matchHandler.Reject)

	requestHandler := handlers.NewRequestHandler(requestService)
	r.POST("/api/requests", requestHandler.Create)
	r.GET("/api/requests", requestHandler.List)
	r.GET("/api/requests/:id", requestHandler.Get)
	r.POST("/api/requests/:id/complete", requestHandler.Complete)

	moveHandler := handlers.NewMoveHandler(moveService)
	r.POST("/api/moves", moveHandler.Create)
	r.GET("/api/moves", moveHandler.List)
	r.GET("/api/moves/:id", moveHandler.Get)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

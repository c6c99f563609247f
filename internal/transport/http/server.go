// Package http exposes the request API and the realtime endpoint.
package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomchat/roomchat-server/internal/auth"
	"github.com/roomchat/roomchat-server/internal/config"
	"github.com/roomchat/roomchat-server/internal/core"
	"github.com/roomchat/roomchat-server/internal/store"
)

// loginRateLimit caps register/login attempts per minute.
const loginRateLimit = 30

// NewServer builds the HTTP server with all routes mounted.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(LoggerMiddleware(logger), gin.Recovery())

	rooms := NewRoomHandlers(st, logger)
	authHandlers := NewAuthHandlers(authService, logger, newRateLimiter(loginRateLimit))
	ws := NewWSHandler(hub, logger)

	r.GET("/health", healthHandler)

	r.GET("/rooms", rooms.ListRooms)
	r.POST("/rooms/:roomID/users/:userID", rooms.JoinRoom)
	r.POST("/rooms/:roomID/users/:userID/leave", rooms.LeaveRoom)
	r.POST("/rooms/:roomID/messages", rooms.SendMessage)
	r.GET("/rooms/:roomID/messages", rooms.ListMessages)

	r.POST("/register", authHandlers.Register)
	r.POST("/login", authHandlers.Login)
	r.GET("/me", AuthMiddleware(authService, logger), authHandlers.Me)

	r.GET("/ws", gin.WrapH(ws))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"status": "ok"})
}

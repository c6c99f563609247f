package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomchat/roomchat-server/internal/auth"
)

// AuthHandlers serves account registration, login and identity lookup.
type AuthHandlers struct {
	auth    *auth.Service
	log     *zerolog.Logger
	limiter *rateLimiter
}

func NewAuthHandlers(svc *auth.Service, logger *zerolog.Logger, limiter *rateLimiter) *AuthHandlers {
	return &AuthHandlers{auth: svc, log: logger, limiter: limiter}
}

// CredentialsRequest is the body of POST /register and POST /login.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandlers) Register(c *gin.Context) {
	if !h.limiter.allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "parameter is missing from the request body")
		return
	}
	if err := h.auth.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		abortWithError(c, err)
		return
	}
	h.log.Info().Str("username", req.Username).Msg("user registered")
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *AuthHandlers) Login(c *gin.Context) {
	if !h.limiter.allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "parameter is missing from the request body")
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me reports the username behind the bearer token. AuthMiddleware has
// already resolved it into the request context.
func (h *AuthHandlers) Me(c *gin.Context) {
	username := c.GetString(contextKeyUsername)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomchat/roomchat-server/internal/store"
)

// abortWithError maps a gateway error onto the wire contract. Validation
// failures carry their own message so the caller can see which bound was
// violated; everything else gets a fixed phrase to avoid leaking internals.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room does not exist"})
	case errors.Is(err, store.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func abortBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

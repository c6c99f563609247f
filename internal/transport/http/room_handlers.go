package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomchat/roomchat-server/internal/store"
)

// RoomHandlers serves the room registry and message archive routes.
type RoomHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

func NewRoomHandlers(st store.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{store: st, log: logger}
}

// SendMessageRequest is the body of POST /rooms/:roomID/messages.
type SendMessageRequest struct {
	SenderID string `json:"sender_id" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list rooms")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandlers) JoinRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.store.JoinRoom(c.Request.Context(), roomID, c.Param("userID")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *RoomHandlers) LeaveRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.store.LeaveRoom(c.Request.Context(), roomID, c.Param("userID")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *RoomHandlers) SendMessage(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "parameter is missing from the request body")
		return
	}
	id, err := h.store.SendMessage(c.Request.Context(), roomID, req.SenderID, req.Message)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, id)
}

func (h *RoomHandlers) ListMessages(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	messages, err := h.store.ListMessages(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Int("room", roomID).Msg("list messages")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func roomIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		abortBadRequest(c, "room id must be an integer")
		return 0, false
	}
	return id, true
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nextpaint/paintroom-server/internal/core"
	"github.com/nextpaint/paintroom-server/internal/proto"
	"github.com/nextpaint/paintroom-server/internal/utils"
)

// RoomHandlers provides HTTP handlers for room endpoints. Rooms hold no
// durable state, so creation only hands out a fresh shareable code; the room
// itself comes into being on first join.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{hub: hub, log: logger}
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	RoomID  string   `json:"roomId"`
	Members []string `json:"members,omitempty"`
	Count   int      `json:"count"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoom hands out a fresh room code.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	code := utils.NewRoomCode()
	h.log.Info().Str("room", code).Msg("room code issued")
	c.JSON(http.StatusCreated, RoomResponse{RoomID: code})
}

// RoomStatus reports whether a room is live and who is in it.
// GET /api/rooms/:code
func (h *RoomHandlers) RoomStatus(c *gin.Context) {
	code, err := proto.NormalizeRoomCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	info, ok := h.hub.RoomInfo(c.Request.Context(), code)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	c.JSON(http.StatusOK, RoomResponse{
		RoomID:  info.Code,
		Members: info.Members,
		Count:   len(info.Members),
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"sportmeet/backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// CreateRoom validates the spec, charges the create fee and opens the
// room with the caller as host.
func (h *Handler) CreateRoom(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var spec domain.RoomSpec
	if err := c.BindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	room, err := h.Rooms.Create(c.Request.Context(), userID, spec)
	if err != nil {
		writeServiceError(c, "create_room", err)
		return
	}

	countOp("create_room", "ok")
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

// JoinRoom runs the eligibility checks, charges the join fee and appends
// the caller to the roster.
func (h *Handler) JoinRoom(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := h.Rooms.Join(c.Request.Context(), userID, roomID)
	if err != nil {
		writeServiceError(c, "join_room", err)
		return
	}

	countOp("join_room", "ok")
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// ListRooms returns rooms ordered by scheduled time, optionally filtered
// by sport.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Rooms.List(c.Request.Context(), c.Query("sport"))
	if err != nil {
		writeServiceError(c, "list_rooms", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom returns one room with its roster and chat history.
func (h *Handler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, chat, err := h.Rooms.Get(c.Request.Context(), roomID)
	if err != nil {
		writeServiceError(c, "get_room", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "chat": chat})
}

type ChatRequest struct {
	Text string `json:"text"`
}

// PostChat appends a chat message to the room. Membership is not
// required; anyone can post to an open room's board.
func (h *Handler) PostChat(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req ChatRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	msg, err := h.Rooms.PostChatMessage(c.Request.Context(), roomID, userID, req.Text)
	if err != nil {
		writeServiceError(c, "post_chat", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

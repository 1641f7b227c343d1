package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListConversations returns the caller's conversations with unread
// counts, grouped by counterpart.
func (h *Handler) ListConversations(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	convs, err := h.Inbox.ListConversations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// GetConversation returns the caller's copy of one conversation thread.
func (h *Handler) GetConversation(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	conv, err := h.Inbox.GetConversation(c.Request.Context(), userID, c.Param("counterpart"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

type SendMessageRequest struct {
	ToUserID int64  `json:"to_user_id"`
	Text     string `json:"text"`
}

// SendMessage writes a direct message into both participants' inbox
// copies.
func (h *Handler) SendMessage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}

	msg, err := h.Inbox.SendDirectMessage(c.Request.Context(), userID, req.ToUserID, req.Text)
	if err != nil {
		writeServiceError(c, "send_message", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// MarkConversationRead flags every message in the caller's copy of the
// thread as read. The counterpart's copy is untouched.
func (h *Handler) MarkConversationRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if err := h.Inbox.MarkConversationRead(c.Request.Context(), userID, c.Param("counterpart")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// ClaimReward claims the coin reward attached to a system message. The
// claim succeeds at most once per message.
func (h *Handler) ClaimReward(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	msgID := c.Param("msg_id")
	if msgID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message id required"})
		return
	}

	amount, newBalance, err := h.Inbox.ClaimReward(c.Request.Context(), userID, msgID)
	if err != nil {
		writeServiceError(c, "claim_reward", err)
		return
	}

	countOp("claim_reward", "ok")
	c.JSON(http.StatusOK, gin.H{
		"reward": amount,
		"coins":  newBalance,
	})
}

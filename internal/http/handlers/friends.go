package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FriendsOverview returns the caller's friends plus pending requests in
// both directions.
func (h *Handler) FriendsOverview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	overview, err := h.Friends.Overview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// SendFriendRequest creates a pending request toward the target user.
func (h *Handler) SendFriendRequest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.Friends.SendRequest(c.Request.Context(), userID, targetID); err != nil {
		writeServiceError(c, "friend_request", err)
		return
	}

	countOp("friend_request", "ok")
	c.JSON(http.StatusCreated, gin.H{"status": "request_sent"})
}

// AcceptFriendRequest converts a pending request into a mutual
// friendship.
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	requesterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.Friends.Accept(c.Request.Context(), userID, requesterID); err != nil {
		writeServiceError(c, "friend_accept", err)
		return
	}

	countOp("friend_accept", "ok")
	c.JSON(http.StatusOK, gin.H{"status": "friends"})
}

// DeclineFriendRequest drops a pending request without creating a
// friendship.
func (h *Handler) DeclineFriendRequest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	requesterID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.Friends.Decline(c.Request.Context(), userID, requesterID); err != nil {
		writeServiceError(c, "friend_decline", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}

package domain

import "time"

// FriendRequest is a directional pending request stored on the
// recipient. Acceptance turns it into a symmetric friendship.
type FriendRequest struct {
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	RequesterID int64     `db:"requester_id" json:"requester_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type FriendshipStatus string

const (
	StatusFriends         FriendshipStatus = "friends"
	StatusRequestSent     FriendshipStatus = "request_sent"
	StatusRequestIncoming FriendshipStatus = "request_incoming"
	StatusNone            FriendshipStatus = "none"
)

// ResolveFriendshipStatus picks the status shown to the viewer, with
// precedence friends > sent-by-viewer > pending-from-target > none.
func ResolveFriendshipStatus(areFriends, viewerSentRequest, targetSentRequest bool) FriendshipStatus {
	switch {
	case areFriends:
		return StatusFriends
	case viewerSentRequest:
		return StatusRequestSent
	case targetSentRequest:
		return StatusRequestIncoming
	default:
		return StatusNone
	}
}

// UserSummary is the minimal identity used in friend lists.
type UserSummary struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// FriendsOverview groups everything the friends screen needs.
type FriendsOverview struct {
	Friends  []UserSummary   `json:"friends"`
	Incoming []FriendRequest `json:"incoming_requests"`
	Outgoing []FriendRequest `json:"outgoing_requests"`
}

package domain

import "time"

// SystemCounterpart is the reserved conversation key for messages sent
// by the platform itself (reward notifications and announcements).
const SystemCounterpart = "system"

// Reward is a coin grant attached to a system message. It transitions
// claimed=false -> claimed=true exactly once; a claimed reward is never
// credited again.
type Reward struct {
	Amount  int64 `json:"amount"`
	Claimed bool  `json:"claimed"`
}

// DirectMessage is one participant's copy of an inbox message. Each
// message is stored twice, once per participant, sharing MsgID and
// timestamp but with independently mutable read flags.
type DirectMessage struct {
	ID          int64     `db:"id" json:"-"`
	OwnerID     int64     `db:"owner_id" json:"-"`
	Counterpart string    `db:"counterpart" json:"-"`
	MsgID       string    `db:"msg_id" json:"id"`
	Sender      string    `db:"sender" json:"from_user_id"`
	Body        string    `db:"body" json:"text"`
	Read        bool      `db:"read" json:"is_read"`
	Reward      *Reward   `json:"reward,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"timestamp"`
}

// Conversation is the ordered message log one user holds against a
// counterpart (a user id rendered as string, or "system").
type Conversation struct {
	Counterpart string          `json:"counterpart"`
	Messages    []DirectMessage `json:"messages"`
}

// UnreadCount counts messages the owner has not read yet.
func (c *Conversation) UnreadCount() int {
	n := 0
	for _, m := range c.Messages {
		if !m.Read {
			n++
		}
	}
	return n
}

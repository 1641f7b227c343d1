package domain

import "time"

// Transaction is one journaled coin movement on a single user's
// balance. Amount is signed: debits negative, credits positive.
type Transaction struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	Type      string         `db:"type" json:"type"`
	Amount    int64          `db:"amount" json:"amount"`
	Meta      map[string]any `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

const (
	TxInitialGrant = "initial_grant"
	TxMonthlyGrant = "monthly_grant"
	TxCreateRoom   = "create_room"
	TxJoinRoom     = "join_room"
	TxRewardClaim  = "reward_claim"
	TxRatingReward = "rating_reward"
)

package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"sportmeet/backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository stores the dual-copy inbox: every direct
// message exists once per participant, sharing msg_id and timestamp but
// with independently mutable read flags.
type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// InsertCopyTx writes one participant's copy of a message.
func (r *ConversationRepository) InsertCopyTx(ctx context.Context, tx pgx.Tx, m *domain.DirectMessage) error {
	var rewardAmount *int64
	rewardClaimed := false
	if m.Reward != nil {
		rewardAmount = &m.Reward.Amount
		rewardClaimed = m.Reward.Claimed
	}

	return tx.QueryRow(ctx,
		`INSERT INTO inbox_messages (owner_id, counterpart, msg_id, sender, body, read, reward_amount, reward_claimed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		m.OwnerID, m.Counterpart, m.MsgID, m.Sender, m.Body, m.Read, rewardAmount, rewardClaimed, m.CreatedAt,
	).Scan(&m.ID)
}

// GetConversation returns the owner's copy of one conversation in send
// order. A counterpart with no messages yields an empty conversation.
func (r *ConversationRepository) GetConversation(ctx context.Context, ownerID int64, counterpart string) (*domain.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, counterpart, msg_id, sender, body, read, reward_amount, reward_claimed, created_at
		 FROM inbox_messages
		 WHERE owner_id = $1 AND counterpart = $2
		 ORDER BY created_at, id`,
		ownerID, counterpart,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convo := &domain.Conversation{Counterpart: counterpart}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		convo.Messages = append(convo.Messages, *m)
	}
	return convo, rows.Err()
}

// ListConversations returns every conversation the owner holds, newest
// activity first.
func (r *ConversationRepository) ListConversations(ctx context.Context, ownerID int64) ([]*domain.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, counterpart, msg_id, sender, body, read, reward_amount, reward_claimed, created_at
		 FROM inbox_messages
		 WHERE owner_id = $1
		 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCounterpart := make(map[string]*domain.Conversation)
	var order []string
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		convo, ok := byCounterpart[m.Counterpart]
		if !ok {
			convo = &domain.Conversation{Counterpart: m.Counterpart}
			byCounterpart[m.Counterpart] = convo
			order = append(order, m.Counterpart)
		}
		convo.Messages = append(convo.Messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*domain.Conversation, 0, len(order))
	for _, key := range order {
		result = append(result, byCounterpart[key])
	}
	// Messages are chronological within a thread; threads themselves
	// surface by latest message.
	sort.SliceStable(result, func(i, j int) bool {
		a := result[i].Messages[len(result[i].Messages)-1]
		b := result[j].Messages[len(result[j].Messages)-1]
		return a.CreatedAt.After(b.CreatedAt)
	})
	return result, nil
}

// MarkConversationRead flips read on every message in the owner's copy.
// The counterpart's copy is untouched.
func (r *ConversationRepository) MarkConversationRead(ctx context.Context, ownerID int64, counterpart string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE inbox_messages SET read = true
		 WHERE owner_id = $1 AND counterpart = $2 AND read = false`,
		ownerID, counterpart,
	)
	return err
}

// ClaimRewardTx flips an unclaimed reward to claimed (and the message
// to read) in one conditional update; the amount comes back only when
// this call performed the transition. pgx.ErrNoRows means the reward is
// missing or already claimed; callers disambiguate with
// FindSystemMessage.
func (r *ConversationRepository) ClaimRewardTx(ctx context.Context, tx pgx.Tx, ownerID int64, msgID string) (int64, error) {
	var amount int64
	err := tx.QueryRow(ctx,
		`UPDATE inbox_messages
		 SET reward_claimed = true, read = true
		 WHERE owner_id = $1 AND counterpart = $2 AND msg_id = $3
		   AND reward_amount IS NOT NULL AND reward_claimed = false
		 RETURNING reward_amount`,
		ownerID, domain.SystemCounterpart, msgID,
	).Scan(&amount)
	return amount, err
}

// FindSystemMessage fetches the owner's copy of one system message.
func (r *ConversationRepository) FindSystemMessage(ctx context.Context, ownerID int64, msgID string) (*domain.DirectMessage, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, owner_id, counterpart, msg_id, sender, body, read, reward_amount, reward_claimed, created_at
		 FROM inbox_messages
		 WHERE owner_id = $1 AND counterpart = $2 AND msg_id = $3`,
		ownerID, domain.SystemCounterpart, msgID,
	)
	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.DirectMessage, error) {
	var (
		m             domain.DirectMessage
		rewardAmount  *int64
		rewardClaimed bool
		createdAt     time.Time
	)
	if err := row.Scan(
		&m.ID, &m.OwnerID, &m.Counterpart, &m.MsgID, &m.Sender, &m.Body,
		&m.Read, &rewardAmount, &rewardClaimed, &createdAt,
	); err != nil {
		return nil, err
	}
	m.CreatedAt = createdAt
	if rewardAmount != nil {
		m.Reward = &domain.Reward{Amount: *rewardAmount, Claimed: rewardClaimed}
	}
	return &m, nil
}

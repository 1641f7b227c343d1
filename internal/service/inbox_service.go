package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAlreadyClaimed = errors.New("reward already claimed")
	ErrRewardNotFound = errors.New("reward not found")
	ErrSelfMessage    = errors.New("cannot message yourself")
)

// InboxService maintains per-user conversation copies and the
// claim-once reward mechanism on system messages.
type InboxService struct {
	db            *pgxpool.Pool
	conversations *repository.ConversationRepository
	users         *repository.UserRepository
	ledger        *LedgerService
}

func NewInboxService(db *pgxpool.Pool, ledger *LedgerService) *InboxService {
	return &InboxService{
		db:            db,
		conversations: repository.NewConversationRepository(db),
		users:         repository.NewUserRepository(db),
		ledger:        ledger,
	}
}

// SendDirectMessage writes both copies of the message in one
// transaction: the sender's copy arrives read, the recipient's unread.
// Conversations come into existence with their first message.
func (s *InboxService) SendDirectMessage(ctx context.Context, fromID, toID int64, text string) (*domain.DirectMessage, error) {
	if fromID == toID {
		return nil, ErrSelfMessage
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrValidation)
	}
	for _, id := range []int64{fromID, toID} {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUserNotFound
		}
	}

	msgID := uuid.NewString()
	now := time.Now()
	sender := strconv.FormatInt(fromID, 10)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	senderCopy := &domain.DirectMessage{
		OwnerID:     fromID,
		Counterpart: strconv.FormatInt(toID, 10),
		MsgID:       msgID,
		Sender:      sender,
		Body:        text,
		Read:        true,
		CreatedAt:   now,
	}
	if err := s.conversations.InsertCopyTx(ctx, tx, senderCopy); err != nil {
		return nil, err
	}

	recipientCopy := &domain.DirectMessage{
		OwnerID:     toID,
		Counterpart: sender,
		MsgID:       msgID,
		Sender:      sender,
		Body:        text,
		Read:        false,
		CreatedAt:   now,
	}
	if err := s.conversations.InsertCopyTx(ctx, tx, recipientCopy); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return senderCopy, nil
}

// SendSystemReward drops a system message carrying an unclaimed reward
// into the user's system conversation.
func (s *InboxService) SendSystemReward(ctx context.Context, toID int64, text string, amount int64) (*domain.DirectMessage, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	exists, err := s.users.Exists(ctx, toID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	msg := &domain.DirectMessage{
		OwnerID:     toID,
		Counterpart: domain.SystemCounterpart,
		MsgID:       uuid.NewString(),
		Sender:      domain.SystemCounterpart,
		Body:        text,
		Read:        false,
		Reward:      &domain.Reward{Amount: amount},
		CreatedAt:   time.Now(),
	}
	if err := s.conversations.InsertCopyTx(ctx, tx, msg); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return msg, nil
}

// ClaimReward flips the reward to claimed, marks the message read and
// credits the ledger in one transaction, so the credit happens exactly
// once no matter how often or how concurrently it is called.
func (s *InboxService) ClaimReward(ctx context.Context, userID int64, msgID string) (amount, newBalance int64, err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	amount, err = s.conversations.ClaimRewardTx(ctx, tx, userID, msgID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, err
		}
		// No transition happened: tell the caller whether the reward
		// was already claimed or never existed.
		msg, ferr := s.conversations.FindSystemMessage(ctx, userID, msgID)
		if ferr != nil {
			return 0, 0, ferr
		}
		if msg == nil || msg.Reward == nil {
			return 0, 0, ErrRewardNotFound
		}
		return 0, 0, ErrAlreadyClaimed
	}

	newBalance, err = s.ledger.CreditTx(ctx, tx, userID, amount, domain.TxRewardClaim,
		map[string]any{"msg_id": msgID})
	if err != nil {
		return 0, 0, err
	}

	return amount, newBalance, tx.Commit(ctx)
}

// MarkConversationRead marks every message in the user's copy read. The
// counterpart's copy is not touched.
func (s *InboxService) MarkConversationRead(ctx context.Context, userID int64, counterpart string) error {
	return s.conversations.MarkConversationRead(ctx, userID, counterpart)
}

// ListConversations returns the user's inbox.
func (s *InboxService) ListConversations(ctx context.Context, userID int64) ([]*domain.Conversation, error) {
	return s.conversations.ListConversations(ctx, userID)
}

// GetConversation returns one conversation by counterpart key.
func (s *InboxService) GetConversation(ctx context.Context, userID int64, counterpart string) (*domain.Conversation, error) {
	return s.conversations.GetConversation(ctx, userID, counterpart)
}

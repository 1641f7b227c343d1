package service

import (
	"context"
	"errors"
	"fmt"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRequestPending  = errors.New("friend request already pending")
	ErrRequestNotFound = errors.New("friend request not found")
	ErrAlreadyFriends  = errors.New("already friends")
)

// FriendService maintains the request graph and the symmetric friend
// sets.
type FriendService struct {
	db      *pgxpool.Pool
	friends *repository.FriendRepository
	users   *repository.UserRepository
}

func NewFriendService(db *pgxpool.Pool) *FriendService {
	return &FriendService{
		db:      db,
		friends: repository.NewFriendRepository(db),
		users:   repository.NewUserRepository(db),
	}
}

// SendRequest records a pending request on the recipient. A duplicate
// pending request from the same sender is rejected rather than stacked.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toID int64) error {
	if fromID == toID {
		return fmt.Errorf("%w: cannot befriend yourself", domain.ErrValidation)
	}
	exists, err := s.users.Exists(ctx, toID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	friends, err := s.friends.AreFriends(ctx, fromID, toID)
	if err != nil {
		return err
	}
	if friends {
		return ErrAlreadyFriends
	}

	inserted, err := s.friends.InsertRequest(ctx, toID, fromID)
	if err != nil {
		return err
	}
	if !inserted {
		return ErrRequestPending
	}
	return nil
}

// Accept removes the pending request and writes both friendship rows in
// one transaction so the relation is symmetric the moment it exists.
func (s *FriendService) Accept(ctx context.Context, userID, requesterID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	removed, err := s.friends.DeleteRequestTx(ctx, tx, userID, requesterID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrRequestNotFound
	}

	if err := s.friends.InsertFriendshipTx(ctx, tx, userID, requesterID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Decline removes the pending request without touching friend sets.
func (s *FriendService) Decline(ctx context.Context, userID, requesterID int64) error {
	removed, err := s.friends.DeleteRequest(ctx, userID, requesterID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrRequestNotFound
	}
	return nil
}

// Status resolves what the viewer may do about the target, with
// precedence friends > sent-by-viewer > pending-from-target > none.
func (s *FriendService) Status(ctx context.Context, viewerID, targetID int64) (domain.FriendshipStatus, error) {
	friends, err := s.friends.AreFriends(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	viewerSent, err := s.friends.HasPendingRequest(ctx, targetID, viewerID)
	if err != nil {
		return "", err
	}
	targetSent, err := s.friends.HasPendingRequest(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	return domain.ResolveFriendshipStatus(friends, viewerSent, targetSent), nil
}

// Overview returns friends plus pending requests in both directions.
func (s *FriendService) Overview(ctx context.Context, userID int64) (*domain.FriendsOverview, error) {
	friends, err := s.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.friends.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	outgoing, err := s.friends.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.FriendsOverview{
		Friends:  friends,
		Incoming: incoming,
		Outgoing: outgoing,
	}, nil
}

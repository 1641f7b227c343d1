package repository

import (
	"context"

	"sportmeet/backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FriendRepository struct {
	db *pgxpool.Pool
}

func NewFriendRepository(db *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{db: db}
}

// InsertRequest stores a pending request on the recipient. Returns
// false when an identical pending request already exists.
func (r *FriendRepository) InsertRequest(ctx context.Context, recipientID, requesterID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO friend_requests (recipient_id, requester_id)
		 VALUES ($1, $2)
		 ON CONFLICT (recipient_id, requester_id) DO NOTHING`,
		recipientID, requesterID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteRequestTx removes a pending request; false when none existed.
func (r *FriendRepository) DeleteRequestTx(ctx context.Context, tx pgx.Tx, recipientID, requesterID int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`DELETE FROM friend_requests WHERE recipient_id = $1 AND requester_id = $2`,
		recipientID, requesterID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FriendRepository) DeleteRequest(ctx context.Context, recipientID, requesterID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM friend_requests WHERE recipient_id = $1 AND requester_id = $2`,
		recipientID, requesterID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// InsertFriendshipTx writes both direction rows so friendship is
// symmetric the moment the transaction commits.
func (r *FriendRepository) InsertFriendshipTx(ctx context.Context, tx pgx.Tx, userID, friendID int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO friendships (user_id, friend_id)
		 VALUES ($1, $2), ($2, $1)
		 ON CONFLICT (user_id, friend_id) DO NOTHING`,
		userID, friendID,
	)
	return err
}

func (r *FriendRepository) AreFriends(ctx context.Context, userID, otherID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`,
		userID, otherID,
	).Scan(&exists)
	return exists, err
}

func (r *FriendRepository) HasPendingRequest(ctx context.Context, recipientID, requesterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM friend_requests WHERE recipient_id = $1 AND requester_id = $2)`,
		recipientID, requesterID,
	).Scan(&exists)
	return exists, err
}

func (r *FriendRepository) ListFriends(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name
		 FROM friendships f
		 JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id = $1
		 ORDER BY u.name, u.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []domain.UserSummary
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		friends = append(friends, s)
	}
	return friends, rows.Err()
}

// ListIncoming returns requests waiting on the user's decision.
func (r *FriendRepository) ListIncoming(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	return r.listRequests(ctx, `recipient_id`, userID)
}

// ListOutgoing returns requests the user has sent and which still wait.
func (r *FriendRepository) ListOutgoing(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	return r.listRequests(ctx, `requester_id`, userID)
}

func (r *FriendRepository) listRequests(ctx context.Context, column string, userID int64) ([]domain.FriendRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT recipient_id, requester_id, created_at
		 FROM friend_requests
		 WHERE `+column+` = $1
		 ORDER BY created_at, requester_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.FriendRequest
	for rows.Next() {
		var fr domain.FriendRequest
		if err := rows.Scan(&fr.RecipientID, &fr.RequesterID, &fr.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, fr)
	}
	return reqs, rows.Err()
}

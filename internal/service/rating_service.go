package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRoomNotClosed  = errors.New("room has not closed yet")
	ErrNotParticipant = errors.New("not a room participant")
)

// RatingEntry is one reviewer's assessment of one co-participant.
type RatingEntry struct {
	RatedUserID  int64  `json:"rated_user_id"`
	Intensity    int    `json:"intensity"`
	Friendliness int    `json:"friendliness"`
	Comment      string `json:"comment,omitempty"`
}

// RatingService records post-room ratings and computes the read-time
// reputation projection.
type RatingService struct {
	db             *pgxpool.Pool
	ratings        *repository.RatingRepository
	rooms          *repository.RoomRepository
	users          *repository.UserRepository
	ledger         *LedgerService
	coinsPerRating int64
}

func NewRatingService(db *pgxpool.Pool, ledger *LedgerService, coinsPerRating int64) *RatingService {
	return &RatingService{
		db:             db,
		ratings:        repository.NewRatingRepository(db),
		rooms:          repository.NewRoomRepository(db),
		users:          repository.NewUserRepository(db),
		ledger:         ledger,
		coinsPerRating: coinsPerRating,
	}
}

// SubmitRatings stores one batch of ratings for a closed room. Entries
// are applied one by one (partial application on a failing entry is
// acceptable); duplicates for the same (reviewer, ratee, room) are
// suppressed, not overwritten. The reviewer earns coins per entry that
// actually landed.
func (s *RatingService) SubmitRatings(ctx context.Context, roomID, reviewerID int64, entries []RatingEntry) (accepted int, err error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return 0, err
	}
	if !room.Closed(time.Now()) {
		return 0, ErrRoomNotClosed
	}
	if !room.HasPlayer(reviewerID) {
		return 0, ErrNotParticipant
	}

	for _, entry := range entries {
		if entry.RatedUserID == reviewerID {
			return accepted, fmt.Errorf("%w: cannot rate yourself", domain.ErrValidation)
		}
		if !room.HasPlayer(entry.RatedUserID) {
			return accepted, fmt.Errorf("%w: user %d is not in this room", domain.ErrValidation, entry.RatedUserID)
		}

		rating := &domain.Rating{
			RatedUserID:  entry.RatedUserID,
			RaterID:      reviewerID,
			RoomID:       roomID,
			Sport:        room.Sport,
			Intensity:    entry.Intensity,
			Friendliness: entry.Friendliness,
			Comment:      entry.Comment,
		}
		if !rating.Valid() {
			return accepted, fmt.Errorf("%w: scores must be between 1 and 5", domain.ErrValidation)
		}

		inserted, err := s.ratings.Insert(ctx, rating)
		if err != nil {
			return accepted, err
		}
		if inserted {
			accepted++
		}
	}

	if accepted > 0 && s.coinsPerRating > 0 {
		_, err = s.ledger.Credit(ctx, reviewerID, int64(accepted)*s.coinsPerRating,
			domain.TxRatingReward, map[string]any{"room_id": roomID})
		if err != nil {
			return accepted, err
		}
	}

	return accepted, nil
}

// View returns the target's reputation as the viewer is allowed to see
// it: full breakdown for the ratee themselves and for subscribed
// viewers, the bare aggregate for everyone else.
func (s *RatingService) View(ctx context.Context, viewerID, targetID int64) (*domain.RatingView, error) {
	summary, err := s.ratings.GetSummary(ctx, targetID)
	if err != nil {
		return nil, err
	}

	viewerSubscribed := false
	if viewerID != targetID {
		viewer, err := s.users.GetByID(ctx, viewerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		viewerSubscribed = viewer.SubscriptionTier == domain.TierSubscribed
	}

	view := summary.Project(viewerID == targetID, viewerSubscribed)
	return &view, nil
}

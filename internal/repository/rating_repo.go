package repository

import (
	"context"

	"sportmeet/backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingRepository struct {
	db *pgxpool.Pool
}

func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

// Insert stores one rating. Returns false when this reviewer already
// rated this participant for this room; the unique index suppresses
// the duplicate.
func (r *RatingRepository) Insert(ctx context.Context, rating *domain.Rating) (bool, error) {
	var comment *string
	if rating.Comment != "" {
		comment = &rating.Comment
	}

	tag, err := r.db.Exec(ctx,
		`INSERT INTO ratings (rated_user_id, rater_id, room_id, sport, intensity, friendliness, comment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (rater_id, rated_user_id, room_id) DO NOTHING`,
		rating.RatedUserID, rating.RaterID, rating.RoomID, rating.Sport,
		rating.Intensity, rating.Friendliness, comment,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetSummary assembles everything stored about one ratee: sport-scoped
// intensity lists, the flat friendliness list, and authored comments.
func (r *RatingRepository) GetSummary(ctx context.Context, ratedUserID int64) (*domain.RatingSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sport, intensity, friendliness, rater_id, COALESCE(comment, '')
		 FROM ratings
		 WHERE rated_user_id = $1
		 ORDER BY created_at, id`,
		ratedUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &domain.RatingSummary{Intensity: make(map[domain.Sport][]int)}
	for rows.Next() {
		var (
			sport        domain.Sport
			intensity    int
			friendliness int
			raterID      int64
			comment      string
		)
		if err := rows.Scan(&sport, &intensity, &friendliness, &raterID, &comment); err != nil {
			return nil, err
		}
		summary.Intensity[sport] = append(summary.Intensity[sport], intensity)
		summary.Friendliness = append(summary.Friendliness, friendliness)
		if comment != "" {
			summary.Comments = append(summary.Comments, domain.RatingComment{
				FromUserID: raterID,
				Text:       comment,
			})
		}
	}
	return summary, rows.Err()
}

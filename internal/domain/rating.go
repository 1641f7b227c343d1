package domain

import "time"

// Rating is one reviewer's assessment of one co-participant after a
// room has closed. Intensity is sport-scoped; friendliness is not.
type Rating struct {
	ID           int64     `db:"id" json:"id"`
	RatedUserID  int64     `db:"rated_user_id" json:"rated_user_id"`
	RaterID      int64     `db:"rater_id" json:"from_user_id"`
	RoomID       int64     `db:"room_id" json:"room_id"`
	Sport        Sport     `db:"sport" json:"sport"`
	Intensity    int       `db:"intensity" json:"intensity"`
	Friendliness int       `db:"friendliness" json:"friendliness"`
	Comment      string    `db:"comment" json:"comment,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (r *Rating) Valid() bool {
	return r.Intensity >= 1 && r.Intensity <= 5 &&
		r.Friendliness >= 1 && r.Friendliness <= 5
}

// RatingComment is a stored free-text remark, tagged with its author.
type RatingComment struct {
	FromUserID int64  `json:"from_user_id"`
	Text       string `json:"text"`
}

// RatingSummary is everything stored about a ratee: intensity scores
// per sport, a flat friendliness list, and authored comments.
type RatingSummary struct {
	Intensity    map[Sport][]int `json:"intensity"`
	Friendliness []int           `json:"friendliness"`
	Comments     []RatingComment `json:"comments"`
}

// Average is the arithmetic mean, 0 for an empty sequence.
func Average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

// OverallRating is the mean over the union of every intensity score and
// every friendliness score. Order of accumulation does not matter.
func (s *RatingSummary) OverallRating() float64 {
	var all []int
	for _, scores := range s.Intensity {
		all = append(all, scores...)
	}
	all = append(all, s.Friendliness...)
	return Average(all)
}

// RatingView is the read-time projection of a summary. The full
// breakdown and comments are reserved for the ratee and for subscribed
// viewers; everyone else sees only the aggregate. Storage always keeps
// the full data.
type RatingView struct {
	Overall      float64                    `json:"overall"`
	Detailed     bool                       `json:"detailed"`
	IntensityAvg map[Sport]float64          `json:"intensity_avg,omitempty"`
	Friendliness float64                    `json:"friendliness_avg,omitempty"`
	Comments     []RatingComment            `json:"comments,omitempty"`
}

// Project applies the visibility rule for the given viewer.
func (s *RatingSummary) Project(viewerIsRatee, viewerSubscribed bool) RatingView {
	view := RatingView{Overall: s.OverallRating()}
	if !viewerIsRatee && !viewerSubscribed {
		return view
	}

	view.Detailed = true
	view.Friendliness = Average(s.Friendliness)
	view.Comments = s.Comments
	if len(s.Intensity) > 0 {
		view.IntensityAvg = make(map[Sport]float64, len(s.Intensity))
		for sport, scores := range s.Intensity {
			view.IntensityAvg[sport] = Average(scores)
		}
	}
	return view
}

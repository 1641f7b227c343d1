package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 0.0, Average([]int{}))
	assert.Equal(t, 4.5, Average([]int{4, 5}))
	assert.Equal(t, 3.0, Average([]int{1, 3, 5}))
}

func TestOverallRating_UnionOfAllScores(t *testing.T) {
	s := RatingSummary{
		Intensity: map[Sport][]int{
			SportTennis:    {5, 3},
			SportBadminton: {4},
		},
		Friendliness: []int{2, 4},
	}

	// mean of {5,3,4,2,4}
	assert.InDelta(t, 3.6, s.OverallRating(), 1e-9)
}

func TestOverallRating_Empty(t *testing.T) {
	var s RatingSummary
	assert.Equal(t, 0.0, s.OverallRating())
}

func TestOverallRating_OrderIndependent(t *testing.T) {
	a := RatingSummary{
		Intensity:    map[Sport][]int{SportSoccer: {1, 5}, SportRunning: {3}},
		Friendliness: []int{2},
	}
	b := RatingSummary{
		Intensity:    map[Sport][]int{SportRunning: {3}, SportSoccer: {5, 1}},
		Friendliness: []int{2},
	}
	assert.Equal(t, a.OverallRating(), b.OverallRating())
}

func TestProject_AggregateOnlyForFreeViewer(t *testing.T) {
	s := RatingSummary{
		Intensity:    map[Sport][]int{SportTennis: {4}},
		Friendliness: []int{5},
		Comments:     []RatingComment{{FromUserID: 7, Text: "great serve"}},
	}

	view := s.Project(false, false)
	assert.False(t, view.Detailed)
	assert.InDelta(t, 4.5, view.Overall, 1e-9)
	assert.Nil(t, view.IntensityAvg)
	assert.Nil(t, view.Comments)
}

func TestProject_DetailForRateeAndSubscriber(t *testing.T) {
	s := RatingSummary{
		Intensity:    map[Sport][]int{SportTennis: {4, 2}},
		Friendliness: []int{5},
		Comments:     []RatingComment{{FromUserID: 7, Text: "great serve"}},
	}

	for _, view := range []RatingView{s.Project(true, false), s.Project(false, true)} {
		assert.True(t, view.Detailed)
		assert.Equal(t, 3.0, view.IntensityAvg[SportTennis])
		assert.Equal(t, 5.0, view.Friendliness)
		assert.Len(t, view.Comments, 1)
	}
}

func TestRatingValid(t *testing.T) {
	r := Rating{Intensity: 3, Friendliness: 5}
	assert.True(t, r.Valid())

	for _, bad := range []Rating{
		{Intensity: 0, Friendliness: 3},
		{Intensity: 3, Friendliness: 6},
		{Intensity: -1, Friendliness: 1},
	} {
		assert.False(t, bad.Valid(), "expected %+v to be invalid", bad)
	}
}

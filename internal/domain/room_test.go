package domain

import (
	"errors"
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func validSpec() RoomSpec {
	return RoomSpec{
		Sport:             SportBadminton,
		LocationName:      "Riverside Court 2",
		ScheduledAt:       time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
		MaxPlayers:        4,
		SkillLevel:        SkillIntermediate,
		GenderRequirement: GenderAny,
	}
}

func TestRoomSpecValidate(t *testing.T) {
	spec := validSpec()
	if err := spec.Validate(); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*RoomSpec)
	}{
		{"unknown sport", func(s *RoomSpec) { s.Sport = "curling" }},
		{"blank location", func(s *RoomSpec) { s.LocationName = "   " }},
		{"zero time", func(s *RoomSpec) { s.ScheduledAt = time.Time{} }},
		{"capacity below two", func(s *RoomSpec) { s.MaxPlayers = 1 }},
		{"unknown skill", func(s *RoomSpec) { s.SkillLevel = "pro" }},
		{"unknown gender requirement", func(s *RoomSpec) { s.GenderRequirement = "other" }},
		{"negative min age", func(s *RoomSpec) { s.MinAge = intPtr(-1) }},
		{"inverted age bounds", func(s *RoomSpec) { s.MinAge = intPtr(30); s.MaxAge = intPtr(20) }},
	}

	for _, tc := range cases {
		s := validSpec()
		tc.mutate(&s)
		err := s.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: error %v is not ErrValidation", tc.name, err)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		birth time.Time
		want  int
	}{
		{time.Date(2000, 8, 28, 0, 0, 0, 0, time.UTC), 26}, // birthday today
		{time.Date(2000, 8, 29, 0, 0, 0, 0, time.UTC), 25}, // birthday tomorrow
		{time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 26},
		{time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC), 25},
	}

	for _, tc := range cases {
		if got := Age(tc.birth, now); got != tc.want {
			t.Fatalf("Age(%s) = %d; want %d", tc.birth.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestEvaluateJoin_CheckOrder(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	const fee = 5

	room := &Room{
		ID:                1,
		HostID:            10,
		GenderRequirement: GenderOnlyFemale,
		MinAge:            intPtr(18),
		MaxPlayers:        2,
		Players: []RoomPlayer{
			{UserID: 10}, {UserID: 11},
		},
	}

	maleAdult := &User{ID: 20, Gender: GenderMale, BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	femaleMinor := &User{ID: 21, Gender: GenderFemale, BirthDate: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)}
	femaleAdult := &User{ID: 22, Gender: GenderFemale, BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}

	// Gender is checked before age: a male user of any age fails on gender.
	if got := EvaluateJoin(room, maleAdult, 100, fee, now); got != DeniedGender {
		t.Fatalf("male user: got %q, want %q", got, DeniedGender)
	}
	// A sixteen-year-old female fails on age.
	if got := EvaluateJoin(room, femaleMinor, 100, fee, now); got != DeniedAge {
		t.Fatalf("minor: got %q, want %q", got, DeniedAge)
	}
	// Coins are checked before capacity.
	if got := EvaluateJoin(room, femaleAdult, 2, fee, now); got != DeniedCoins {
		t.Fatalf("broke user: got %q, want %q", got, DeniedCoins)
	}
	// Full room beats already-joined.
	if got := EvaluateJoin(room, femaleAdult, 100, fee, now); got != DeniedFull {
		t.Fatalf("full room: got %q, want %q", got, DeniedFull)
	}
}

func TestEvaluateJoin_AlreadyJoinedAndAllowed(t *testing.T) {
	now := time.Now()
	room := &Room{
		ID:                1,
		HostID:            10,
		GenderRequirement: GenderAny,
		MaxPlayers:        4,
		Players:           []RoomPlayer{{UserID: 10}},
	}
	member := &User{ID: 10, Gender: GenderMale, BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	joiner := &User{ID: 20, Gender: GenderFemale, BirthDate: time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)}

	if got := EvaluateJoin(room, member, 100, 5, now); got != DeniedAlreadyIn {
		t.Fatalf("member rejoin: got %q, want %q", got, DeniedAlreadyIn)
	}
	if got := EvaluateJoin(room, joiner, 100, 5, now); got != JoinAllowed {
		t.Fatalf("eligible joiner: got %q, want allowed", got)
	}
}

func TestRoomClosed(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	past := &Room{ScheduledAt: now.Add(-time.Hour)}
	future := &Room{ScheduledAt: now.Add(time.Hour)}

	if !past.Closed(now) {
		t.Fatal("room past its scheduled time should be closed")
	}
	if future.Closed(now) {
		t.Fatal("upcoming room should not be closed")
	}
}

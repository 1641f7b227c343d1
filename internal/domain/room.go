package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type GenderRequirement string

const (
	GenderAny        GenderRequirement = "any"
	GenderOnlyMale   GenderRequirement = "male"
	GenderOnlyFemale GenderRequirement = "female"
)

var ErrValidation = errors.New("validation failed")

// RoomSpec is the caller-provided description of a room to create.
type RoomSpec struct {
	Sport             Sport             `json:"sport"`
	LocationName      string            `json:"location_name"`
	ScheduledAt       time.Time         `json:"scheduled_at"`
	MaxPlayers        int               `json:"max_players"`
	SkillLevel        SkillLevel        `json:"skill_level"`
	GenderRequirement GenderRequirement `json:"gender_requirement"`
	MinAge            *int              `json:"min_age,omitempty"`
	MaxAge            *int              `json:"max_age,omitempty"`
	Notes             string            `json:"notes,omitempty"`
}

// Validate rejects a malformed spec before anything is charged or stored.
func (s *RoomSpec) Validate() error {
	if !ValidSport(s.Sport) {
		return fmt.Errorf("%w: unknown sport %q", ErrValidation, s.Sport)
	}
	if strings.TrimSpace(s.LocationName) == "" {
		return fmt.Errorf("%w: location name is required", ErrValidation)
	}
	if s.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled time is required", ErrValidation)
	}
	if s.MaxPlayers < 2 {
		return fmt.Errorf("%w: max players must be at least 2", ErrValidation)
	}
	if !ValidSkillLevel(s.SkillLevel) {
		return fmt.Errorf("%w: unknown skill level %q", ErrValidation, s.SkillLevel)
	}
	switch s.GenderRequirement {
	case GenderAny, GenderOnlyMale, GenderOnlyFemale:
	default:
		return fmt.Errorf("%w: unknown gender requirement %q", ErrValidation, s.GenderRequirement)
	}
	if s.MinAge != nil && *s.MinAge < 0 {
		return fmt.Errorf("%w: min age must not be negative", ErrValidation)
	}
	if s.MinAge != nil && s.MaxAge != nil && *s.MinAge > *s.MaxAge {
		return fmt.Errorf("%w: min age exceeds max age", ErrValidation)
	}
	return nil
}

// Room is a scheduled activity instance. The host is always the first
// roster entry; rooms are never deleted and survive past their
// scheduled time as historical record.
type Room struct {
	ID                int64             `db:"id" json:"id"`
	HostID            int64             `db:"host_id" json:"host_id"`
	Sport             Sport             `db:"sport" json:"sport"`
	LocationName      string            `db:"location_name" json:"location_name"`
	ScheduledAt       time.Time         `db:"scheduled_at" json:"scheduled_at"`
	MaxPlayers        int               `db:"max_players" json:"max_players"`
	SkillLevel        SkillLevel        `db:"skill_level" json:"skill_level"`
	GenderRequirement GenderRequirement `db:"gender_requirement" json:"gender_requirement"`
	MinAge            *int              `db:"min_age" json:"min_age,omitempty"`
	MaxAge            *int              `db:"max_age" json:"max_age,omitempty"`
	Notes             string            `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`

	// Players ordered by join time, host first.
	Players []RoomPlayer `json:"players,omitempty"`
}

type RoomPlayer struct {
	UserID   int64     `db:"user_id" json:"user_id"`
	Name     string    `db:"name" json:"name"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// Closed reports whether the scheduled time has passed; ratings are
// only accepted for closed rooms.
func (r *Room) Closed(now time.Time) bool {
	return r.ScheduledAt.Before(now)
}

func (r *Room) HasPlayer(userID int64) bool {
	for _, p := range r.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ChatMessage is one entry in a room's chat log.
type ChatMessage struct {
	ID        int64     `db:"id" json:"id"`
	RoomID    int64     `db:"room_id" json:"room_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// JoinDenial is the first failing join precondition, checked in a fixed
// order so callers get deterministic refusal reasons.
type JoinDenial string

const (
	JoinAllowed       JoinDenial = ""
	DeniedGender      JoinDenial = "gender"
	DeniedAge         JoinDenial = "age"
	DeniedCoins       JoinDenial = "coins"
	DeniedFull        JoinDenial = "full"
	DeniedAlreadyIn   JoinDenial = "already_joined"
)

// EvaluateJoin applies the join rules: gender, then age, then coin
// sufficiency, then capacity, then membership.
func EvaluateJoin(room *Room, user *User, balance, joinFee int64, now time.Time) JoinDenial {
	if room.GenderRequirement != GenderAny && Gender(room.GenderRequirement) != user.Gender {
		return DeniedGender
	}
	age := Age(user.BirthDate, now)
	if room.MinAge != nil && age < *room.MinAge {
		return DeniedAge
	}
	if room.MaxAge != nil && age > *room.MaxAge {
		return DeniedAge
	}
	if balance < joinFee {
		return DeniedCoins
	}
	if len(room.Players) >= room.MaxPlayers {
		return DeniedFull
	}
	if room.HasPlayer(user.ID) {
		return DeniedAlreadyIn
	}
	return JoinAllowed
}

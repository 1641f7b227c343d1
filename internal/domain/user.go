package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierSubscribed SubscriptionTier = "subscribed"
)

type Sport string

const (
	SportBadminton  Sport = "badminton"
	SportBasketball Sport = "basketball"
	SportTennis     Sport = "tennis"
	SportSoccer     Sport = "soccer"
	SportVolleyball Sport = "volleyball"
	SportRunning    Sport = "running"
)

var AllSports = []Sport{
	SportBadminton, SportBasketball, SportTennis,
	SportSoccer, SportVolleyball, SportRunning,
}

func ValidSport(s Sport) bool {
	for _, known := range AllSports {
		if s == known {
			return true
		}
	}
	return false
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillNovice       SkillLevel = "novice"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillCompetitive  SkillLevel = "competitive"
)

func ValidSkillLevel(l SkillLevel) bool {
	switch l {
	case SkillBeginner, SkillNovice, SkillIntermediate, SkillAdvanced, SkillCompetitive:
		return true
	}
	return false
}

// User is the authoritative profile record. Coins never go negative;
// every debit is balance-checked before it mutates state.
type User struct {
	ID               int64                `db:"id" json:"id"`
	Name             string               `db:"name" json:"name"`
	Gender           Gender               `db:"gender" json:"gender"`
	BirthDate        time.Time            `db:"birth_date" json:"birth_date"`
	City             string               `db:"city" json:"city"`
	District         string               `db:"district" json:"district"`
	Coins            int64                `db:"coins" json:"coins"`
	SubscriptionTier SubscriptionTier     `db:"subscription_tier" json:"subscription_tier"`
	MonthlyLastReset time.Time            `db:"monthly_last_reset" json:"monthly_last_reset"`
	SkillLevels      map[Sport]SkillLevel `json:"skill_levels"`
	CreatedAt        time.Time            `db:"created_at" json:"created_at"`
}

// Age is whole years between birth date and now, decremented when the
// birthday has not yet occurred this year.
func Age(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}

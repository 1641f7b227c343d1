package repository

import (
	"context"
	"errors"
	"time"

	"sportmeet/backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with the given opening balance and records
// their skill levels. The id and timestamps come back from the insert.
func (r *UserRepository) Create(ctx context.Context, u *domain.User, initialCoins int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO users (name, gender, birth_date, city, district, coins, subscription_tier, monthly_last_reset)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 RETURNING id, coins, monthly_last_reset, created_at`,
		u.Name, u.Gender, u.BirthDate, u.City, u.District, initialCoins, u.SubscriptionTier,
	).Scan(&u.ID, &u.Coins, &u.MonthlyLastReset, &u.CreatedAt)
	if err != nil {
		return err
	}

	for sport, level := range u.SkillLevels {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_skills (user_id, sport, level) VALUES ($1, $2, $3)`,
			u.ID, sport, level,
		); err != nil {
			return err
		}
	}

	// The signup grant commits with the insert, so a user never exists
	// without its opening journal entry.
	if initialCoins > 0 {
		if _, err := tx.Exec(ctx,
			`INSERT INTO transactions (user_id, type, amount, meta) VALUES ($1, $2, $3, '{}')`,
			u.ID, domain.TxInitialGrant, initialCoins,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, gender, birth_date, COALESCE(city, ''), COALESCE(district, ''),
		        coins, subscription_tier, monthly_last_reset, created_at
		 FROM users
		 WHERE id = $1`,
		id,
	)

	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Name, &u.Gender, &u.BirthDate, &u.City, &u.District,
		&u.Coins, &u.SubscriptionTier, &u.MonthlyLastReset, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	skills, err := r.getSkills(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.SkillLevels = skills

	return &u, nil
}

func (r *UserRepository) getSkills(ctx context.Context, userID int64) (map[domain.Sport]domain.SkillLevel, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sport, level FROM user_skills WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make(map[domain.Sport]domain.SkillLevel)
	for rows.Next() {
		var sport domain.Sport
		var level domain.SkillLevel
		if err := rows.Scan(&sport, &level); err != nil {
			return nil, err
		}
		skills[sport] = level
	}
	return skills, rows.Err()
}

// ProfilePatch carries the mutable profile fields; nil means unchanged.
type ProfilePatch struct {
	Name             *string                                `json:"name,omitempty"`
	City             *string                                `json:"city,omitempty"`
	District         *string                                `json:"district,omitempty"`
	SubscriptionTier *domain.SubscriptionTier               `json:"subscription_tier,omitempty"`
	SkillLevels      map[domain.Sport]domain.SkillLevel     `json:"skill_levels,omitempty"`
}

// UpdateProfile applies a patch and replaces skill levels when given.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     city = COALESCE($3, city),
		     district = COALESCE($4, district),
		     subscription_tier = COALESCE($5, subscription_tier)
		 WHERE id = $1`,
		userID, patch.Name, patch.City, patch.District, patch.SubscriptionTier,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	if patch.SkillLevels != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for sport, level := range patch.SkillLevels {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_skills (user_id, sport, level) VALUES ($1, $2, $3)`,
				userID, sport, level,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// GetCoins returns a user's current balance.
func (r *UserRepository) GetCoins(ctx context.Context, userID int64) (int64, error) {
	var coins int64
	err := r.db.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1`, userID).Scan(&coins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return coins, err
}

// LockForUpdateTx locks the user row and returns balance and the
// monthly reset stamp; callers hold the lock until their tx ends.
func (r *UserRepository) LockForUpdateTx(ctx context.Context, tx pgx.Tx, userID int64) (coins int64, lastReset time.Time, err error) {
	err = tx.QueryRow(ctx,
		`SELECT coins, monthly_last_reset FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&coins, &lastReset)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrUserNotFound
	}
	return coins, lastReset, err
}

func (r *UserRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	return exists, err
}

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"
	"sportmeet/backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	testCreateFee = 5
	testJoinFee   = 5
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".sql" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

type userOpts struct {
	name      string
	gender    domain.Gender
	birthDate time.Time
	coins     int64
	tier      domain.SubscriptionTier
	skills    map[domain.Sport]domain.SkillLevel
}

func createUser(t *testing.T, db *pgxpool.Pool, opts userOpts) *domain.User {
	t.Helper()

	if opts.name == "" {
		opts.name = "player"
	}
	if opts.gender == "" {
		opts.gender = domain.GenderMale
	}
	if opts.birthDate.IsZero() {
		opts.birthDate = time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	if opts.tier == "" {
		opts.tier = domain.TierFree
	}

	u := &domain.User{
		Name:             opts.name,
		Gender:           opts.gender,
		BirthDate:        opts.birthDate,
		City:             "Seoul",
		District:         "Gangnam",
		SubscriptionTier: opts.tier,
		SkillLevels:      opts.skills,
	}

	repo := repository.NewUserRepository(db)
	if err := repo.Create(context.Background(), u, opts.coins); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func newRoomService(db *pgxpool.Pool) (*service.LedgerService, *service.RoomService) {
	ledger := service.NewLedgerService(db)
	return ledger, service.NewRoomService(db, ledger, testCreateFee, testJoinFee)
}

func openRoomSpec(sport domain.Sport) domain.RoomSpec {
	return domain.RoomSpec{
		Sport:             sport,
		LocationName:      "Gangnam Sports Center",
		ScheduledAt:       time.Now().Add(24 * time.Hour),
		MaxPlayers:        4,
		SkillLevel:        domain.SkillIntermediate,
		GenderRequirement: domain.GenderAny,
	}
}

package main

import (
	"context"
	"log"
	"time"

	"sportmeet/backend/internal/config"
	"sportmeet/backend/internal/db"
	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"
	"sportmeet/backend/internal/service"
)

// Seeds a pair of demo users, one open room and a claimable system
// reward, then prints tokens for manual testing.
func main() {
	cfg := config.Load()
	service.InitJWT()

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	ledger := service.NewLedgerService(pool)
	rooms := service.NewRoomService(pool, ledger, cfg.CreateRoomFee, cfg.JoinRoomFee)
	inbox := service.NewInboxService(pool, ledger)

	alice := &domain.User{
		Name:             "Alice",
		Gender:           domain.GenderFemale,
		BirthDate:        time.Date(1998, 4, 12, 0, 0, 0, 0, time.UTC),
		City:             "Seoul",
		District:         "Gangnam",
		SubscriptionTier: domain.TierSubscribed,
		SkillLevels: map[domain.Sport]domain.SkillLevel{
			domain.SportBadminton: domain.SkillIntermediate,
			domain.SportTennis:    domain.SkillNovice,
		},
	}
	bob := &domain.User{
		Name:             "Bob",
		Gender:           domain.GenderMale,
		BirthDate:        time.Date(1995, 11, 3, 0, 0, 0, 0, time.UTC),
		City:             "Seoul",
		District:         "Mapo",
		SubscriptionTier: domain.TierFree,
		SkillLevels: map[domain.Sport]domain.SkillLevel{
			domain.SportBadminton: domain.SkillAdvanced,
		},
	}

	for _, u := range []*domain.User{alice, bob} {
		if err := users.Create(ctx, u, cfg.InitialCoins); err != nil {
			log.Fatalf("create user %s: %v", u.Name, err)
		}
		log.Printf("user created id=%d name=%s coins=%d", u.ID, u.Name, cfg.InitialCoins)
	}

	room, err := rooms.Create(ctx, alice.ID, domain.RoomSpec{
		Sport:             domain.SportBadminton,
		LocationName:      "Gangnam Sports Center",
		ScheduledAt:       time.Now().Add(48 * time.Hour),
		MaxPlayers:        4,
		SkillLevel:        domain.SkillIntermediate,
		GenderRequirement: domain.GenderAny,
	})
	if err != nil {
		log.Fatalf("create room: %v", err)
	}
	log.Printf("room created id=%d host=%d", room.ID, room.HostID)

	if _, err := inbox.SendSystemReward(ctx, bob.ID, "Welcome bonus! Claim your coins.", 5); err != nil {
		log.Fatalf("send system reward: %v", err)
	}
	log.Printf("system reward queued for user=%d", bob.ID)

	for _, u := range []*domain.User{alice, bob} {
		token, err := service.GenerateJWT(u.ID)
		if err != nil {
			log.Fatalf("generate token: %v", err)
		}
		log.Printf("token %s: %s", u.Name, token)
	}
}

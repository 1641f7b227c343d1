package integration

import (
	"context"
	"errors"
	"testing"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/service"
)

const testCoinsPerRating = 2

func TestRatings_SubmitAfterClosure(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	host := createUser(t, db, userOpts{name: "host", coins: 20})
	peer := createUser(t, db, userOpts{name: "peer", coins: 20})
	outsider := createUser(t, db, userOpts{name: "outsider", coins: 20})

	ledger, rooms := newRoomService(db)
	ratings := service.NewRatingService(db, ledger, testCoinsPerRating)

	room, err := rooms.Create(ctx, host.ID, openRoomSpec(domain.SportBasketball))
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := rooms.Join(ctx, peer.ID, room.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	entries := []service.RatingEntry{
		{RatedUserID: peer.ID, Intensity: 4, Friendliness: 5, Comment: "great game"},
	}

	// Before the scheduled time ratings are refused.
	if _, err := ratings.SubmitRatings(ctx, room.ID, host.ID, entries); !errors.Is(err, service.ErrRoomNotClosed) {
		t.Fatalf("expected ErrRoomNotClosed, got %v", err)
	}

	// Close the room by moving its scheduled time into the past.
	if _, err := db.Exec(ctx,
		`UPDATE rooms SET scheduled_at = now() - interval '2 hours' WHERE id = $1`,
		room.ID,
	); err != nil {
		t.Fatalf("backdate room: %v", err)
	}

	// Outsiders cannot review a room they were not part of.
	if _, err := ratings.SubmitRatings(ctx, room.ID, outsider.ID, entries); !errors.Is(err, service.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}

	hostBalanceBefore, _ := ledger.GetBalance(ctx, host.ID)

	accepted, err := ratings.SubmitRatings(ctx, room.ID, host.ID, entries)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if accepted != 1 {
		t.Fatalf("expected 1 accepted rating, got %d", accepted)
	}

	// Reviewer earns the per-rating reward.
	hostBalance, _ := ledger.GetBalance(ctx, host.ID)
	if hostBalance != hostBalanceBefore+testCoinsPerRating {
		t.Fatalf("reviewer reward: got %d, want %d", hostBalance, hostBalanceBefore+testCoinsPerRating)
	}

	// A duplicate submission for the same ratee and room is suppressed
	// and earns nothing.
	accepted, err = ratings.SubmitRatings(ctx, room.ID, host.ID, entries)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if accepted != 0 {
		t.Fatalf("duplicate rating must be suppressed, accepted=%d", accepted)
	}
	hostBalanceAfter, _ := ledger.GetBalance(ctx, host.ID)
	if hostBalanceAfter != hostBalance {
		t.Fatalf("duplicate submission changed balance: %d", hostBalanceAfter)
	}
}

func TestRatings_ViewProjection(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	host := createUser(t, db, userOpts{name: "host", coins: 20})
	ratee := createUser(t, db, userOpts{name: "ratee", coins: 20})
	freeViewer := createUser(t, db, userOpts{name: "free", coins: 20})
	subViewer := createUser(t, db, userOpts{name: "sub", coins: 20, tier: domain.TierSubscribed})

	ledger, rooms := newRoomService(db)
	ratings := service.NewRatingService(db, ledger, testCoinsPerRating)

	room, err := rooms.Create(ctx, host.ID, openRoomSpec(domain.SportVolleyball))
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := rooms.Join(ctx, ratee.ID, room.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := db.Exec(ctx,
		`UPDATE rooms SET scheduled_at = now() - interval '2 hours' WHERE id = $1`,
		room.ID,
	); err != nil {
		t.Fatalf("backdate room: %v", err)
	}

	if _, err := ratings.SubmitRatings(ctx, room.ID, host.ID, []service.RatingEntry{
		{RatedUserID: ratee.ID, Intensity: 4, Friendliness: 2, Comment: "intense"},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Free-tier stranger sees only the overall number.
	view, err := ratings.View(ctx, freeViewer.ID, ratee.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Detailed {
		t.Fatal("free viewer must not see detail")
	}
	if view.Overall != 3 {
		t.Fatalf("overall: got %v, want 3", view.Overall)
	}

	// The ratee always sees their own breakdown.
	view, err = ratings.View(ctx, ratee.ID, ratee.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !view.Detailed {
		t.Fatal("ratee must see detail")
	}
	if got := view.IntensityAvg[domain.SportVolleyball]; got != 4 {
		t.Fatalf("intensity avg: got %v, want 4", got)
	}
	if len(view.Comments) != 1 || view.Comments[0].Text != "intense" {
		t.Fatalf("unexpected comments: %+v", view.Comments)
	}

	// Subscribers see detail on anyone.
	view, err = ratings.View(ctx, subViewer.ID, ratee.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !view.Detailed {
		t.Fatal("subscriber must see detail")
	}

	// An unrated user reads as zero.
	view, err = ratings.View(ctx, freeViewer.ID, host.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Overall != 0 {
		t.Fatalf("unrated overall must be 0, got %v", view.Overall)
	}
}

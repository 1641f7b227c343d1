package integration

import (
	"context"
	"errors"
	"testing"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/service"
)

func TestLedger_DebitCredit(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	user := createUser(t, db, userOpts{coins: 20})
	ledger := service.NewLedgerService(db)

	newBalance, err := ledger.Debit(ctx, user.ID, 5, domain.TxCreateRoom, nil)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if newBalance != 15 {
		t.Fatalf("expected balance 15, got %d", newBalance)
	}

	newBalance, err = ledger.Credit(ctx, user.ID, 2, domain.TxRatingReward, nil)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if newBalance != 17 {
		t.Fatalf("expected balance 17, got %d", newBalance)
	}

	txs, err := ledger.GetTransactionHistory(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	// Signup grant plus the two movements, newest first.
	if len(txs) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(txs))
	}
	for i, want := range []string{domain.TxRatingReward, domain.TxCreateRoom, domain.TxInitialGrant} {
		if txs[i].Type != want {
			t.Fatalf("journal[%d]: got %s, want %s", i, txs[i].Type, want)
		}
	}
}

// Registration writes the signup grant journal row in the same
// transaction as the user insert.
func TestLedger_SignupGrantJournaled(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	user := createUser(t, db, userOpts{coins: 20})
	ledger := service.NewLedgerService(db)

	txs, err := ledger.GetTransactionHistory(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != domain.TxInitialGrant || txs[0].Amount != 20 {
		t.Fatalf("expected a single initial_grant entry of 20, got %+v", txs)
	}

	// A zero-coin insert journals nothing.
	broke := createUser(t, db, userOpts{coins: 0})
	txs, err = ledger.GetTransactionHistory(ctx, broke.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty journal for zero grant, got %d entries", len(txs))
	}
}

func TestLedger_DebitNeverOverdraws(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	user := createUser(t, db, userOpts{coins: 3})
	ledger := service.NewLedgerService(db)

	_, err := ledger.Debit(ctx, user.ID, 5, domain.TxJoinRoom, nil)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, err := ledger.GetBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 3 {
		t.Fatalf("failed debit must not change balance, got %d", balance)
	}

	// No journal entry beyond the signup grant.
	txs, err := ledger.GetTransactionHistory(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != domain.TxInitialGrant {
		t.Fatalf("failed debit must not journal, got %+v", txs)
	}
}

func TestLedger_DebitUnknownUser(t *testing.T) {
	db := setupDB(t)
	ledger := service.NewLedgerService(db)

	_, err := ledger.Debit(context.Background(), -777, 5, domain.TxJoinRoom, nil)
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLedger_MonthlyGrantOncePerMonth(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	user := createUser(t, db, userOpts{coins: 20})
	ledger := service.NewLedgerService(db)

	// The signup grant covers the signup month; pretend the user
	// registered a month ago.
	if _, err := db.Exec(ctx,
		`UPDATE users SET monthly_last_reset = now() - interval '40 days' WHERE id = $1`,
		user.ID,
	); err != nil {
		t.Fatalf("backdate reset stamp: %v", err)
	}

	granted, err := ledger.GrantMonthlyCoins(ctx, user.ID, 20)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !granted {
		t.Fatal("expected first grant of the month to apply")
	}

	balance, err := ledger.GetBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 40 {
		t.Fatalf("expected 40 after grant, got %d", balance)
	}

	// Second call in the same month is a no-op.
	granted, err = ledger.GrantMonthlyCoins(ctx, user.ID, 20)
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if granted {
		t.Fatal("monthly grant must not apply twice in one month")
	}

	balance, _ = ledger.GetBalance(ctx, user.ID)
	if balance != 40 {
		t.Fatalf("balance changed on repeated grant, got %d", balance)
	}
}

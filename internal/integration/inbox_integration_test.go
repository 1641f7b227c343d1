package integration

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/service"
)

func TestInbox_DualCopyConversation(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	alice := createUser(t, db, userOpts{name: "alice", coins: 20})
	bob := createUser(t, db, userOpts{name: "bob", coins: 20})

	ledger := service.NewLedgerService(db)
	inbox := service.NewInboxService(db, ledger)

	if _, err := inbox.SendDirectMessage(ctx, alice.ID, bob.ID, "badminton tomorrow?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	bobConvs, err := inbox.ListConversations(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bobConvs) != 1 {
		t.Fatalf("expected 1 conversation for recipient, got %d", len(bobConvs))
	}
	if got := bobConvs[0].UnreadCount(); got != 1 {
		t.Fatalf("recipient unread count: got %d, want 1", got)
	}

	// Sender's copy is born read.
	aliceConvs, err := inbox.ListConversations(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(aliceConvs) != 1 || aliceConvs[0].UnreadCount() != 0 {
		t.Fatalf("sender copy must start read, got %+v", aliceConvs)
	}

	// Reading is one-sided: bob's flag flips, alice's copy untouched.
	bobCounterpart := bobConvs[0].Counterpart
	if err := inbox.MarkConversationRead(ctx, bob.ID, bobCounterpart); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	conv, err := inbox.GetConversation(ctx, bob.ID, bobCounterpart)
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if conv.UnreadCount() != 0 {
		t.Fatal("expected conversation read after marking")
	}
}

// Threads surface by latest activity, newest conversation first.
func TestInbox_ConversationsOrderedByLatestActivity(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	alice := createUser(t, db, userOpts{name: "alice", coins: 20})
	bob := createUser(t, db, userOpts{name: "bob", coins: 20})
	carol := createUser(t, db, userOpts{name: "carol", coins: 20})

	inbox := service.NewInboxService(db, service.NewLedgerService(db))

	if _, err := inbox.SendDirectMessage(ctx, alice.ID, bob.ID, "first thread"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := inbox.SendDirectMessage(ctx, alice.ID, carol.ID, "second thread"); err != nil {
		t.Fatalf("send: %v", err)
	}

	convs, err := inbox.ListConversations(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].Counterpart != strconv.FormatInt(carol.ID, 10) {
		t.Fatalf("expected carol thread first, got %q", convs[0].Counterpart)
	}

	// New activity in the older thread bumps it to the top.
	if _, err := inbox.SendDirectMessage(ctx, alice.ID, bob.ID, "bump"); err != nil {
		t.Fatalf("send: %v", err)
	}

	convs, err = inbox.ListConversations(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if convs[0].Counterpart != strconv.FormatInt(bob.ID, 10) {
		t.Fatalf("expected bob thread first after bump, got %q", convs[0].Counterpart)
	}
	if len(convs[0].Messages) != 2 || convs[0].Messages[0].Body != "first thread" {
		t.Fatalf("messages within a thread must stay chronological, got %+v", convs[0].Messages)
	}
}

func TestInbox_SelfMessageRejected(t *testing.T) {
	db := setupDB(t)

	alice := createUser(t, db, userOpts{name: "alice", coins: 20})
	inbox := service.NewInboxService(db, service.NewLedgerService(db))

	_, err := inbox.SendDirectMessage(context.Background(), alice.ID, alice.ID, "hi me")
	if !errors.Is(err, service.ErrSelfMessage) {
		t.Fatalf("expected ErrSelfMessage, got %v", err)
	}
}

func TestInbox_ClaimRewardExactlyOnce(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	user := createUser(t, db, userOpts{name: "claimer", coins: 20})

	ledger := service.NewLedgerService(db)
	inbox := service.NewInboxService(db, ledger)

	msg, err := inbox.SendSystemReward(ctx, user.ID, "Welcome bonus", 7)
	if err != nil {
		t.Fatalf("send reward: %v", err)
	}

	amount, newBalance, err := inbox.ClaimReward(ctx, user.ID, msg.MsgID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if amount != 7 || newBalance != 27 {
		t.Fatalf("claim result: amount=%d balance=%d", amount, newBalance)
	}

	// Second claim on the same message must not credit again.
	_, _, err = inbox.ClaimReward(ctx, user.ID, msg.MsgID)
	if !errors.Is(err, service.ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}

	balance, err := ledger.GetBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 27 {
		t.Fatalf("repeated claim changed the balance: %d", balance)
	}

	// Journal carries exactly one claim entry.
	txs, err := ledger.GetTransactionHistory(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	claims := 0
	for _, tx := range txs {
		if tx.Type == domain.TxRewardClaim {
			claims++
		}
	}
	if claims != 1 {
		t.Fatalf("expected exactly one claim journal entry, got %d", claims)
	}
}

func TestInbox_ClaimUnknownMessage(t *testing.T) {
	db := setupDB(t)

	user := createUser(t, db, userOpts{name: "claimer", coins: 0})
	inbox := service.NewInboxService(db, service.NewLedgerService(db))

	_, _, err := inbox.ClaimReward(context.Background(), user.ID, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, service.ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound, got %v", err)
	}
}

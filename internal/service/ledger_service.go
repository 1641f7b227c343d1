package service

import (
	"context"
	"errors"
	"time"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// LedgerService owns every balance mutation. Debits are
// balance-checked under a row lock and journaled in the same
// transaction; a debit that would go negative changes nothing.
type LedgerService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// GetBalance returns the user's current coin balance.
func (s *LedgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Debit subtracts amount from the user's balance in its own transaction.
func (s *LedgerService) Debit(ctx context.Context, userID, amount int64, txType string, meta map[string]any) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err = s.DebitTx(ctx, tx, userID, amount, txType, meta)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit(ctx)
}

// Credit adds amount to the user's balance in its own transaction.
func (s *LedgerService) Credit(ctx context.Context, userID, amount int64, txType string, meta map[string]any) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err = s.CreditTx(ctx, tx, userID, amount, txType, meta)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit(ctx)
}

// DebitTx subtracts within the caller's transaction. The guarded UPDATE
// both checks and deducts; zero rows means missing user or short funds.
func (s *LedgerService) DebitTx(ctx context.Context, tx pgx.Tx, userID, amount int64, txType string, meta map[string]any) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET coins = coins - $1 WHERE id = $2 AND coins >= $1 RETURNING coins`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			_ = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
			if !exists {
				return 0, ErrUserNotFound
			}
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}

	err = s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: -amount,
		Meta:   meta,
	})
	return newBalance, err
}

// CreditTx adds within the caller's transaction.
func (s *LedgerService) CreditTx(ctx context.Context, tx pgx.Tx, userID, amount int64, txType string, meta map[string]any) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET coins = coins + $1 WHERE id = $2 RETURNING coins`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	err = s.transactionRepo.CreateWithTx(ctx, tx, &domain.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Meta:   meta,
	})
	return newBalance, err
}

// GrantMonthlyCoins credits the monthly allowance once per calendar
// month, applied lazily when the profile is read. Returns whether a
// grant happened this call.
func (s *LedgerService) GrantMonthlyCoins(ctx context.Context, userID, amount int64) (granted bool, err error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lastReset time.Time
	err = tx.QueryRow(ctx,
		`SELECT monthly_last_reset FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&lastReset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	now := time.Now()
	if lastReset.Year() == now.Year() && lastReset.Month() == now.Month() {
		return false, nil
	}

	if _, err = s.CreditTx(ctx, tx, userID, amount, domain.TxMonthlyGrant, nil); err != nil {
		return false, err
	}
	if _, err = tx.Exec(ctx,
		`UPDATE users SET monthly_last_reset = $2 WHERE id = $1`, userID, now,
	); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

// GetTransactionHistory returns the user's ledger journal.
func (s *LedgerService) GetTransactionHistory(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByUserID(ctx, userID, limit)
}

package wallet

import (
	"context"
	"math"

	"blackjack-casino/internal/ledger"
	"blackjack-casino/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Balance is the unlocked display read; it reflects the latest committed
// unit of work.
func (s *Service) Balance(ctx context.Context, userID string) (*store.Wallet, error) {
	return s.store.GetWalletByUserID(ctx, userID)
}

// Deposit credits the wallet unconditionally. The only precondition is a
// positive finite amount.
func (s *Service) Deposit(ctx context.Context, userID string, amount float64) (*store.Wallet, error) {
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return nil, ErrInvalidAmount
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	txStore := s.store.WithTx(tx)

	w, err := txStore.GetWalletByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := ledger.New(txStore).CreditDeposit(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	w.Balance = balance
	return w, nil
}

// Entries lists the wallet's balance history, newest first.
func (s *Service) Entries(ctx context.Context, userID string, limit, offset int) ([]store.WalletEntry, error) {
	return s.store.ListWalletEntries(ctx, userID, limit, offset)
}

package ledger

import (
	"context"

	"blackjack-casino/internal/store"
)

// Ledger names the balance movements the services are allowed to make.
// Construct it over a transaction-bound store so each movement joins the
// caller's unit of work.
type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

func (l *Ledger) DebitBet(ctx context.Context, userID, gameID string, amount float64) (float64, error) {
	return l.Store.ApplyWalletDelta(ctx, userID, -amount, "bet_debit", "game", gameID)
}

func (l *Ledger) CreditPayout(ctx context.Context, userID, gameID string, amount float64) (float64, error) {
	return l.Store.ApplyWalletDelta(ctx, userID, amount, "payout_credit", "game", gameID)
}

func (l *Ledger) CreditDeposit(ctx context.Context, userID string, amount float64) (float64, error) {
	return l.Store.ApplyWalletDelta(ctx, userID, amount, "deposit_credit", "user", userID)
}

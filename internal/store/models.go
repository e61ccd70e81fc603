package store

import (
	"time"

	"blackjack-casino/internal/game"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Wallet struct {
	ID        string
	UserID    string
	Balance   float64
	UpdatedAt time.Time
}

type Game struct {
	ID         string
	UserID     string
	BetAmount  float64
	PlayerHand game.Hand
	DealerHand game.Hand
	Status     game.Status
	IsOver     bool
	CreatedAt  time.Time
	SettledAt  *time.Time
}

// WalletEntry is one row of the append-only balance history. Every balance
// mutation writes an entry inside the same unit of work.
type WalletEntry struct {
	ID        string
	UserID    string
	Type      string
	Amount    float64
	RefType   string
	RefID     string
	CreatedAt time.Time
}

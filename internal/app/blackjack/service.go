package blackjack

import (
	"context"
	"errors"
	"math"
	"time"

	"blackjack-casino/internal/game"
	"blackjack-casino/internal/ledger"
	"blackjack-casino/internal/store"

	"github.com/rs/zerolog/log"
)

// Service coordinates the rules engine, wallet ledger, and game store. Each
// entry point runs as one transaction: the wallet row lock taken at the top
// serializes every game mutation for that user, and all writes commit or
// roll back together.
type Service struct {
	store *store.Store
	draw  game.DrawFunc
}

func NewService(st *store.Store) *Service {
	return &Service{store: st, draw: game.CryptoDraw}
}

// Start debits the bet and deals the opening hands. A natural blackjack
// settles immediately, before the game row is first persisted.
func (s *Service) Start(ctx context.Context, userID string, bet float64) (*store.Game, error) {
	if bet <= 0 || math.IsInf(bet, 0) || math.IsNaN(bet) {
		return nil, ErrInvalidBet
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	txStore := s.store.WithTx(tx)

	wallet, err := txStore.GetWalletByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Re-checked under the wallet lock: a concurrent Start that committed
	// while we waited is visible here.
	if _, err := txStore.GetActiveGameByUserID(ctx, userID); err == nil {
		return nil, ErrGameInProgress
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if wallet.Balance < bet {
		return nil, ErrInsufficientFunds
	}

	g := &store.Game{
		ID:        store.NewID(),
		UserID:    userID,
		BetAmount: bet,
		Status:    game.StatusActive,
	}
	led := ledger.New(txStore)
	if _, err := led.DebitBet(ctx, userID, g.ID, bet); err != nil {
		return nil, err
	}
	g.PlayerHand, g.DealerHand = game.DealInitialHands(s.draw)

	if game.IsNaturalBlackjack(g.PlayerHand) {
		if err := settle(ctx, led, g, game.StatusBlackjack); err != nil {
			return nil, err
		}
	}
	if err := txStore.CreateGame(ctx, g); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", userID).Str("game_id", g.ID).Float64("bet", bet).
		Str("status", string(g.Status)).Msg("game started")
	return g, nil
}

// Hit appends one card to the player's hand and settles as a dealer win on
// bust.
func (s *Service) Hit(ctx context.Context, userID, gameID string) (*store.Game, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	txStore := s.store.WithTx(tx)

	if _, err := txStore.GetWalletByUserIDForUpdate(ctx, userID); err != nil {
		return nil, err
	}
	g, err := s.loadActiveGame(ctx, txStore, userID, gameID)
	if err != nil {
		return nil, err
	}

	g.PlayerHand = append(g.PlayerHand, s.draw())
	if game.Score(g.PlayerHand) > 21 {
		// Player bust is recorded as a dealer win; no payout.
		if err := settle(ctx, ledger.New(txStore), g, game.StatusDealerWin); err != nil {
			return nil, err
		}
	}
	if err := txStore.UpdateGame(ctx, g); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// Stand runs the dealer's turn and settles the game.
func (s *Service) Stand(ctx context.Context, userID, gameID string) (*store.Game, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	txStore := s.store.WithTx(tx)

	if _, err := txStore.GetWalletByUserIDForUpdate(ctx, userID); err != nil {
		return nil, err
	}
	g, err := s.loadActiveGame(ctx, txStore, userID, gameID)
	if err != nil {
		return nil, err
	}

	g.DealerHand = game.DealerPlay(g.DealerHand, s.draw)
	result := game.DetermineResult(g.PlayerHand, g.DealerHand)
	if err := settle(ctx, ledger.New(txStore), g, result); err != nil {
		return nil, err
	}
	if err := txStore.UpdateGame(ctx, g); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", userID).Str("game_id", g.ID).
		Str("status", string(g.Status)).Msg("game settled")
	return g, nil
}

// Game returns one of the user's games, settled or not.
func (s *Service) Game(ctx context.Context, userID, gameID string) (*store.Game, error) {
	g, err := s.store.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, store.ErrNotFound
	}
	return g, nil
}

// History lists the user's games, newest first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]store.Game, error) {
	return s.store.ListGamesByUserID(ctx, userID, limit, offset)
}

func (s *Service) loadActiveGame(ctx context.Context, txStore *store.Store, userID, gameID string) (*store.Game, error) {
	g, err := txStore.GetGameByID(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidGameState
	}
	if err != nil {
		return nil, err
	}
	if g.UserID != userID || g.IsOver {
		return nil, ErrInvalidGameState
	}
	return g, nil
}

// settle is the single place money changes hands on an outcome. It must run
// inside the open unit of work, holding the wallet lock, and only on a game
// that is not yet over.
func settle(ctx context.Context, led *ledger.Ledger, g *store.Game, result game.Status) error {
	g.Status = result
	g.IsOver = true
	now := time.Now().UTC()
	g.SettledAt = &now
	payout := g.BetAmount * game.PayoutMultiplier(result)
	if payout > 0 {
		if _, err := led.CreditPayout(ctx, g.UserID, g.ID, payout); err != nil {
			return err
		}
	}
	return nil
}

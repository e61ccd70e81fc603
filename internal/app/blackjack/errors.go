package blackjack

import "errors"

var (
	ErrInvalidBet        = errors.New("invalid_bet")
	ErrGameInProgress    = errors.New("game_in_progress")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrInvalidGameState  = errors.New("invalid_game_state")
)

package viewmodel

import (
	"blackjack-casino/internal/game"
	"blackjack-casino/internal/store"
)

// HiddenCard is the placeholder shown in place of the dealer's hole card
// while a game is still active.
const HiddenCard = "??"

type GameView struct {
	GameID      string   `json:"game_id"`
	PlayerHand  []string `json:"player_hand"`
	DealerHand  []string `json:"dealer_hand"`
	PlayerScore int      `json:"player_score"`
	DealerScore int      `json:"dealer_score"`
	Status      string   `json:"status"`
	IsOver      bool     `json:"is_over"`
	BetAmount   float64  `json:"bet_amount"`
}

// BuildGameView projects a game into its player-visible shape. While the game
// is active only the dealer's first card and its score are revealed; once the
// game is over the full dealer hand and true score are shown. This is a
// read-time projection with no persisted effect.
func BuildGameView(g *store.Game) GameView {
	playerHand := make([]string, 0, len(g.PlayerHand))
	for _, r := range g.PlayerHand {
		playerHand = append(playerHand, string(r))
	}

	dealerHand := make([]string, 0, len(g.DealerHand))
	dealerScore := 0
	if g.IsOver {
		for _, r := range g.DealerHand {
			dealerHand = append(dealerHand, string(r))
		}
		dealerScore = game.Score(g.DealerHand)
	} else if len(g.DealerHand) > 0 {
		dealerHand = append(dealerHand, string(g.DealerHand[0]), HiddenCard)
		dealerScore = game.Score(game.Hand{g.DealerHand[0]})
	}

	return GameView{
		GameID:      g.ID,
		PlayerHand:  playerHand,
		DealerHand:  dealerHand,
		PlayerScore: game.Score(g.PlayerHand),
		DealerScore: dealerScore,
		Status:      string(g.Status),
		IsOver:      g.IsOver,
		BetAmount:   g.BetAmount,
	}
}

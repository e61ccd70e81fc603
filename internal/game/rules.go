package game

// Status is a game's lifecycle status as persisted.
type Status string

const (
	StatusActive    Status = "active"
	StatusPlayerWin Status = "player_win"
	StatusDealerWin Status = "dealer_win"
	StatusPush      Status = "push"
	StatusBlackjack Status = "blackjack"
	// StatusPlayerBust exists in the persisted status vocabulary but is never
	// produced: player busts settle as StatusDealerWin.
	StatusPlayerBust Status = "player_bust"
)

const (
	dealerStandScore = 17
	bustThreshold    = 21
)

// Score returns the best blackjack score for a hand. Aces count as 11 and are
// demoted to 1 one at a time while the total exceeds 21.
func Score(h Hand) int {
	score := 0
	aces := 0
	for _, r := range h {
		score += rankValues[r]
		if r == Ace {
			aces++
		}
	}
	for score > bustThreshold && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// IsNaturalBlackjack reports whether the initial 2-card hand is exactly 21.
func IsNaturalBlackjack(h Hand) bool {
	return len(h) == 2 && Score(h) == bustThreshold
}

// DealerPlay extends a copy of the dealer's hand until it scores at least 17.
// The caller's hand is never mutated.
func DealerPlay(h Hand, draw DrawFunc) Hand {
	out := append(Hand(nil), h...)
	for Score(out) < dealerStandScore {
		out = append(out, draw())
	}
	return out
}

// DetermineResult computes the terminal status for a stand. Natural blackjack
// is detected before this is called and never reaches here.
func DetermineResult(player, dealer Hand) Status {
	p := Score(player)
	d := Score(dealer)
	if p > bustThreshold {
		return StatusDealerWin
	}
	if d > bustThreshold {
		return StatusPlayerWin
	}
	switch {
	case p > d:
		return StatusPlayerWin
	case d > p:
		return StatusDealerWin
	default:
		return StatusPush
	}
}

// DealInitialHands draws the player's two cards, then the dealer's two.
// The order is fixed so a scripted draw sequence yields deterministic hands.
func DealInitialHands(draw DrawFunc) (player, dealer Hand) {
	player = Hand{draw(), draw()}
	dealer = Hand{draw(), draw()}
	return player, dealer
}

// PayoutMultiplier maps a terminal status to its payout as a multiple of the
// bet: 3-to-2 plus the original bet on a natural, double on a win, the bet
// back on a push, nothing otherwise.
func PayoutMultiplier(s Status) float64 {
	switch s {
	case StatusBlackjack:
		return 2.5
	case StatusPlayerWin:
		return 2
	case StatusPush:
		return 1
	default:
		return 0
	}
}

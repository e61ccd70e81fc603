package game

import (
	"crypto/rand"
	"math/big"
)

// Rank is a card rank. Suits never affect blackjack scoring and are not modeled.
type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankValues = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9,
	Ten: 10, Jack: 10, Queen: 10, King: 10, Ace: 11,
}

// Hand is the ordered sequence of ranks held by one side of a game.
// Append-only while the game is active.
type Hand []Rank

// DrawFunc yields one card rank. Production code uses CryptoDraw; tests
// substitute scripted sequences.
type DrawFunc func() Rank

// CryptoDraw picks a rank uniformly from the 13-rank alphabet using the
// platform CSPRNG. Outcomes move money, so a seedable generator is not
// acceptable here.
func CryptoDraw() Rank {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(Ranks))))
	if err != nil {
		panic("game: crypto rand unavailable: " + err.Error())
	}
	return Ranks[n.Int64()]
}

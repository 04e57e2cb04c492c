package deck

import (
	"math/rand"
)

// Size is the number of cards in a full deck
const Size = 52

// Deck represents a deck of cards
type Deck []Card

// New creates a full, ordered deck of cards
func New() Deck {
	cards := Deck{}
	for suit := range suitNames {
		for rank := range rankNames {
			cards = append(cards, Card{Rank: Rank(rank), Suit: Suit(suit)})
		}
	}
	return cards
}

// Shuffle shuffles the deck with the supplied source of randomness.
// Callers that need replayable games pass a seeded *rand.Rand.
func (d Deck) Shuffle(r *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Deal deals n number of cards from the deck, until it is empty
func (d *Deck) Deal(n int) []Card {
	numCardsInDeck := len(*d)
	if n < 0 {
		return []Card{}
	}
	if n > numCardsInDeck {
		n = numCardsInDeck
	}
	startingIndex := numCardsInDeck - n
	subSlice := (*d)[startingIndex:numCardsInDeck]
	*d = (*d)[:startingIndex]
	return subSlice
}

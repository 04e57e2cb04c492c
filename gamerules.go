package screw

import (
	"screw/deck"
)

const (
	minPlayers        = 2
	maxPlayers        = 4
	defaultHandSize   = 7
	defaultMaxRetries = 3
)

// Twos and Tens can be played on anything and reset the pile baseline.
// The remaining ranks beat each other in this order, Ace high.
var cardValues = map[deck.Rank]int{
	deck.Three: 0,
	deck.Four:  1,
	deck.Five:  2,
	deck.Six:   3,
	deck.Seven: 4,
	deck.Eight: 5,
	deck.Nine:  6,
	deck.Jack:  7,
	deck.Queen: 8,
	deck.King:  9,
	deck.Ace:   10,
}

var wildRanks = map[deck.Rank]bool{
	deck.Two: true,
	deck.Ten: true,
}

// Effect is the turn-order consequence of a play
type Effect int

const (
	// EffectAdvance moves play to the next player
	EffectAdvance Effect = iota
	// EffectRepeatTurn lets the acting player go again (Tens)
	EffectRepeatTurn
	// EffectSkipNext skips the next player (matching the pile top's rank)
	EffectSkipNext
	// EffectResetPile resets the pile baseline; the next player may play
	// anything (Twos)
	EffectResetPile
)

var effectNames = []string{"advance", "repeatTurn", "skipNext", "resetPile"}

func (e Effect) String() string {
	return effectNames[e]
}

// EffectFunc computes the rank effect of playing a card on the current
// pile top. House rule tables vary, so games take this as an option;
// DefaultEffect is the table this server was built against.
type EffectFunc func(played deck.Card, pileTop *deck.Card) Effect

// DefaultEffect implements the standard Screw rank effects:
// a Ten lets the player go again, a Two resets the pile, and matching
// the top card's rank skips the next player.
func DefaultEffect(played deck.Card, pileTop *deck.Card) Effect {
	switch {
	case played.Rank == deck.Ten:
		return EffectRepeatTurn
	case played.Rank == deck.Two:
		return EffectResetPile
	case pileTop != nil && pileTop.Rank == played.Rank:
		return EffectSkipNext
	}
	return EffectAdvance
}

// steps maps an effect to the number of seats play advances
func (e Effect) steps() int {
	switch e {
	case EffectRepeatTurn:
		return 0
	case EffectSkipNext:
		return 2
	}
	return 1
}

// isLegal reports whether a card may be played on the given pile top
func isLegal(c deck.Card, pileTop *deck.Card) bool {
	if wildRanks[c.Rank] {
		return true
	}
	if pileTop == nil || wildRanks[pileTop.Rank] {
		// empty pile, or a wild on top: anything goes
		return true
	}
	return cardValues[c.Rank] >= cardValues[pileTop.Rank]
}

// legalCards returns the subset of hand playable on the given pile top
func legalCards(hand []deck.Card, pileTop *deck.Card) []deck.Card {
	legal := []deck.Card{}
	for _, c := range hand {
		if isLegal(c, pileTop) {
			legal = append(legal, c)
		}
	}
	return legal
}

package deck

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Rank represents a rank in a deck of cards
type Rank int

var rankNames = []string{"Ace", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King"}
var rankCodes = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K"}

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

func (r Rank) String() string {
	return rankNames[r]
}

// Suit represents a suit in a deck of cards
type Suit int

var suitNames = []string{"Clubs", "Diamonds", "Hearts", "Spades"}
var suitCodes = []string{"C", "D", "H", "S"}

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	return suitNames[s]
}

// Card represents a playing card. Cards are value types:
// two cards are equal iff their rank and suit are equal.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard constructs a card
func NewCard(rank Rank, suit Suit) (Card, error) {
	if rank < Ace || rank > King || suit < Clubs || suit > Spades {
		return Card{}, errors.New("arguments out of range")
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCard converts a two-character code into a Card, e.g. "SA" for
// the Ace of Spades or "HT" for the Ten of Hearts
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("card code %q not valid", code)
	}

	suit, rank := -1, -1
	for i, sc := range suitCodes {
		if sc == code[:1] {
			suit = i
			break
		}
	}
	for i, rc := range rankCodes {
		if rc == code[1:] {
			rank = i
			break
		}
	}

	if suit < 0 || rank < 0 {
		return Card{}, fmt.Errorf("card code %q not valid", code)
	}
	return Card{Rank: Rank(rank), Suit: Suit(suit)}, nil
}

// Code returns the card's two-character wire code
func (c Card) Code() string {
	return suitCodes[c.Suit] + rankCodes[c.Rank]
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", rankNames[c.Rank], suitNames[c.Suit])
}

// MarshalJSON serialises a card as its wire code
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Code())
}

// UnmarshalJSON deserialises a card from its wire code
func (c *Card) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}

	card, err := ParseCard(code)
	if err != nil {
		return err
	}

	*c = card
	return nil
}

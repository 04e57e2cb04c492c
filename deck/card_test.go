package deck

import (
	"encoding/json"
	"testing"

	utils "screw/internal"
)

func TestCard(t *testing.T) {
	cases := []struct {
		name     string
		rank     Rank
		suit     Suit
		expected string
	}{
		{"Lowest value card", Ace, Clubs, "Ace of Clubs"},
		{"Specific card", Queen, Hearts, "Queen of Hearts"},
		{"Highest value card", King, Spades, "King of Spades"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			card, err := NewCard(c.rank, c.suit)
			utils.AssertNoError(t, err)
			utils.AssertEqual(t, card.String(), c.expected)
		})
	}

	t.Run("out of range", func(t *testing.T) {
		_, err := NewCard(Rank(13), Hearts)
		utils.AssertErrored(t, err)

		_, err = NewCard(Four, Suit(4))
		utils.AssertErrored(t, err)
	})
}

func TestCardCodes(t *testing.T) {
	cases := []struct {
		code string
		card Card
	}{
		{"CA", Card{Ace, Clubs}},
		{"D7", Card{Seven, Diamonds}},
		{"HT", Card{Ten, Hearts}},
		{"SA", Card{Ace, Spades}},
		{"SK", Card{King, Spades}},
	}

	for _, c := range cases {
		t.Run(c.code, func(t *testing.T) {
			utils.AssertEqual(t, c.card.Code(), c.code)

			parsed, err := ParseCard(c.code)
			utils.AssertNoError(t, err)
			utils.AssertEqual(t, parsed, c.card)
		})
	}

	t.Run("rejects junk", func(t *testing.T) {
		for _, code := range []string{"", "S", "XA", "S1", "SAA"} {
			if _, err := ParseCard(code); err == nil {
				t.Errorf("expected %q to fail to parse", code)
			}
		}
	})
}

func TestCardJSON(t *testing.T) {
	t.Run("marshals to the wire code", func(t *testing.T) {
		data, err := json.Marshal(Card{Ten, Hearts})
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, string(data), `"HT"`)
	})

	t.Run("unmarshals a hand", func(t *testing.T) {
		var hand []Card
		err := json.Unmarshal([]byte(`["SA","C4","DQ"]`), &hand)
		utils.AssertNoError(t, err)

		want := []Card{{Ace, Spades}, {Four, Clubs}, {Queen, Diamonds}}
		utils.AssertDeepEqual(t, hand, want)
	})

	t.Run("rejects an unknown code", func(t *testing.T) {
		var c Card
		utils.AssertErrored(t, json.Unmarshal([]byte(`"Z9"`), &c))
	})
}

package screw

import (
	"screw/deck"
)

func containsCard(s []deck.Card, target deck.Card) bool {
	for _, c := range s {
		if c == target {
			return true
		}
	}
	return false
}

func removeCard(s []deck.Card, target deck.Card) []deck.Card {
	out := []deck.Card{}
	removed := false
	for _, c := range s {
		if !removed && c == target {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

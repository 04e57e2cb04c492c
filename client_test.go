package screw

import (
	"testing"

	utils "screw/internal"
	"screw/protocol"
)

func TestAutoMove(t *testing.T) {
	t.Run("plays the lowest legal card", func(t *testing.T) {
		move := AutoMove(protocol.RequestMoveMsg{
			Hand:       hand(t, "SA", "H4", "DQ"),
			LegalCards: hand(t, "SA", "H4", "DQ"),
		})

		utils.AssertEqual(t, move.Action, protocol.ActionPlay)
		utils.AssertEqual(t, *move.Card, card(t, "H4"))
	})

	t.Run("holds wilds back", func(t *testing.T) {
		move := AutoMove(protocol.RequestMoveMsg{
			Hand:       hand(t, "C2", "HT", "SK"),
			LegalCards: hand(t, "C2", "HT", "SK"),
		})

		utils.AssertEqual(t, *move.Card, card(t, "SK"))
	})

	t.Run("spends a wild when nothing else is legal", func(t *testing.T) {
		move := AutoMove(protocol.RequestMoveMsg{
			Hand:       hand(t, "C2", "H4"),
			LegalCards: hand(t, "C2"),
		})

		utils.AssertEqual(t, *move.Card, card(t, "C2"))
	})

	t.Run("picks up when stuck", func(t *testing.T) {
		move := AutoMove(protocol.RequestMoveMsg{
			Hand:       hand(t, "H4", "D3"),
			LegalCards: nil,
		})

		utils.AssertEqual(t, move.Action, protocol.ActionPickUp)
		if move.Card != nil {
			t.Error("expected no card on a pick up")
		}
	})
}

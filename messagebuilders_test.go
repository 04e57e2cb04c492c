package screw

import (
	"testing"

	"github.com/stretchr/testify/require"

	"screw/deck"
	"screw/protocol"
)

func TestBuildTurnMessages(t *testing.T) {
	played := card(t, "S9")
	drawn := card(t, "H4")
	res := &TurnResult{
		Ordinal:  2,
		Card:     &played,
		Drew:     &drawn,
		PickedUp: 3,
	}

	t.Run("card played is public", func(t *testing.T) {
		msg := buildCardPlayedMessage(res)
		require.Equal(t, protocol.EventCardPlayed, msg.Event)
		require.Equal(t, 2, msg.Detail.Player)
		require.Equal(t, played, *msg.Detail.Card)
	})

	t.Run("the drawn card goes only to the drawer", func(t *testing.T) {
		private := buildCardDrawnMessage(res)
		require.Equal(t, drawn, *private.Detail.Card)

		public := buildPlayerDrewCardMessage(res)
		require.Equal(t, 2, public.Detail.Player)
		require.Nil(t, public.Detail.Card)
	})

	t.Run("picked-up cards go only to the picker", func(t *testing.T) {
		private := buildPilePickedUpMessage(res)
		require.Equal(t, 3, private.Detail.Count)

		public := buildPlayerPickedUpPileMessage(res)
		require.Equal(t, 2, public.Detail.Player)
		require.Equal(t, 3, public.Detail.Count)
		require.Nil(t, public.Detail.Cards)
	})
}

func TestBuildRoundMessages(t *testing.T) {
	g := stackedGame(t, 1,
		[][]deck.Card{
			hand(t, "H5"),
			hand(t, "S7", "S8"),
		},
		nil,
	)

	res := play(t, g, "H5")
	require.True(t, res.RoundOver)

	t.Run("round over carries the scoreboard", func(t *testing.T) {
		msg := buildRoundOverMessage(g, res)
		require.Equal(t, protocol.EventRoundOver, msg.Event)
		require.Equal(t, 1, msg.Detail.Round)
		require.Equal(t, 1, msg.Detail.Winner)
		require.Equal(t, []protocol.PlayerScore{
			{Ordinal: 1, Score: 0},
			{Ordinal: 2, Score: 2},
		}, msg.Detail.Scores)
	})

	t.Run("game over carries the summary", func(t *testing.T) {
		msg := buildGameOverMessage(g.Summary())
		require.Equal(t, protocol.EventGameOver, msg.Event)
		require.Equal(t, 1, msg.Detail.Winner)
		require.Len(t, msg.Detail.Scores, 2)
	})
}

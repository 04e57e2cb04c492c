package screw

import (
	"screw/protocol"
)

func buildGameStartedMessage(players, round int) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventGameStarted,
		Detail: protocol.NotifyDetail{Players: players, Round: round},
	}
}

func buildRoundStartedMessage(round int) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventRoundStarted,
		Detail: protocol.NotifyDetail{Round: round},
	}
}

func buildCardPlayedMessage(res *TurnResult) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventCardPlayed,
		Detail: protocol.NotifyDetail{Player: res.Ordinal, Card: res.Card},
	}
}

// buildCardDrawnMessage is private to the drawing player
func buildCardDrawnMessage(res *TurnResult) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventCardDrawn,
		Detail: protocol.NotifyDetail{Card: res.Drew},
	}
}

// buildPlayerDrewCardMessage tells everyone else a card was drawn,
// without revealing it
func buildPlayerDrewCardMessage(res *TurnResult) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventPlayerDrewCard,
		Detail: protocol.NotifyDetail{Player: res.Ordinal},
	}
}

// buildPilePickedUpMessage is private to the picking-up player
func buildPilePickedUpMessage(res *TurnResult) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventPilePickedUp,
		Detail: protocol.NotifyDetail{Count: res.PickedUp},
	}
}

func buildPlayerPickedUpPileMessage(res *TurnResult) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventPlayerPickedUpPile,
		Detail: protocol.NotifyDetail{Player: res.Ordinal, Count: res.PickedUp},
	}
}

func buildStockDepletedMessage() protocol.NotifyMsg {
	return protocol.NotifyMsg{Event: protocol.EventStockDepleted}
}

func buildPlayForfeitedMessage(res *TurnResult) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventPlayForfeited,
		Detail: protocol.NotifyDetail{Player: res.Ordinal, Count: res.PickedUp},
	}
}

func buildGameAbortedMessage() protocol.NotifyMsg {
	return protocol.NotifyMsg{Event: protocol.EventGameAborted}
}

func buildPlayerLeftMessage(ordinal int) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event:  protocol.EventPlayerLeft,
		Detail: protocol.NotifyDetail{Player: ordinal},
	}
}

func buildRoundOverMessage(g *Game, res *TurnResult) protocol.NotifyMsg {
	scores := []protocol.PlayerScore{}
	for _, p := range g.Players() {
		scores = append(scores, protocol.PlayerScore{Ordinal: p.Ordinal, Score: p.Score})
	}
	return protocol.NotifyMsg{
		Event: protocol.EventRoundOver,
		Detail: protocol.NotifyDetail{
			Winner: res.RoundWinner,
			Round:  res.Round,
			Scores: scores,
		},
	}
}

func buildGameOverMessage(summary *Summary) protocol.NotifyMsg {
	return protocol.NotifyMsg{
		Event: protocol.EventGameOver,
		Detail: protocol.NotifyDetail{
			Winner: summary.Winner,
			Round:  summary.Rounds,
			Scores: summary.Scores,
		},
	}
}

package protocol

import (
	"screw/deck"
)

// HandshakeMsg is sent by a player process to announce readiness
type HandshakeMsg struct {
	Name string `json:"name,omitempty"`
}

// HandshakeAckMsg confirms a player's seat at the table
type HandshakeAckMsg struct {
	AssignedOrdinal int `json:"assignedOrdinal"`
	TotalPlayers    int `json:"totalPlayers"`
}

// RequestMoveMsg asks the active player for their move. It carries that
// player's own hand only; no other player's cards ever appear here.
type RequestMoveMsg struct {
	Hand       []deck.Card `json:"hand"`
	PileTop    *deck.Card  `json:"pileTop"`
	LegalCards []deck.Card `json:"legalCards"`
	PileSize   int         `json:"pileSize"`
	StockSize  int         `json:"stockSize"`
	Round      int         `json:"round"`
	Retries    int         `json:"retries,omitempty"`
}

// SubmitMoveMsg is the active player's answer to a RequestMoveMsg.
// Card may be nil when Action is ActionPickUp.
type SubmitMoveMsg struct {
	Card   *deck.Card `json:"card"`
	Action Action     `json:"action,omitempty"`
}

// NotifyMsg is a one-way announcement from the engine. No response is
// expected.
type NotifyMsg struct {
	Event  Event        `json:"event"`
	Detail NotifyDetail `json:"detail,omitempty"`
}

// NotifyDetail carries the event-specific fields of a NotifyMsg
type NotifyDetail struct {
	Player  int           `json:"player,omitempty"`
	Card    *deck.Card    `json:"card,omitempty"`
	Cards   []deck.Card   `json:"cards,omitempty"`
	Count   int           `json:"count,omitempty"`
	Round   int           `json:"round,omitempty"`
	Winner  int           `json:"winner,omitempty"`
	Players int           `json:"players,omitempty"`
	Scores  []PlayerScore `json:"scores,omitempty"`
	Message string        `json:"message,omitempty"`
}

// PlayerScore is one player's running score
type PlayerScore struct {
	Ordinal int `json:"ordinal"`
	Score   int `json:"score"`
}

// ErrorMsg reports a rejected message or a failed request
type ErrorMsg struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

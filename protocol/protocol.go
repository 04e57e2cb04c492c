package protocol

// Version is the wire protocol version carried by every envelope
const Version = 1

// Kind identifies a message kind
type Kind string

const (
	Handshake    Kind = "handshake"
	HandshakeAck Kind = "handshakeAck"
	RequestMove  Kind = "requestMove"
	SubmitMove   Kind = "submitMove"
	Notify       Kind = "notify"
	Error        Kind = "error"
)

var knownKinds = map[Kind]bool{
	Handshake:    true,
	HandshakeAck: true,
	RequestMove:  true,
	SubmitMove:   true,
	Notify:       true,
	Error:        true,
}

// Known reports whether k is a kind this protocol version understands
func (k Kind) Known() bool {
	return knownKinds[k]
}

func (k Kind) String() string {
	return string(k)
}

// Action is a player's declared intent when submitting a move
type Action string

const (
	// ActionPlay plays the submitted card. It is the default when no
	// action is declared.
	ActionPlay Action = "play"
	// ActionPickUp picks up the discard pile instead of playing a card
	ActionPickUp Action = "pickUp"
)

// Event identifies a one-way notification from engine to players
type Event string

const (
	EventGameStarted        Event = "gameStarted"
	EventRoundStarted       Event = "roundStarted"
	EventCardDrawn          Event = "cardDrawn" // private to the drawing player
	EventPlayerDrewCard     Event = "playerDrewCard"
	EventCardPlayed         Event = "cardPlayed"
	EventPilePickedUp       Event = "pilePickedUp" // private to the picking-up player
	EventPlayerPickedUpPile Event = "playerPickedUpPile"
	EventStockDepleted      Event = "stockDepleted"
	EventPlayForfeited      Event = "playForfeited"
	EventPlayerLeft         Event = "playerLeft"
	EventRoundOver          Event = "roundOver"
	EventGameOver           Event = "gameOver"
	EventGameAborted        Event = "gameAborted"
)

// ErrorCode classifies an Error message
type ErrorCode string

const (
	ErrCodeBadEnvelope ErrorCode = "badEnvelope"
	ErrCodeUnknownKind ErrorCode = "unknownKind"
	ErrCodeSeqMismatch ErrorCode = "seqMismatch"
	ErrCodeIllegalMove ErrorCode = "illegalMove"
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeGameFull    ErrorCode = "gameFull"
	ErrCodeInternal    ErrorCode = "internal"
)

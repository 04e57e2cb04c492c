package screw

// Phase represents the lifecycle stage of a game
type Phase int

const (
	// AwaitingPlayers waits for every seat's handshake
	AwaitingPlayers Phase = iota
	// Dealing shuffles and deals a round
	Dealing
	// AwaitingMove blocks on the active player's move
	AwaitingMove
	// ResolvingMove validates and applies a submitted move
	ResolvingMove
	// RoundComplete scores a finished round
	RoundComplete
	// GameOver is terminal; no further messages are sent
	GameOver
)

var phaseNames = []string{
	"awaitingPlayers",
	"dealing",
	"awaitingMove",
	"resolvingMove",
	"roundComplete",
	"gameOver",
}

func (p Phase) String() string {
	return phaseNames[p]
}

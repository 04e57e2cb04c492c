package screw

import (
	"errors"
	"fmt"
)

var (
	ErrNilGame        = errors.New("game is nil")
	ErrNilRouter      = errors.New("router is nil")
	ErrTooFewPlayers  = errors.New("minimum of 2 players required")
	ErrTooManyPlayers = errors.New("maximum of 4 players allowed")
	ErrGameFull       = errors.New("all seats are taken")
	ErrGameAborted    = errors.New("game aborted")
	ErrGameOver       = errors.New("game is already over")
	ErrWrongPhase     = errors.New("operation not valid in current phase")

	// ErrTimeout means a player did not answer within the configured window
	ErrTimeout = errors.New("player response timed out")
	// ErrChannelClosed means the link to a player has gone away
	ErrChannelClosed = errors.New("player channel closed")
	// ErrChannelBusy means a second request was issued before the first
	// was answered. This is a programming-contract violation, not a
	// protocol-level race.
	ErrChannelBusy = errors.New("request already outstanding on channel")
	// ErrUnknownOrdinal means the router has no channel for that player
	ErrUnknownOrdinal = errors.New("no channel for player ordinal")
)

// ProtocolError rejects a message without mutating game state
type ProtocolError struct {
	Reason string
}

func (e ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

// IllegalMoveError rejects a move that the rules do not permit. The
// active player is re-prompted until their retries run out.
type IllegalMoveError struct {
	Reason  string
	Retries int
}

func (e IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: %s", e.Reason)
}

// FatalEngineError is an engine invariant violation. It aborts the run
// and is never retried or swallowed.
type FatalEngineError struct {
	Reason string
}

func (e FatalEngineError) Error() string {
	return fmt.Sprintf("fatal engine error: %s", e.Reason)
}

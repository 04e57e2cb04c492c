package screw

import (
	"context"
	"errors"
	"fmt"
	"log"

	uuid "github.com/satori/go.uuid"

	"screw/protocol"
)

// NewID constructs a game ID
func NewID() string {
	return uuid.NewV4().String()
}

// GameEngineOpts configures a game engine
type GameEngineOpts struct {
	GameID string
	Game   *Game
	Router *Router
}

// GameEngine drives one game to completion. It is logically
// single-threaded: it issues one Ask at a time and blocks until the
// answer arrives or the channel fails.
type GameEngine struct {
	id     string
	game   *Game
	router *Router
}

// NewGameEngine constructs a new GameEngine
func NewGameEngine(opts GameEngineOpts) (*GameEngine, error) {
	if opts.Game == nil {
		return nil, ErrNilGame
	}
	if opts.Router == nil {
		return nil, ErrNilRouter
	}
	if opts.GameID == "" {
		opts.GameID = NewID()
	}

	return &GameEngine{
		id:     opts.GameID,
		game:   opts.Game,
		router: opts.Router,
	}, nil
}

// ID returns the game's ID
func (e *GameEngine) ID() string {
	return e.id
}

// Run blocks until the game reaches GameOver, the context is cancelled,
// or a fatal engine error occurs. Cancelling the context closes every
// player channel and surfaces ErrGameAborted.
func (e *GameEngine) Run(ctx context.Context) (*Summary, error) {
	defer e.router.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			e.router.Broadcast(buildGameAbortedMessage())
			e.router.Close()
		case <-stop:
		}
	}()

	log.Printf("game %s: waiting for %d players", e.id, e.game.opts.Players)
	if err := e.router.AwaitReady(ctx); err != nil {
		return nil, ErrGameAborted
	}

	if err := e.game.Begin(); err != nil {
		return nil, err
	}
	log.Printf("game %s: all players ready, dealing round 1", e.id)
	e.router.Broadcast(buildGameStartedMessage(e.game.opts.Players, e.game.Round()))

	for !e.game.Over() {
		if err := e.playTurn(); err != nil {
			if errors.Is(err, ErrGameAborted) {
				log.Printf("game %s: aborted", e.id)
				return nil, ErrGameAborted
			}
			// fatal: surface, never retry
			log.Printf("game %s: %s", e.id, err.Error())
			e.router.Broadcast(buildGameAbortedMessage())
			return nil, err
		}
	}

	summary := e.game.Summary()
	log.Printf("game %s: over, player %d wins", e.id, summary.Winner)
	e.router.Broadcast(buildGameOverMessage(summary))

	return summary, nil
}

func (e *GameEngine) playTurn() error {
	ordinal := e.game.CurrentPlayer().Ordinal
	req := e.game.BuildMoveRequest()

	resp, err := e.router.Ask(ordinal, protocol.RequestMove, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrGameAborted):
			return ErrGameAborted
		case errors.Is(err, ErrTimeout), errors.Is(err, ErrChannelClosed):
			return e.dropPlayer(ordinal, err)
		}
		return err
	}

	if resp.Kind != protocol.SubmitMove {
		return e.penalize(ordinal, fmt.Sprintf("expected %s, got %s", protocol.SubmitMove, resp.Kind))
	}

	var move protocol.SubmitMoveMsg
	if err := resp.Decode(&move); err != nil {
		return e.penalize(ordinal, err.Error())
	}

	res, err := e.game.Resolve(move)
	if err != nil {
		var illegal IllegalMoveError
		if errors.As(err, &illegal) {
			log.Printf("game %s: player %d: %s (retry %d)", e.id, ordinal, illegal.Reason, illegal.Retries)
			e.sendError(ordinal, protocol.ErrCodeIllegalMove, illegal.Error())
			return nil // same player is asked again
		}
		return err
	}

	e.announce(res)
	return nil
}

// penalize handles replies that never reached move validation:
// wrong message kind or an undecodable payload. Same policy as an
// illegal move, including the bounded retries.
func (e *GameEngine) penalize(ordinal int, reason string) error {
	log.Printf("game %s: player %d: %s", e.id, ordinal, reason)
	e.sendError(ordinal, protocol.ErrCodeBadEnvelope, reason)

	res, err := e.game.PenalizeMisplay(reason)
	if err != nil {
		if _, ok := err.(ProtocolError); ok {
			return nil // same player is asked again
		}
		return err
	}

	e.announce(res)
	return nil
}

// dropPlayer treats a timeout or a dead link as a disconnect: the
// player leaves the rotation and the game continues if at least two
// players remain.
func (e *GameEngine) dropPlayer(ordinal int, cause error) error {
	log.Printf("game %s: player %d dropped: %s", e.id, ordinal, cause.Error())
	e.router.Disconnect(ordinal)

	if _, err := e.game.Disconnect(ordinal); err != nil {
		return err
	}

	e.router.Broadcast(buildPlayerLeftMessage(ordinal))
	return nil
}

func (e *GameEngine) announce(res *TurnResult) {
	ordinal := res.Ordinal

	if res.Forfeited {
		e.router.Broadcast(buildPlayForfeitedMessage(res))
	}
	if res.Card != nil {
		e.router.Broadcast(buildCardPlayedMessage(res))
	}
	if res.PickedUp > 0 && !res.Forfeited {
		e.notify(ordinal, buildPilePickedUpMessage(res))
		e.router.BroadcastExcept(ordinal, buildPlayerPickedUpPileMessage(res))
	}
	if res.Drew != nil {
		e.notify(ordinal, buildCardDrawnMessage(res))
		e.router.BroadcastExcept(ordinal, buildPlayerDrewCardMessage(res))
	}
	if res.StockDepleted {
		e.router.Broadcast(buildStockDepletedMessage())
	}
	if res.RoundOver {
		e.router.Broadcast(buildRoundOverMessage(e.game, res))
		if !res.GameOver {
			e.router.Broadcast(buildRoundStartedMessage(e.game.Round()))
		}
	}
}

func (e *GameEngine) sendError(ordinal int, code protocol.ErrorCode, message string) {
	if err := e.router.SendError(ordinal, code, message); err != nil {
		log.Printf("game %s: could not send error to player %d: %s", e.id, ordinal, err.Error())
	}
}

func (e *GameEngine) notify(ordinal int, msg protocol.NotifyMsg) {
	if err := e.router.Notify(ordinal, msg); err != nil {
		log.Printf("game %s: could not notify player %d: %s", e.id, ordinal, err.Error())
	}
}

package screw

import (
	"fmt"

	"github.com/gorilla/websocket"

	"screw/deck"
	"screw/protocol"
)

// MoveFunc decides a move for one RequestMove. Implementations may be
// a decision algorithm or a human at a terminal; the engine cannot tell
// the difference.
type MoveFunc func(protocol.RequestMoveMsg) protocol.SubmitMoveMsg

// EventFunc observes one-way notifications from the engine
type EventFunc func(protocol.NotifyMsg)

// Client is the player-process side of a player channel: it dials the
// manager, performs the handshake, and answers requests one at a time.
type Client struct {
	conn    *websocket.Conn
	name    string
	ordinal int
	total   int
}

// Dial connects to the manager's join endpoint and completes the
// handshake, learning this player's assigned ordinal.
func Dial(url, name string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{conn: conn, name: name}

	hello, err := protocol.NewEnvelope(protocol.Handshake, 0, 1, protocol.HandshakeMsg{Name: name})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := c.write(hello); err != nil {
		conn.Close()
		return nil, err
	}

	for {
		env, err := c.read()
		if err != nil {
			conn.Close()
			return nil, err
		}

		switch env.Kind {
		case protocol.HandshakeAck:
			var ack protocol.HandshakeAckMsg
			if err := env.Decode(&ack); err != nil {
				conn.Close()
				return nil, err
			}
			c.ordinal = ack.AssignedOrdinal
			c.total = ack.TotalPlayers
			return c, nil

		case protocol.Error:
			var errMsg protocol.ErrorMsg
			if err := env.Decode(&errMsg); err != nil {
				conn.Close()
				return nil, err
			}
			conn.Close()
			return nil, fmt.Errorf("handshake rejected: %s: %s", errMsg.Code, errMsg.Message)

		default:
			// ignore anything else during the handshake
		}
	}
}

// Ordinal returns the seat assigned at handshake time
func (c *Client) Ordinal() int {
	return c.ordinal
}

// TotalPlayers returns the game's player count
func (c *Client) TotalPlayers() int {
	return c.total
}

// Run answers the engine's requests until the game ends or the link
// dies. Every RequestMove gets exactly one SubmitMove, echoing the
// request's sequence number.
func (c *Client) Run(onMove MoveFunc, onEvent EventFunc) error {
	for {
		env, err := c.read()
		if err != nil {
			return err
		}

		switch env.Kind {
		case protocol.RequestMove:
			var req protocol.RequestMoveMsg
			if err := env.Decode(&req); err != nil {
				return err
			}

			move := onMove(req)
			resp, err := protocol.NewEnvelope(protocol.SubmitMove, c.ordinal, env.Seq, move)
			if err != nil {
				return err
			}
			if err := c.write(resp); err != nil {
				return err
			}

		case protocol.Notify:
			var msg protocol.NotifyMsg
			if err := env.Decode(&msg); err != nil {
				return err
			}
			if onEvent != nil {
				onEvent(msg)
			}
			if msg.Event == protocol.EventGameOver || msg.Event == protocol.EventGameAborted {
				return nil
			}

		case protocol.Error:
			// surfaced via the next RequestMove's retry counter
		}
	}
}

// Close closes the connection to the manager
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) read() (protocol.Envelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return protocol.Envelope{}, err
	}
	return protocol.DecodeEnvelope(data)
}

func (c *Client) write(env protocol.Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// AutoMove is the strategy used by automated players: play the lowest
// legal card, preferring non-wild cards, and pick the pile up when
// nothing is playable.
func AutoMove(req protocol.RequestMoveMsg) protocol.SubmitMoveMsg {
	if len(req.LegalCards) == 0 {
		return protocol.SubmitMoveMsg{Action: protocol.ActionPickUp}
	}

	best := req.LegalCards[0]
	for _, c := range req.LegalCards[1:] {
		if autoMoveValue(c) < autoMoveValue(best) {
			best = c
		}
	}
	chosen := best
	return protocol.SubmitMoveMsg{Card: &chosen, Action: protocol.ActionPlay}
}

// wilds are kept back until nothing cheaper is available
func autoMoveValue(c deck.Card) int {
	if wildRanks[c.Rank] {
		return len(cardValues) + 1
	}
	return cardValues[c.Rank]
}

package screw

import (
	"errors"
	"sync"

	"screw/protocol"
)

// pipeConn is an in-memory Conn for tests. Two ends share the buffers,
// so closing either end kills both.
type pipeConn struct {
	in   chan []byte
	out  chan []byte
	done chan struct{}
	once *sync.Once
}

func newPipeConns() (*pipeConn, *pipeConn) {
	a := make(chan []byte, 32)
	b := make(chan []byte, 32)
	done := make(chan struct{})
	once := &sync.Once{}

	left := &pipeConn{in: a, out: b, done: done, once: once}
	right := &pipeConn{in: b, out: a, done: done, once: once}
	return left, right
}

func (c *pipeConn) ReadMessage() ([]byte, error) {
	select {
	case data := <-c.in:
		return data, nil
	case <-c.done:
		return nil, errors.New("connection closed")
	}
}

func (c *pipeConn) WriteMessage(data []byte) error {
	select {
	case c.out <- data:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	}
}

func (c *pipeConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// testPlayer speaks the wire protocol from the player process's side of
// a pipeConn.
type testPlayer struct {
	conn    *pipeConn
	ordinal int
	total   int
}

func newTestPlayer(conn *pipeConn) *testPlayer {
	return &testPlayer{conn: conn}
}

func (p *testPlayer) read() (protocol.Envelope, error) {
	data, err := p.conn.ReadMessage()
	if err != nil {
		return protocol.Envelope{}, err
	}
	return protocol.DecodeEnvelope(data)
}

// readKind skips messages until one of the wanted kind arrives
func (p *testPlayer) readKind(kind protocol.Kind) (protocol.Envelope, error) {
	for {
		env, err := p.read()
		if err != nil {
			return protocol.Envelope{}, err
		}
		if env.Kind == kind {
			return env, nil
		}
	}
}

func (p *testPlayer) write(kind protocol.Kind, player int, seq uint64, payload interface{}) error {
	env, err := protocol.NewEnvelope(kind, player, seq, payload)
	if err != nil {
		return err
	}
	data, err := env.Encode()
	if err != nil {
		return err
	}
	return p.conn.WriteMessage(data)
}

// handshake announces readiness and records the assigned ordinal
func (p *testPlayer) handshake(name string) error {
	if err := p.write(protocol.Handshake, 0, 1, protocol.HandshakeMsg{Name: name}); err != nil {
		return err
	}

	env, err := p.readKind(protocol.HandshakeAck)
	if err != nil {
		return err
	}

	var ack protocol.HandshakeAckMsg
	if err := env.Decode(&ack); err != nil {
		return err
	}

	p.ordinal = ack.AssignedOrdinal
	p.total = ack.TotalPlayers
	return nil
}

// serve answers move requests with the given strategy until the game
// ends or the connection dies.
func (p *testPlayer) serve(strategy MoveFunc) error {
	for {
		env, err := p.read()
		if err != nil {
			return nil // closed
		}

		switch env.Kind {
		case protocol.RequestMove:
			var req protocol.RequestMoveMsg
			if err := env.Decode(&req); err != nil {
				return err
			}
			move := strategy(req)
			if err := p.write(protocol.SubmitMove, p.ordinal, env.Seq, move); err != nil {
				return err
			}

		case protocol.Notify:
			var msg protocol.NotifyMsg
			if err := env.Decode(&msg); err != nil {
				return err
			}
			if msg.Event == protocol.EventGameOver || msg.Event == protocol.EventGameAborted {
				return nil
			}
		}
	}
}

package screw

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"screw/protocol"
)

// Conn is a single duplex link to a remote player process. The zero
// contract is that of a websocket: ReadMessage blocks until a whole
// message arrives or the link dies.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// WSConn adapts a gorilla websocket connection to Conn
type WSConn struct {
	conn *websocket.Conn
}

// NewWSConn wraps a websocket connection
func NewWSConn(c *websocket.Conn) *WSConn {
	return &WSConn{conn: c}
}

func (c *WSConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *WSConn) WriteMessage(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WSConn) Close() error {
	return c.conn.Close()
}

// PlayerChannel owns the link to exactly one player process. It frames
// envelopes, numbers them, applies the response timeout, and enforces
// that at most one request is in flight at a time.
type PlayerChannel struct {
	conn    Conn
	timeout time.Duration

	mu      sync.Mutex // guards ordinal, seq, busy
	ordinal int
	seq     uint64
	busy    bool

	wmu sync.Mutex // serialises writes to conn

	inbound   chan protocol.Envelope
	done      chan struct{}
	closeOnce sync.Once
}

// NewPlayerChannel wraps a connection and starts its read pump
func NewPlayerChannel(conn Conn, timeout time.Duration) *PlayerChannel {
	pc := &PlayerChannel{
		conn:    conn,
		timeout: timeout,
		inbound: make(chan protocol.Envelope, 8),
		done:    make(chan struct{}),
	}
	go pc.readPump()
	return pc
}

// Ordinal returns the player ordinal, or zero before the handshake
func (pc *PlayerChannel) Ordinal() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.ordinal
}

func (pc *PlayerChannel) setOrdinal(ordinal int) {
	pc.mu.Lock()
	pc.ordinal = ordinal
	pc.mu.Unlock()
}

func (pc *PlayerChannel) readPump() {
	for {
		data, err := pc.conn.ReadMessage()
		if err != nil {
			pc.Close()
			return
		}

		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			// reject without surfacing: malformed framing never
			// reaches the engine
			pc.sendError(protocol.ErrCodeBadEnvelope, err.Error())
			continue
		}

		select {
		case pc.inbound <- env:
		case <-pc.done:
			return
		}
	}
}

// AwaitHandshake blocks until the player announces itself, then
// acknowledges its seat. Must be called once, before any Ask.
func (pc *PlayerChannel) AwaitHandshake(wait time.Duration, assign func() (int, int, error)) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case env := <-pc.inbound:
			if env.Kind != protocol.Handshake {
				pc.sendError(protocol.ErrCodeUnknownKind, fmt.Sprintf("expected handshake, got %s", env.Kind))
				continue
			}

			ordinal, total, err := assign()
			if err != nil {
				pc.sendError(protocol.ErrCodeGameFull, err.Error())
				return err
			}
			pc.setOrdinal(ordinal)

			ack := protocol.HandshakeAckMsg{AssignedOrdinal: ordinal, TotalPlayers: total}
			return pc.send(protocol.HandshakeAck, ack)

		case <-timer.C:
			return ErrTimeout

		case <-pc.done:
			return ErrChannelClosed
		}
	}
}

// Ask sends one request and blocks until the matching response arrives,
// the response window lapses, or the channel dies. Only one Ask may be
// outstanding; a second concurrent Ask is a programming error.
func (pc *PlayerChannel) Ask(kind protocol.Kind, payload interface{}) (protocol.Envelope, error) {
	pc.mu.Lock()
	if pc.busy {
		pc.mu.Unlock()
		return protocol.Envelope{}, ErrChannelBusy
	}
	pc.busy = true
	pc.seq++
	seq := pc.seq
	ordinal := pc.ordinal
	pc.mu.Unlock()

	defer func() {
		pc.mu.Lock()
		pc.busy = false
		pc.mu.Unlock()
	}()

	env, err := protocol.NewEnvelope(kind, ordinal, seq, payload)
	if err != nil {
		return protocol.Envelope{}, err
	}
	if err := pc.write(env); err != nil {
		return protocol.Envelope{}, ErrChannelClosed
	}

	timer := time.NewTimer(pc.timeout)
	defer timer.Stop()

	for {
		select {
		case resp := <-pc.inbound:
			if resp.Seq != seq {
				pc.sendError(protocol.ErrCodeSeqMismatch, fmt.Sprintf("want seq %d, got %d", seq, resp.Seq))
				continue
			}
			if resp.Player != ordinal {
				pc.sendError(protocol.ErrCodeBadEnvelope, fmt.Sprintf("want player %d, got %d", ordinal, resp.Player))
				continue
			}
			return resp, nil

		case <-timer.C:
			return protocol.Envelope{}, ErrTimeout

		case <-pc.done:
			return protocol.Envelope{}, ErrChannelClosed
		}
	}
}

// Notify sends a one-way message; no response is expected
func (pc *PlayerChannel) Notify(msg protocol.NotifyMsg) error {
	return pc.send(protocol.Notify, msg)
}

func (pc *PlayerChannel) send(kind protocol.Kind, payload interface{}) error {
	pc.mu.Lock()
	pc.seq++
	seq := pc.seq
	ordinal := pc.ordinal
	pc.mu.Unlock()

	env, err := protocol.NewEnvelope(kind, ordinal, seq, payload)
	if err != nil {
		return err
	}
	return pc.write(env)
}

func (pc *PlayerChannel) sendError(code protocol.ErrorCode, message string) {
	if err := pc.send(protocol.Error, protocol.ErrorMsg{Code: code, Message: message}); err != nil {
		log.Printf("player %d: could not send error: %s", pc.Ordinal(), err.Error())
	}
}

func (pc *PlayerChannel) write(env protocol.Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}

	pc.wmu.Lock()
	defer pc.wmu.Unlock()

	select {
	case <-pc.done:
		return ErrChannelClosed
	default:
	}
	return pc.conn.WriteMessage(data)
}

// Close tears the channel down and unblocks any in-flight Ask
func (pc *PlayerChannel) Close() error {
	pc.closeOnce.Do(func() {
		close(pc.done)
		pc.conn.Close()
	})
	return nil
}

// Closed reports whether the channel has been torn down
func (pc *PlayerChannel) Closed() bool {
	select {
	case <-pc.done:
		return true
	default:
		return false
	}
}

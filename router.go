package screw

import (
	"context"
	"log"
	"sync"
	"time"

	"screw/protocol"
)

// Router owns the full set of player channels. It assigns ordinals in
// join order (sequential from 1, no gaps) and gives the engine a single
// synchronous Ask per player. It never interprets game semantics.
type Router struct {
	total       int
	askTimeout  time.Duration
	joinTimeout time.Duration

	mu       sync.Mutex
	channels map[int]*PlayerChannel
	ready    chan struct{}
	closed   bool
}

// NewRouter constructs a router expecting exactly total players
func NewRouter(total int, askTimeout, joinTimeout time.Duration) *Router {
	return &Router{
		total:       total,
		askTimeout:  askTimeout,
		joinTimeout: joinTimeout,
		channels:    map[int]*PlayerChannel{},
		ready:       make(chan struct{}),
	}
}

// Join runs the handshake for a newly accepted connection and registers
// its channel. Joins may run concurrently; the ordinal is assigned only
// once the player's handshake arrives.
func (r *Router) Join(conn Conn) (int, error) {
	pc := NewPlayerChannel(conn, r.askTimeout)

	err := pc.AwaitHandshake(r.joinTimeout, func() (int, int, error) {
		return r.register(pc)
	})
	if err != nil {
		pc.Close()
		return 0, err
	}

	return pc.Ordinal(), nil
}

func (r *Router) register(pc *PlayerChannel) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, 0, ErrGameAborted
	}
	if len(r.channels) >= r.total {
		return 0, 0, ErrGameFull
	}

	ordinal := len(r.channels) + 1
	r.channels[ordinal] = pc

	if len(r.channels) == r.total {
		close(r.ready)
	}

	return ordinal, r.total, nil
}

// Joined reports how many seats have completed their handshake
func (r *Router) Joined() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// AwaitReady blocks until every seat has completed its handshake
func (r *Router) AwaitReady(ctx context.Context) error {
	select {
	case <-r.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ask forwards a request to one player and blocks for the reply
func (r *Router) Ask(ordinal int, kind protocol.Kind, payload interface{}) (protocol.Envelope, error) {
	pc, err := r.channel(ordinal)
	if err != nil {
		return protocol.Envelope{}, err
	}

	resp, err := pc.Ask(kind, payload)
	if err == ErrChannelClosed && r.Closed() {
		return protocol.Envelope{}, ErrGameAborted
	}
	return resp, err
}

// Notify sends a one-way message to one player
func (r *Router) Notify(ordinal int, msg protocol.NotifyMsg) error {
	pc, err := r.channel(ordinal)
	if err != nil {
		return err
	}
	return pc.Notify(msg)
}

// Broadcast sends a one-way message to every connected player. Failed
// sends are logged, not surfaced: a player who has gone away will be
// noticed the next time they are asked for a move.
func (r *Router) Broadcast(msg protocol.NotifyMsg) {
	r.BroadcastExcept(0, msg)
}

// BroadcastExcept broadcasts to everyone but the named player
func (r *Router) BroadcastExcept(except int, msg protocol.NotifyMsg) {
	r.mu.Lock()
	channels := make(map[int]*PlayerChannel, len(r.channels))
	for ord, pc := range r.channels {
		channels[ord] = pc
	}
	r.mu.Unlock()

	for ord, pc := range channels {
		if ord == except || pc.Closed() {
			continue
		}
		if err := pc.Notify(msg); err != nil {
			log.Printf("broadcast to player %d failed: %s", ord, err.Error())
		}
	}
}

// SendError reports a rejected message back to one player
func (r *Router) SendError(ordinal int, code protocol.ErrorCode, message string) error {
	pc, err := r.channel(ordinal)
	if err != nil {
		return err
	}
	return pc.send(protocol.Error, protocol.ErrorMsg{Code: code, Message: message})
}

// Disconnect tears down one player's channel, keeping the rest alive
func (r *Router) Disconnect(ordinal int) {
	pc, err := r.channel(ordinal)
	if err != nil {
		return
	}
	pc.Close()
}

func (r *Router) channel(ordinal int) (*PlayerChannel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pc, ok := r.channels[ordinal]
	if !ok {
		return nil, ErrUnknownOrdinal
	}
	return pc, nil
}

// Close tears down every channel and unblocks any in-flight Ask with
// ErrGameAborted. Safe to call more than once.
func (r *Router) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	channels := make([]*PlayerChannel, 0, len(r.channels))
	for _, pc := range r.channels {
		channels = append(channels, pc)
	}
	r.mu.Unlock()

	for _, pc := range channels {
		pc.Close()
	}
}

// Closed reports whether the router has been shut down
func (r *Router) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

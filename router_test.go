package screw

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	utils "screw/internal"
	"screw/protocol"
)

// joinPlayers connects n test players to the router concurrently and
// waits for every handshake to finish.
func joinPlayers(t *testing.T, r *Router, n int) []*testPlayer {
	t.Helper()

	players := make([]*testPlayer, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		serverEnd, playerEnd := newPipeConns()
		players[i] = newTestPlayer(playerEnd)

		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := r.Join(serverEnd); err != nil {
				t.Errorf("join failed: %s", err)
			}
		}()
		go func(p *testPlayer) {
			defer wg.Done()
			if err := p.handshake("tester"); err != nil {
				t.Errorf("handshake failed: %s", err)
			}
		}(players[i])
	}

	wg.Wait()
	return players
}

func TestRouterJoin(t *testing.T) {
	t.Run("ordinals are sequential with no gaps", func(t *testing.T) {
		r := NewRouter(3, time.Second, time.Second)
		defer r.Close()

		players := joinPlayers(t, r, 3)

		ordinals := []int{}
		for _, p := range players {
			utils.AssertEqual(t, p.total, 3)
			ordinals = append(ordinals, p.ordinal)
		}
		sort.Ints(ordinals)
		utils.AssertDeepEqual(t, ordinals, []int{1, 2, 3})
		utils.AssertEqual(t, r.Joined(), 3)
	})

	t.Run("a full table refuses further joins", func(t *testing.T) {
		r := NewRouter(2, time.Second, time.Second)
		defer r.Close()

		joinPlayers(t, r, 2)

		serverEnd, playerEnd := newPipeConns()
		late := newTestPlayer(playerEnd)

		done := make(chan error, 1)
		go func() {
			_, err := r.Join(serverEnd)
			done <- err
		}()

		late.write(protocol.Handshake, 0, 1, protocol.HandshakeMsg{Name: "late"})
		utils.AssertEqual(t, <-done, ErrGameFull)
	})
}

func TestRouterAwaitReady(t *testing.T) {
	t.Run("unblocks once every seat is filled", func(t *testing.T) {
		r := NewRouter(2, time.Second, time.Second)
		defer r.Close()

		readyErr := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			readyErr <- r.AwaitReady(ctx)
		}()

		joinPlayers(t, r, 2)

		utils.Within(t, time.Second, func() {
			if err := <-readyErr; err != nil {
				t.Errorf("AwaitReady failed: %s", err)
			}
		})
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		r := NewRouter(2, time.Second, time.Second)
		defer r.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		utils.AssertEqual(t, r.AwaitReady(ctx), context.Canceled)
	})
}

func TestRouterAsk(t *testing.T) {
	t.Run("routes to the addressed player only", func(t *testing.T) {
		r := NewRouter(2, time.Second, time.Second)
		defer r.Close()

		players := joinPlayers(t, r, 2)

		var target *testPlayer
		for _, p := range players {
			if p.ordinal == 2 {
				target = p
			}
		}

		go func() {
			env, err := target.readKind(protocol.RequestMove)
			if err != nil {
				return
			}
			target.write(protocol.SubmitMove, 2, env.Seq, protocol.SubmitMoveMsg{Action: protocol.ActionPickUp})
		}()

		resp, err := r.Ask(2, protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, resp.Player, 2)
	})

	t.Run("unknown ordinals are rejected", func(t *testing.T) {
		r := NewRouter(2, time.Second, time.Second)
		defer r.Close()

		_, err := r.Ask(7, protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
		utils.AssertEqual(t, err, ErrUnknownOrdinal)
	})

	t.Run("a closed router reports the game aborted", func(t *testing.T) {
		r := NewRouter(2, time.Second, time.Second)
		joinPlayers(t, r, 2)

		result := make(chan error, 1)
		go func() {
			_, err := r.Ask(1, protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
			result <- err
		}()

		time.Sleep(10 * time.Millisecond)
		r.Close()

		utils.Within(t, time.Second, func() {
			if err := <-result; err != ErrGameAborted {
				t.Errorf("expected ErrGameAborted, got %v", err)
			}
		})
	})
}

func TestRouterBroadcast(t *testing.T) {
	r := NewRouter(3, time.Second, time.Second)
	defer r.Close()

	players := joinPlayers(t, r, 3)

	r.BroadcastExcept(2, protocol.NotifyMsg{Event: protocol.EventStockDepleted})

	for _, p := range players {
		if p.ordinal == 2 {
			continue
		}
		env, err := p.readKind(protocol.Notify)
		utils.AssertNoError(t, err)

		var msg protocol.NotifyMsg
		utils.AssertNoError(t, env.Decode(&msg))
		utils.AssertEqual(t, msg.Event, protocol.EventStockDepleted)
	}
}

func TestRouterDisconnect(t *testing.T) {
	r := NewRouter(2, time.Second, time.Second)
	defer r.Close()

	joinPlayers(t, r, 2)
	r.Disconnect(2)

	_, err := r.Ask(2, protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
	utils.AssertEqual(t, err, ErrChannelClosed)

	// the rest of the table is unaffected
	utils.AssertTrue(t, !r.Closed())
}

package screw

import (
	"testing"
	"time"

	utils "screw/internal"
	"screw/protocol"
)

func newHandshakenChannel(t *testing.T, timeout time.Duration) (*PlayerChannel, *testPlayer) {
	t.Helper()

	serverEnd, playerEnd := newPipeConns()
	pc := NewPlayerChannel(serverEnd, timeout)
	player := newTestPlayer(playerEnd)

	done := make(chan error, 1)
	go func() {
		done <- pc.AwaitHandshake(time.Second, func() (int, int, error) {
			return 1, 2, nil
		})
	}()

	utils.AssertNoError(t, player.handshake("tester"))
	utils.AssertNoError(t, <-done)
	utils.AssertEqual(t, pc.Ordinal(), 1)
	utils.AssertEqual(t, player.ordinal, 1)
	utils.AssertEqual(t, player.total, 2)

	t.Cleanup(func() { pc.Close() })
	return pc, player
}

func TestPlayerChannelAsk(t *testing.T) {
	t.Run("a matching response is returned", func(t *testing.T) {
		pc, player := newHandshakenChannel(t, time.Second)

		go func() {
			env, err := player.readKind(protocol.RequestMove)
			if err != nil {
				return
			}
			player.write(protocol.SubmitMove, 1, env.Seq, protocol.SubmitMoveMsg{Action: protocol.ActionPickUp})
		}()

		resp, err := pc.Ask(protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, resp.Kind, protocol.SubmitMove)

		var move protocol.SubmitMoveMsg
		utils.AssertNoError(t, resp.Decode(&move))
		utils.AssertEqual(t, move.Action, protocol.ActionPickUp)
	})

	t.Run("a stale seq is rejected and the ask keeps waiting", func(t *testing.T) {
		pc, player := newHandshakenChannel(t, time.Second)

		go func() {
			env, err := player.readKind(protocol.RequestMove)
			if err != nil {
				return
			}
			// stale response first; the channel should complain and wait
			player.write(protocol.SubmitMove, 1, env.Seq+100, protocol.SubmitMoveMsg{Action: protocol.ActionPickUp})

			errEnv, err := player.readKind(protocol.Error)
			if err != nil {
				return
			}
			var msg protocol.ErrorMsg
			if errEnv.Decode(&msg) != nil || msg.Code != protocol.ErrCodeSeqMismatch {
				return
			}
			player.write(protocol.SubmitMove, 1, env.Seq, protocol.SubmitMoveMsg{Action: protocol.ActionPickUp})
		}()

		resp, err := pc.Ask(protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, resp.Kind, protocol.SubmitMove)
	})

	t.Run("a silent player times out", func(t *testing.T) {
		pc, _ := newHandshakenChannel(t, 20*time.Millisecond)

		_, err := pc.Ask(protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
		utils.AssertEqual(t, err, ErrTimeout)
	})

	t.Run("only one ask may be in flight", func(t *testing.T) {
		pc, player := newHandshakenChannel(t, time.Second)

		started := make(chan struct{})
		go func() {
			if _, err := player.readKind(protocol.RequestMove); err != nil {
				return
			}
			close(started)
			// never answer
		}()

		result := make(chan error, 1)
		go func() {
			_, err := pc.Ask(protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
			result <- err
		}()

		<-started
		_, err := pc.Ask(protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
		utils.AssertEqual(t, err, ErrChannelBusy)

		pc.Close()
		utils.AssertEqual(t, <-result, ErrChannelClosed)
	})

	t.Run("closing unblocks an in-flight ask", func(t *testing.T) {
		pc, _ := newHandshakenChannel(t, time.Second)

		result := make(chan error, 1)
		go func() {
			_, err := pc.Ask(protocol.RequestMove, protocol.RequestMoveMsg{Round: 1})
			result <- err
		}()

		time.Sleep(10 * time.Millisecond)
		pc.Close()

		utils.Within(t, time.Second, func() {
			if err := <-result; err != ErrChannelClosed {
				t.Errorf("expected ErrChannelClosed, got %v", err)
			}
		})
	})
}

func TestPlayerChannelHandshake(t *testing.T) {
	t.Run("times out on a silent player", func(t *testing.T) {
		serverEnd, _ := newPipeConns()
		pc := NewPlayerChannel(serverEnd, time.Second)
		defer pc.Close()

		err := pc.AwaitHandshake(20*time.Millisecond, func() (int, int, error) {
			return 1, 2, nil
		})
		utils.AssertEqual(t, err, ErrTimeout)
	})

	t.Run("rejects other kinds and keeps waiting", func(t *testing.T) {
		serverEnd, playerEnd := newPipeConns()
		pc := NewPlayerChannel(serverEnd, time.Second)
		defer pc.Close()

		player := newTestPlayer(playerEnd)

		done := make(chan error, 1)
		go func() {
			done <- pc.AwaitHandshake(time.Second, func() (int, int, error) {
				return 1, 2, nil
			})
		}()

		utils.AssertNoError(t, player.write(protocol.SubmitMove, 0, 1, protocol.SubmitMoveMsg{Action: protocol.ActionPickUp}))

		errEnv, err := player.readKind(protocol.Error)
		utils.AssertNoError(t, err)
		var msg protocol.ErrorMsg
		utils.AssertNoError(t, errEnv.Decode(&msg))
		utils.AssertEqual(t, msg.Code, protocol.ErrCodeUnknownKind)

		utils.AssertNoError(t, player.handshake("tester"))
		utils.AssertNoError(t, <-done)
	})

	t.Run("a full game turns the player away", func(t *testing.T) {
		serverEnd, playerEnd := newPipeConns()
		pc := NewPlayerChannel(serverEnd, time.Second)
		defer pc.Close()

		player := newTestPlayer(playerEnd)

		done := make(chan error, 1)
		go func() {
			done <- pc.AwaitHandshake(time.Second, func() (int, int, error) {
				return 0, 0, ErrGameFull
			})
		}()

		utils.AssertNoError(t, player.write(protocol.Handshake, 0, 1, protocol.HandshakeMsg{Name: "late"}))
		utils.AssertEqual(t, <-done, ErrGameFull)

		errEnv, err := player.readKind(protocol.Error)
		utils.AssertNoError(t, err)
		var msg protocol.ErrorMsg
		utils.AssertNoError(t, errEnv.Decode(&msg))
		utils.AssertEqual(t, msg.Code, protocol.ErrCodeGameFull)
	})
}

func TestPlayerChannelBadFraming(t *testing.T) {
	pc, player := newHandshakenChannel(t, time.Second)
	defer pc.Close()

	utils.AssertNoError(t, player.conn.WriteMessage([]byte("{{{not json")))

	errEnv, err := player.readKind(protocol.Error)
	utils.AssertNoError(t, err)

	var msg protocol.ErrorMsg
	utils.AssertNoError(t, errEnv.Decode(&msg))
	utils.AssertEqual(t, msg.Code, protocol.ErrCodeBadEnvelope)
}

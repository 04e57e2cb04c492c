package screw

import (
	"os"
	"testing"
	"time"

	utils "screw/internal"
)

func TestConfigFromEnv(t *testing.T) {
	unset := func() {
		for _, key := range []string{
			"SCREW_ADDR", "SCREW_PLAYERS", "SCREW_HAND_SIZE", "SCREW_ROUNDS",
			"SCREW_MAX_RETRIES", "SCREW_MOVE_TIMEOUT", "SCREW_JOIN_TIMEOUT", "SCREW_SEED",
		} {
			os.Unsetenv(key)
		}
	}

	t.Run("defaults", func(t *testing.T) {
		unset()
		defer unset()

		c, err := ConfigFromEnv()
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, c.Addr, ":8000")
		utils.AssertEqual(t, c.Players, 3)
		utils.AssertEqual(t, c.MoveTimeout, 30*time.Second)
	})

	t.Run("decodes overrides", func(t *testing.T) {
		unset()
		defer unset()

		os.Setenv("SCREW_PLAYERS", "4")
		os.Setenv("SCREW_MOVE_TIMEOUT", "5s")
		os.Setenv("SCREW_SEED", "42")

		c, err := ConfigFromEnv()
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, c.Players, 4)
		utils.AssertEqual(t, c.MoveTimeout, 5*time.Second)
		utils.AssertEqual(t, c.Seed, int64(42))

		opts := c.GameOpts()
		utils.AssertEqual(t, opts.Players, 4)
		utils.AssertEqual(t, opts.Seed, int64(42))
	})

	t.Run("rejects bad player counts", func(t *testing.T) {
		unset()
		defer unset()

		os.Setenv("SCREW_PLAYERS", "1")
		_, err := ConfigFromEnv()
		utils.AssertEqual(t, err, ErrTooFewPlayers)

		os.Setenv("SCREW_PLAYERS", "9")
		_, err = ConfigFromEnv()
		utils.AssertEqual(t, err, ErrTooManyPlayers)
	})
}

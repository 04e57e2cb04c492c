package screw

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds the manager's runtime configuration, decoded from the
// environment.
type Config struct {
	Addr        string        `env:"SCREW_ADDR,default=:8000"`
	Players     int           `env:"SCREW_PLAYERS,default=3"`
	HandSize    int           `env:"SCREW_HAND_SIZE,default=7"`
	Rounds      int           `env:"SCREW_ROUNDS,default=1"`
	MaxRetries  int           `env:"SCREW_MAX_RETRIES,default=3"`
	MoveTimeout time.Duration `env:"SCREW_MOVE_TIMEOUT,default=30s"`
	JoinTimeout time.Duration `env:"SCREW_JOIN_TIMEOUT,default=2m"`
	Seed        int64         `env:"SCREW_SEED,default=0"`
}

// ConfigFromEnv decodes and validates the configuration
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil {
		return Config{}, err
	}

	if c.Players < minPlayers {
		return Config{}, ErrTooFewPlayers
	}
	if c.Players > maxPlayers {
		return Config{}, ErrTooManyPlayers
	}

	return c, nil
}

// GameOpts converts the config into game options
func (c Config) GameOpts() GameOpts {
	return GameOpts{
		Players:    c.Players,
		HandSize:   c.HandSize,
		Rounds:     c.Rounds,
		MaxRetries: c.MaxRetries,
		Seed:       c.Seed,
	}
}

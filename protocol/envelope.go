package protocol

import (
	"encoding/json"
	"fmt"
)

// Envelope is the self-describing wrapper around every wire message.
// Seq is a per-channel monotonic counter; a response echoes the Seq of
// the request it answers.
type Envelope struct {
	Version int             `json:"version"`
	Kind    Kind            `json:"kind"`
	Player  int             `json:"player"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope wraps a payload in an envelope, serialising the payload
func NewEnvelope(kind Kind, player int, seq uint64, payload interface{}) (Envelope, error) {
	env := Envelope{
		Version: Version,
		Kind:    kind,
		Player:  player,
		Seq:     seq,
	}

	if payload == nil {
		return env, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	env.Payload = data

	return env, nil
}

// DecodeEnvelope parses and validates a wire message
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %s", err.Error())
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Validate checks the envelope's framing fields
func (e Envelope) Validate() error {
	if e.Version != Version {
		return fmt.Errorf("unsupported protocol version %d", e.Version)
	}
	if !e.Kind.Known() {
		return fmt.Errorf("unknown message kind %q", e.Kind)
	}
	if e.Player < 0 {
		return fmt.Errorf("invalid player ordinal %d", e.Player)
	}
	return nil
}

// Encode serialises the envelope for the wire
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses the envelope's payload into v
func (e Envelope) Decode(v interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s envelope has no payload", e.Kind)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("malformed %s payload: %s", e.Kind, err.Error())
	}
	return nil
}

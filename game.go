package screw

import (
	"fmt"
	"math/rand"
	"time"

	"screw/deck"
	"screw/protocol"
)

// PlayerState is the engine's view of one seat at the table
type PlayerState struct {
	Ordinal   int
	Hand      []deck.Card
	Connected bool
	LastSeen  time.Time
	Retries   int
	Score     int
	RoundsWon int
}

// GameOpts configures a new game. Zero values fall back to defaults.
type GameOpts struct {
	Players    int
	HandSize   int
	Rounds     int
	MaxRetries int
	Seed       int64 // 0 seeds from the clock
	Effect     EffectFunc
}

// Game holds the authoritative game state. It is exclusively owned and
// mutated by the engine; the router and channels never touch it.
type Game struct {
	opts       GameOpts
	rng        *rand.Rand
	effect     EffectFunc
	phase      Phase
	players    []*PlayerState
	currentIdx int
	stock      deck.Deck
	pile       []deck.Card
	eliminated []deck.Card
	round      int
	summary    *Summary
}

// Summary is the final outcome emitted at GameOver
type Summary struct {
	Winner int                    `json:"winner"`
	Rounds int                    `json:"rounds"`
	Scores []protocol.PlayerScore `json:"scores"`
}

// TurnResult describes what a resolved turn did, so the engine can fan
// out notifications without inspecting game internals.
type TurnResult struct {
	Ordinal       int
	Card          *deck.Card
	Drew          *deck.Card
	PickedUp      int
	Forfeited     bool
	Effect        Effect
	StockDepleted bool
	RoundOver     bool
	Round         int
	RoundWinner   int
	GameOver      bool
}

// NewGame constructs a game for a fixed, pre-agreed player count
func NewGame(opts GameOpts) (*Game, error) {
	if opts.Players < minPlayers {
		return nil, ErrTooFewPlayers
	}
	if opts.Players > maxPlayers {
		return nil, ErrTooManyPlayers
	}
	if opts.HandSize == 0 {
		opts.HandSize = defaultHandSize
	}
	if opts.Rounds == 0 {
		opts.Rounds = 1
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.Effect == nil {
		opts.Effect = DefaultEffect
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		effect: opts.Effect,
		phase:  AwaitingPlayers,
	}
	for i := 1; i <= opts.Players; i++ {
		g.players = append(g.players, &PlayerState{Ordinal: i})
	}

	return g, nil
}

func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) Round() int {
	return g.round
}

// CurrentPlayer returns the active player
func (g *Game) CurrentPlayer() *PlayerState {
	return g.players[g.currentIdx]
}

// Players returns all seats in ordinal order
func (g *Game) Players() []*PlayerState {
	return g.players
}

func (g *Game) Over() bool {
	return g.phase == GameOver
}

// Summary returns the final outcome, or nil before GameOver
func (g *Game) Summary() *Summary {
	return g.summary
}

// Begin transitions from AwaitingPlayers through Dealing into the first
// turn. The caller must have confirmed every player is reachable.
func (g *Game) Begin() error {
	if g.phase != AwaitingPlayers {
		return ErrWrongPhase
	}

	now := time.Now()
	for _, p := range g.players {
		p.Connected = true
		p.LastSeen = now
	}

	g.round = 1
	g.deal()

	return g.conservation()
}

// deal shuffles a fresh deck and deals equal hands, remainder to stock.
// Play starts with whoever currentIdx points at: ordinal 1 for the
// first round, the previous round's winner after that.
func (g *Game) deal() {
	g.phase = Dealing

	d := deck.New()
	d.Shuffle(g.rng)

	g.pile = []deck.Card{}
	g.eliminated = []deck.Card{}

	for _, p := range g.players {
		p.Hand = nil
		p.Retries = 0
		if p.Connected {
			p.Hand = append([]deck.Card{}, d.Deal(g.opts.HandSize)...)
		}
	}
	g.stock = d

	if !g.players[g.currentIdx].Connected {
		g.advance(1)
	}
	g.phase = AwaitingMove
}

func (g *Game) pileTop() *deck.Card {
	if len(g.pile) == 0 {
		return nil
	}
	c := g.pile[len(g.pile)-1]
	return &c
}

// BuildMoveRequest builds the move request for the active player. It
// carries that player's own hand and the public pile state; no other
// player's cards ever appear in it.
func (g *Game) BuildMoveRequest() protocol.RequestMoveMsg {
	p := g.CurrentPlayer()
	hand := append([]deck.Card{}, p.Hand...)

	return protocol.RequestMoveMsg{
		Hand:       hand,
		PileTop:    g.pileTop(),
		LegalCards: legalCards(p.Hand, g.pileTop()),
		PileSize:   len(g.pile),
		StockSize:  len(g.stock),
		Round:      g.round,
		Retries:    p.Retries,
	}
}

// Resolve validates and applies the active player's submitted move.
// An IllegalMoveError leaves the game state untouched apart from retry
// bookkeeping; the same player should be asked again. A non-nil
// TurnResult means the turn completed (possibly as a forfeit).
func (g *Game) Resolve(move protocol.SubmitMoveMsg) (*TurnResult, error) {
	if g.phase == GameOver {
		return nil, ErrGameOver
	}
	if g.phase != AwaitingMove {
		return nil, ErrWrongPhase
	}
	g.phase = ResolvingMove

	p := g.CurrentPlayer()
	p.LastSeen = time.Now()

	if err := g.validateMove(p, move); err != nil {
		return g.rejectMove(err)
	}

	res := &TurnResult{Ordinal: p.Ordinal}
	if move.Action == protocol.ActionPickUp {
		g.applyPickUp(p, res)
	} else {
		g.applyPlay(p, *move.Card, res)
	}
	p.Retries = 0

	if err := g.conservation(); err != nil {
		return nil, err
	}

	g.finishTurn(p, res)
	return res, nil
}

// PenalizeMisplay applies retry bookkeeping for a reply that never made
// it to move validation (malformed payload, wrong message kind). The
// result is non-nil when the retries ran out and the turn was forfeited.
func (g *Game) PenalizeMisplay(reason string) (*TurnResult, error) {
	if g.phase != AwaitingMove {
		return nil, ErrWrongPhase
	}
	g.phase = ResolvingMove
	return g.rejectMove(ProtocolError{Reason: reason})
}

func (g *Game) validateMove(p *PlayerState, move protocol.SubmitMoveMsg) error {
	if move.Action == protocol.ActionPickUp {
		if len(g.pile) == 0 {
			return IllegalMoveError{Reason: "cannot pick up an empty pile"}
		}
		return nil
	}
	if move.Action != "" && move.Action != protocol.ActionPlay {
		return IllegalMoveError{Reason: fmt.Sprintf("unknown action %q", move.Action)}
	}
	if move.Card == nil {
		return IllegalMoveError{Reason: "no card submitted"}
	}
	if !containsCard(p.Hand, *move.Card) {
		return IllegalMoveError{Reason: fmt.Sprintf("%s is not in hand", *move.Card)}
	}
	if !isLegal(*move.Card, g.pileTop()) {
		return IllegalMoveError{Reason: fmt.Sprintf("%s does not beat %s", *move.Card, *g.pileTop())}
	}
	return nil
}

func (g *Game) rejectMove(cause error) (*TurnResult, error) {
	p := g.CurrentPlayer()
	p.Retries++
	if p.Retries >= g.opts.MaxRetries {
		return g.forfeitTurn(p)
	}

	g.phase = AwaitingMove
	if illegal, ok := cause.(IllegalMoveError); ok {
		illegal.Retries = p.Retries
		return nil, illegal
	}
	return nil, cause
}

// forfeitTurn is the policy for players who exhaust their retries:
// they pick up the pile, if there is one, and play moves on.
func (g *Game) forfeitTurn(p *PlayerState) (*TurnResult, error) {
	res := &TurnResult{Ordinal: p.Ordinal, Forfeited: true}
	if len(g.pile) > 0 {
		g.applyPickUp(p, res)
	}
	p.Retries = 0

	if err := g.conservation(); err != nil {
		return nil, err
	}

	g.finishTurn(p, res)
	return res, nil
}

func (g *Game) applyPickUp(p *PlayerState, res *TurnResult) {
	res.PickedUp = len(g.pile)
	res.Effect = EffectAdvance
	p.Hand = append(p.Hand, g.pile...)
	g.pile = []deck.Card{}
}

func (g *Game) applyPlay(p *PlayerState, c deck.Card, res *TurnResult) {
	res.Effect = g.effect(c, g.pileTop())

	p.Hand = removeCard(p.Hand, c)
	g.pile = append(g.pile, c)
	played := c
	res.Card = &played

	// replenish from the stock while it lasts
	if len(g.stock) > 0 {
		drawn := g.stock.Deal(1)[0]
		p.Hand = append(p.Hand, drawn)
		res.Drew = &drawn
		if len(g.stock) == 0 {
			res.StockDepleted = true
		}
	}
}

func (g *Game) finishTurn(p *PlayerState, res *TurnResult) {
	if len(p.Hand) == 0 {
		g.endRound(p, res)
		return
	}
	g.advance(res.Effect.steps())
	g.phase = AwaitingMove
}

// advance moves the active-player index forward, skipping seats that
// have left the game. steps of zero keeps the same player.
func (g *Game) advance(steps int) {
	if g.connectedCount() == 0 {
		return
	}
	for steps > 0 {
		g.currentIdx = (g.currentIdx + 1) % len(g.players)
		if g.players[g.currentIdx].Connected {
			steps--
		}
	}
}

func (g *Game) endRound(winner *PlayerState, res *TurnResult) {
	g.phase = RoundComplete
	res.RoundOver = true
	res.Round = g.round
	res.RoundWinner = winner.Ordinal
	winner.RoundsWon++

	for _, p := range g.players {
		if p.Connected && p.Ordinal != winner.Ordinal {
			p.Score += len(p.Hand)
		}
	}

	if g.round >= g.opts.Rounds {
		g.finish()
		res.GameOver = true
		return
	}

	g.round++
	g.deal()
}

// Disconnect removes a player from the rotation. Their cards move to
// the eliminated pile so card conservation still holds. The game
// continues while at least two players remain, otherwise it ends.
func (g *Game) Disconnect(ordinal int) (*TurnResult, error) {
	if g.phase == GameOver {
		return nil, ErrGameOver
	}

	p, err := g.player(ordinal)
	if err != nil {
		return nil, err
	}
	if !p.Connected {
		return &TurnResult{Ordinal: ordinal}, nil
	}

	p.Connected = false
	g.eliminated = append(g.eliminated, p.Hand...)
	p.Hand = nil

	res := &TurnResult{Ordinal: ordinal}
	wasCurrent := g.players[g.currentIdx] == p

	if g.connectedCount() < minPlayers {
		g.finish()
		res.GameOver = true
	} else if wasCurrent {
		g.advance(1)
		g.phase = AwaitingMove
	}

	if err := g.conservation(); err != nil {
		return nil, err
	}
	return res, nil
}

// finish computes the final summary. Lowest score wins; ties go to the
// lower ordinal.
func (g *Game) finish() {
	g.phase = GameOver

	scores := []protocol.PlayerScore{}
	winner, best := 0, -1
	for _, p := range g.players {
		scores = append(scores, protocol.PlayerScore{Ordinal: p.Ordinal, Score: p.Score})
		if !p.Connected {
			continue
		}
		if best == -1 || p.Score < best {
			best = p.Score
			winner = p.Ordinal
		}
	}

	g.summary = &Summary{
		Winner: winner,
		Rounds: g.round,
		Scores: scores,
	}
}

func (g *Game) player(ordinal int) (*PlayerState, error) {
	if ordinal < 1 || ordinal > len(g.players) {
		return nil, ErrUnknownOrdinal
	}
	return g.players[ordinal-1], nil
}

func (g *Game) connectedCount() int {
	count := 0
	for _, p := range g.players {
		if p.Connected {
			count++
		}
	}
	return count
}

// conservation asserts that every card exists exactly once across all
// hands, the pile, the stock and the eliminated pile. A violation is an
// engine bug, never a player fault.
func (g *Game) conservation() error {
	seen := map[deck.Card]struct{}{}
	total := 0

	groups := [][]deck.Card{g.stock, g.pile, g.eliminated}
	for _, p := range g.players {
		groups = append(groups, p.Hand)
	}

	for _, cards := range groups {
		for _, c := range cards {
			if _, dup := seen[c]; dup {
				return FatalEngineError{Reason: fmt.Sprintf("card conservation broken: %s duplicated", c)}
			}
			seen[c] = struct{}{}
			total++
		}
	}

	if total != deck.Size {
		return FatalEngineError{Reason: fmt.Sprintf("card conservation broken: %d cards in play", total)}
	}
	return nil
}

// Package table drives a heads-up session: it owns the round state,
// serialises commands against it, paces the automatic steps with timers and
// publishes the resulting events.
package table

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/fivedraw/internal/bot"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/randutil"
)

var (
	// ErrNotRunning is returned for commands sent before Start or after Stop
	ErrNotRunning = errors.New("table is not running")
	// ErrGameOver is returned once a player can no longer cover the ante
	ErrGameOver = errors.New("game over")
)

// Pacing holds the delay before each automatic step
type Pacing struct {
	Ante             time.Duration
	Deal             time.Duration
	ComputerBet      time.Duration
	ComputerExchange time.Duration
	Result           time.Duration // After a showdown
	NoContest        time.Duration // After a fold
}

// DefaultPacing returns the standard delays
func DefaultPacing() Pacing {
	return Pacing{
		Ante:             2 * time.Second,
		Deal:             500 * time.Millisecond,
		ComputerBet:      2500 * time.Millisecond,
		ComputerExchange: 500 * time.Millisecond,
		Result:           4 * time.Second,
		NoContest:        3 * time.Second,
	}
}

// Table serialises every transition on one RoundState. Exactly one timer is
// pending at a time; timers from an earlier generation do nothing.
type Table struct {
	mu      sync.Mutex
	state   game.RoundState
	rules   game.Rules
	policy  game.Policy
	pacing  Pacing
	clock   quartz.Clock
	rng     *rand.Rand
	newID   func() string
	logger  *log.Logger
	bus     *game.SimpleEventBus
	timer   *quartz.Timer
	gen     uint64
	running bool
	over    bool
	err     error

	publishing sync.Mutex
	pending    []game.Event
}

// Option configures a Table
type Option func(*Table)

// WithRules sets the session rules
func WithRules(rules game.Rules) Option {
	return func(t *Table) { t.rules = rules }
}

// WithPolicy sets the computer's betting policy
func WithPolicy(policy game.Policy) Option {
	return func(t *Table) { t.policy = policy }
}

// WithPacing sets the automatic step delays
func WithPacing(p Pacing) Option {
	return func(t *Table) { t.pacing = p }
}

// WithClock sets the clock used for pacing timers
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithRand sets the source used to shuffle each round's deck
func WithRand(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithRoundIDs sets the generator for round ids
func WithRoundIDs(newID func() string) Option {
	return func(t *Table) { t.newID = newID }
}

// New creates a table. It does nothing until Start is called.
func New(opts ...Option) (*Table, error) {
	t := &Table{
		rules:  game.DefaultRules(),
		pacing: DefaultPacing(),
		clock:  quartz.NewReal(),
		newID:  newRoundID,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		bus:    game.NewEventBus(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.rules.Validate(); err != nil {
		return nil, err
	}
	if t.rng == nil {
		t.rng = randutil.New(randutil.Seed(0))
	}
	if t.policy == nil {
		p, err := bot.New(bot.Default, t.rng, t.logger)
		if err != nil {
			return nil, err
		}
		t.policy = p
	}
	t.logger = t.logger.WithPrefix("table")
	t.state = game.NewRoundState(game.WithRules(t.rules))
	return t, nil
}

func newRoundID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Start deals the first round and begins pacing. Starting a running table
// is a no-op.
func (t *Table) Start() error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	if t.over {
		t.mu.Unlock()
		return ErrGameOver
	}
	t.running = true
	t.err = nil
	t.logger.Info("table started", "ante", t.rules.Ante, "symmetric_ante", t.rules.SymmetricAnte)
	if t.state.Phase == game.PhaseComplete {
		t.step()
	} else {
		t.schedule()
	}
	t.mu.Unlock()
	t.flush()
	return t.Err()
}

// Stop cancels any pending timer. The state is kept so Start can resume.
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancel()
	if t.running {
		t.logger.Info("table stopped", "round", t.state.Number)
	}
	t.running = false
}

// Restart begins a new session from the starting stacks
func (t *Table) Restart() error {
	t.mu.Lock()
	t.cancel()
	t.running = false
	t.over = false
	t.state = game.NewRoundState(game.WithRules(t.rules))
	t.mu.Unlock()
	return t.Start()
}

// Err returns the error that stopped the table, if any
func (t *Table) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Subscribe registers for events. The subscriber is called outside the
// table lock and may call back into the table.
func (t *Table) Subscribe(sub game.EventSubscriber) func() {
	return t.bus.Subscribe(sub)
}

// Snapshot returns a copy of the current state
func (t *Table) Snapshot() game.RoundState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Over reports whether the session has ended
func (t *Table) Over() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.over
}

// ValidActions returns the human's currently valid actions
func (t *Table) ValidActions() []game.Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ValidActions(game.HumanSeat)
}

// SubmitAction applies the human's betting action
func (t *Table) SubmitAction(a game.Action) error {
	return t.human("action", func(s game.RoundState) (game.RoundState, []game.Event, error) {
		return s.SubmitAction(game.HumanSeat, a)
	})
}

// SubmitDiscards applies the human's exchange. An empty slice stands pat.
func (t *Table) SubmitDiscards(cards []deck.Card) error {
	return t.human("discard", func(s game.RoundState) (game.RoundState, []game.Event, error) {
		return s.SubmitDiscards(game.HumanSeat, cards)
	})
}

func (t *Table) human(kind string, apply func(game.RoundState) (game.RoundState, []game.Event, error)) error {
	t.mu.Lock()
	if err := t.ready(); err != nil {
		t.mu.Unlock()
		return err
	}
	next, events, err := apply(t.state)
	if err != nil {
		t.logger.Warn("rejected "+kind, "phase", t.state.Phase, "error", err)
		t.mu.Unlock()
		return err
	}
	t.commit(next, events)
	t.schedule()
	t.mu.Unlock()
	t.flush()
	return nil
}

// AdvanceAfterDelay runs the pending automatic step now instead of waiting
// for its timer
func (t *Table) AdvanceAfterDelay() error {
	t.mu.Lock()
	if err := t.ready(); err != nil {
		t.mu.Unlock()
		return err
	}
	if t.timer == nil {
		t.mu.Unlock()
		return game.ErrAwaitingHuman
	}
	t.cancel()
	t.step()
	err := t.err
	t.mu.Unlock()
	t.flush()
	return err
}

func (t *Table) ready() error {
	switch {
	case t.over:
		return ErrGameOver
	case !t.running:
		return ErrNotRunning
	}
	return nil
}

// step performs the next automatic step and schedules the one after.
// Callers hold mu.
func (t *Table) step() {
	var (
		next   game.RoundState
		events []game.Event
		err    error
	)
	switch t.state.NextStep() {
	case game.StepAwaitHuman:
		return
	case game.StepReset:
		if seat, short := t.state.ShortStacked(); short {
			t.gameOver(seat)
			return
		}
		id := t.newID()
		next, events, err = t.state.ResetRound(id, deck.New(t.rng))
		if err == nil {
			t.logger.Debug("round started", "round", next.Number, "id", id)
		}
	default:
		next, events, err = t.state.Advance(t.policy)
	}
	if err != nil {
		t.logger.Error("transition failed, stopping table", "phase", t.state.Phase, "error", err)
		t.err = fmt.Errorf("round %d: %w", t.state.Number, err)
		t.cancel()
		t.running = false
		return
	}
	t.commit(next, events)
	t.schedule()
}

func (t *Table) gameOver(seat int) {
	p := t.state.Players[seat]
	t.over = true
	t.running = false
	t.cancel()
	t.logger.Info("game over", "player", p.Name, "stack", p.Stack)
	t.pending = append(t.pending, game.GameOverEvent{
		Seat:   seat,
		Name:   p.Name,
		Stack:  p.Stack,
		Reason: fmt.Sprintf("%s cannot cover the ante of %d", p.Name, t.rules.Ante),
	})
}

func (t *Table) commit(next game.RoundState, events []game.Event) {
	t.state = next
	t.pending = append(t.pending, events...)
	if next.Phase == game.PhaseComplete && next.Result != nil {
		r := next.Result
		t.logger.Info("round complete", "round", r.Round, "outcome", r.Outcome, "pot", r.Pot,
			"stacks", fmt.Sprintf("%d/%d", next.Human().Stack, next.Computer().Stack))
	}
}

// schedule arms the timer for the next automatic step, if any. Callers
// hold mu.
func (t *Table) schedule() {
	t.cancel()
	if !t.running {
		return
	}

	step := t.state.NextStep()
	var d time.Duration
	switch step {
	case game.StepAwaitHuman:
		return
	case game.StepAnte:
		d = t.pacing.Ante
	case game.StepDeal:
		d = t.pacing.Deal
	case game.StepComputerBet:
		d = t.pacing.ComputerBet
	case game.StepComputerExchange:
		d = t.pacing.ComputerExchange
	case game.StepReset:
		d = t.pacing.Result
		if t.state.Result != nil && t.state.Result.NoContest {
			d = t.pacing.NoContest
		}
	}

	gen := t.gen
	t.timer = t.clock.AfterFunc(d, func() { t.fire(gen) }, "table", step.String())
}

// cancel stops the pending timer and invalidates any callback already in
// flight. Callers hold mu.
func (t *Table) cancel() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Table) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.running {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.step()
	t.mu.Unlock()
	t.flush()
}

// flush publishes pending events in commit order. A subscriber that calls
// back into the table has its events published by the outer flush.
func (t *Table) flush() {
	for {
		if !t.publishing.TryLock() {
			return
		}
		for {
			t.mu.Lock()
			events := t.pending
			t.pending = nil
			t.mu.Unlock()
			if len(events) == 0 {
				break
			}
			t.bus.Publish(events...)
		}
		t.publishing.Unlock()

		t.mu.Lock()
		more := len(t.pending) > 0
		t.mu.Unlock()
		if !more {
			return
		}
	}
}

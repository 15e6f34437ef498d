package table

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/fivedraw/internal/bot"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []game.Event
}

func (r *recorder) OnEvent(e game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []game.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]game.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func (r *recorder) has(et game.EventType) bool {
	for _, t := range r.types() {
		if t == et {
			return true
		}
	}
	return false
}

func newTestTable(t *testing.T, clock quartz.Clock, opts ...Option) (*Table, *recorder) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	policy, err := bot.New(bot.AlwaysCall, nil, logger)
	require.NoError(t, err)

	base := []Option{
		WithClock(clock),
		WithRand(randutil.New(42)),
		WithLogger(logger),
		WithPolicy(policy),
		WithRoundIDs(func() string { return "round" }),
	}
	tbl, err := New(append(base, opts...)...)
	require.NoError(t, err)

	rec := &recorder{}
	tbl.Subscribe(rec)
	t.Cleanup(tbl.Stop)
	return tbl, rec
}

func advance(ctx context.Context, t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	clock.Advance(d).MustWait(ctx)
}

func TestTablePacedRound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	tbl, rec := newTestTable(t, clock)
	pacing := DefaultPacing()

	require.NoError(t, tbl.Start())
	assert.Equal(t, game.PhaseAnte, tbl.Snapshot().Phase)
	assert.Equal(t, 1, tbl.Snapshot().Number)

	advance(ctx, t, clock, pacing.Ante)
	assert.Equal(t, game.PhaseDeal, tbl.Snapshot().Phase)
	assert.Equal(t, 980, tbl.Snapshot().Human().Stack)

	advance(ctx, t, clock, pacing.Deal)
	s := tbl.Snapshot()
	require.Equal(t, game.PhaseFirstBetting, s.Phase)
	assert.Equal(t, game.HumanSeat, s.Turn)
	assert.Len(t, s.Human().Hand, game.HandSize)

	// nothing is scheduled while the human decides
	assert.ErrorIs(t, tbl.AdvanceAfterDelay(), game.ErrAwaitingHuman)

	require.NoError(t, tbl.SubmitAction(game.Check))
	assert.Equal(t, game.ComputerSeat, tbl.Snapshot().Turn)

	advance(ctx, t, clock, pacing.ComputerBet)
	s = tbl.Snapshot()
	require.Equal(t, game.PhaseChangeHand, s.Phase)
	assert.Equal(t, game.HumanSeat, s.Turn)

	require.NoError(t, tbl.SubmitDiscards(nil))
	advance(ctx, t, clock, pacing.ComputerExchange)
	require.Equal(t, game.PhaseSecondBetting, tbl.Snapshot().Phase)

	require.NoError(t, tbl.SubmitAction(game.Check))
	advance(ctx, t, clock, pacing.ComputerBet)
	s = tbl.Snapshot()
	require.Equal(t, game.PhaseComplete, s.Phase)
	require.NotNil(t, s.Result)
	assert.False(t, s.Result.NoContest)
	assert.True(t, rec.has(game.EventTypeHandRankRevealed))
	assert.True(t, rec.has(game.EventTypeRoundResult))

	advance(ctx, t, clock, pacing.Result)
	s = tbl.Snapshot()
	assert.Equal(t, game.PhaseAnte, s.Phase)
	assert.Equal(t, 2, s.Number)
}

func TestTableRejectsIllegalCommands(t *testing.T) {
	tbl, rec := newTestTable(t, quartz.NewMock(t))

	assert.ErrorIs(t, tbl.SubmitAction(game.Call), ErrNotRunning)

	require.NoError(t, tbl.Start())
	before := tbl.Snapshot()
	seen := len(rec.types())

	assert.ErrorIs(t, tbl.SubmitAction(game.Call), game.ErrIllegalAction)
	assert.ErrorIs(t, tbl.SubmitDiscards(nil), game.ErrIllegalAction)
	assert.Equal(t, before.Phase, tbl.Snapshot().Phase)
	assert.Len(t, rec.types(), seen, "rejected commands publish nothing")
}

func TestTableStaleTimerIgnored(t *testing.T) {
	tbl, _ := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Start())

	tbl.mu.Lock()
	stale := tbl.gen
	tbl.mu.Unlock()

	// the ante runs early, so the ante timer's generation is now stale
	require.NoError(t, tbl.AdvanceAfterDelay())
	require.Equal(t, game.PhaseDeal, tbl.Snapshot().Phase)

	tbl.fire(stale)
	s := tbl.Snapshot()
	assert.Equal(t, game.PhaseDeal, s.Phase)
	assert.False(t, s.Dealt)
}

func TestTableStopCancelsTimer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	tbl, _ := newTestTable(t, clock)
	require.NoError(t, tbl.Start())
	tbl.Stop()

	advance(ctx, t, clock, DefaultPacing().Ante)
	assert.False(t, tbl.Snapshot().AntePosted)
	assert.ErrorIs(t, tbl.AdvanceAfterDelay(), ErrNotRunning)

	// resuming re-arms the pending step
	require.NoError(t, tbl.Start())
	advance(ctx, t, clock, DefaultPacing().Ante)
	assert.True(t, tbl.Snapshot().AntePosted)
}

func TestTableGameOver(t *testing.T) {
	rules := game.DefaultRules()
	rules.Stacks = [game.NumSeats]int{rules.Ante, 1000}
	tbl, rec := newTestTable(t, quartz.NewMock(t), WithRules(rules))

	require.NoError(t, tbl.Start())
	require.NoError(t, tbl.AdvanceAfterDelay()) // ante
	require.NoError(t, tbl.AdvanceAfterDelay()) // deal
	require.NoError(t, tbl.SubmitAction(game.Fold))

	s := tbl.Snapshot()
	require.Equal(t, game.PhaseComplete, s.Phase)
	assert.Equal(t, 0, s.Human().Stack)

	require.NoError(t, tbl.AdvanceAfterDelay())
	assert.True(t, tbl.Over())
	assert.True(t, rec.has(game.EventTypeGameOver))
	assert.ErrorIs(t, tbl.SubmitAction(game.Call), ErrGameOver)
	assert.ErrorIs(t, tbl.Start(), ErrGameOver)

	require.NoError(t, tbl.Restart())
	assert.False(t, tbl.Over())
	assert.Equal(t, rules.Ante, tbl.Snapshot().Human().Stack)
}

func TestTableSubscriberMayCallBack(t *testing.T) {
	tbl, _ := newTestTable(t, quartz.NewMock(t))

	var phases []game.RoundPhase
	tbl.Subscribe(game.SubscriberFunc(func(e game.Event) {
		if _, ok := e.(game.RoundPhaseChangedEvent); ok {
			phases = append(phases, tbl.Snapshot().Phase)
		}
	}))

	require.NoError(t, tbl.Start())
	require.NoError(t, tbl.AdvanceAfterDelay())
	assert.Equal(t, []game.RoundPhase{game.PhaseAnte, game.PhaseDeal}, phases)
}

func TestTableEventsInOrder(t *testing.T) {
	tbl, rec := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Start())
	require.NoError(t, tbl.AdvanceAfterDelay())
	require.NoError(t, tbl.AdvanceAfterDelay())

	types := rec.types()
	var phaseChanges []game.RoundPhase
	for _, e := range rec.events {
		if pc, ok := e.(game.RoundPhaseChangedEvent); ok {
			phaseChanges = append(phaseChanges, pc.Phase)
		}
	}
	assert.Equal(t, []game.RoundPhase{game.PhaseAnte, game.PhaseDeal, game.PhaseFirstBetting}, phaseChanges)
	assert.Equal(t, game.EventTypeTurnChanged, types[len(types)-1])
}

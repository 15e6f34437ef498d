// Package simulator plays policies against each other headlessly through the
// same round transitions the interactive table uses.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/bot"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/discard"
	"github.com/lox/fivedraw/internal/evaluator"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/lox/fivedraw/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// baseTransitions bounds a round with no raises; each raise the stacks can
// afford adds one more.
const baseTransitions = 64

// ErrStuck is returned when a round fails to complete within its transition
// limit
var ErrStuck = errors.New("round did not complete")

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Hero     string // policy name measured by the statistics
	Opponent string // policy name in the other seat
	Seed     int64
	Workers  int
	Rules    game.Rules
	Timeout  time.Duration
	Logger   *log.Logger
}

// Simulator runs five card draw simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Rules == (game.Rules{}) {
		config.Rules = game.DefaultRules()
	}
	return &Simulator{config: config, logger: config.Logger.WithPrefix("simulator")}
}

// Run executes the simulation. Every deck is played twice with the hero in
// each seat, so results include 2*Rounds entries. Work is split into one
// contiguous shard per worker and merged in shard order, which keeps the
// result independent of scheduling.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if err := s.config.Rules.Validate(); err != nil {
		return nil, err
	}
	for _, name := range []string{s.config.Hero, s.config.Opponent} {
		if _, err := bot.New(name, randutil.New(0), s.logger); err != nil {
			return nil, err
		}
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	workers := min(s.config.Workers, s.config.Rounds)
	shards := make([]*statistics.Statistics, workers)
	per := (s.config.Rounds + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := range workers {
		from := w * per
		to := min(from+per, s.config.Rounds)
		shards[w] = &statistics.Statistics{}
		stats := shards[w]
		g.Go(func() error {
			for i := from; i < to; i++ {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("round %d: %w", i+1, err)
				}
				if err := s.playDuplicate(i, stats); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, shard := range shards {
		total.Merge(shard)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	s.logger.Debug("simulation complete", "rounds", total.Rounds, "mean", total.Mean())
	return total, nil
}

func (s *Simulator) playDuplicate(i int, stats *statistics.Statistics) error {
	seed := randutil.Derive(s.config.Seed, i)
	for _, heroSeat := range []int{game.HumanSeat, game.ComputerSeat} {
		result, err := s.playRound(i, seed, heroSeat)
		if err != nil {
			return err
		}
		stats.Add(result, s.config.Rules.Ante)
	}
	return nil
}

// playRound plays one deck from fresh stacks with the hero in heroSeat
func (s *Simulator) playRound(i int, seed int64, heroSeat int) (statistics.RoundResult, error) {
	hero, err := bot.New(s.config.Hero, randutil.New(randutil.Derive(seed, 1)), s.logger)
	if err != nil {
		return statistics.RoundResult{}, err
	}
	opponent, err := bot.New(s.config.Opponent, randutil.New(randutil.Derive(seed, 2)), s.logger)
	if err != nil {
		return statistics.RoundResult{}, err
	}

	var policies [game.NumSeats]game.Policy
	policies[heroSeat] = hero
	policies[1-heroSeat] = opponent

	state := game.NewRoundState(game.WithRules(s.config.Rules))
	start := state.Players[heroSeat].Stack

	final, err := Play(state, fmt.Sprintf("sim-%d-%d", i+1, heroSeat), deck.New(randutil.New(seed)), policies)
	if err != nil {
		s.logger.Error("round failed", "round", i+1, "seed", seed, "hero_seat", heroSeat, "error", err)
		return statistics.RoundResult{}, fmt.Errorf("round %d (seed %d, hero seat %d): %w", i+1, seed, heroSeat, err)
	}

	res := final.Result
	out := statistics.RoundResult{
		NetAntes:       float64(final.Players[heroSeat].Stack-start) / float64(s.config.Rules.Ante),
		Seed:           seed,
		Seat:           heroSeat,
		Outcome:        res.Outcome,
		WentToShowdown: !res.NoContest,
		FinalPotSize:   res.Pot,
	}
	if heroSeat != game.HumanSeat {
		out.Outcome = flip(res.Outcome)
	}
	if !res.NoContest {
		out.Category = res.Categories[heroSeat]
	}
	return out, nil
}

// Play runs a round to completion from a completed state, with policies
// deciding for both seats. The human seat exchanges with the discard advisor
// just as the computer does.
func Play(state game.RoundState, id string, d deck.Deck, policies [game.NumSeats]game.Policy) (game.RoundState, error) {
	state, _, err := state.ResetRound(id, d)
	if err != nil {
		return state, err
	}

	limit := maxTransitions(state)
	for range limit {
		var next game.RoundState
		switch state.NextStep() {
		case game.StepReset:
			return state, nil
		case game.StepAwaitHuman:
			next, err = humanTurn(state, policies[game.HumanSeat])
		default:
			next, _, err = state.Advance(policies[game.ComputerSeat])
		}
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, fmt.Errorf("%w after %d transitions (phase %s)", ErrStuck, limit, state.Phase)
}

func maxTransitions(state game.RoundState) int {
	chips := 0
	for _, p := range state.Players {
		chips += p.Stack
	}
	return baseTransitions + chips/state.Rules.RaiseIncrement
}

// humanTurn plays the human seat with a policy, falling back through the
// cheapest legal continuation when the policy's choice is rejected
func humanTurn(state game.RoundState, policy game.Policy) (game.RoundState, error) {
	seat := state.Turn
	if seat == game.NoSeat {
		return state, fmt.Errorf("%w: no seat to act during %s", game.ErrIllegalAction, state.Phase)
	}

	if state.Phase == game.PhaseChangeHand {
		discards, err := discard.Advise(state.Players[seat].Hand)
		if err != nil {
			return state, err
		}
		next, _, err := state.SubmitDiscards(seat, discards)
		return next, err
	}

	choice := game.Call
	if policy != nil {
		choice = policy.Decide(state.View(seat))
	}
	var err error
	for _, a := range []game.Action{choice, game.Check, game.Call, game.Fold} {
		var next game.RoundState
		if next, _, err = state.SubmitAction(seat, a); err == nil {
			return next, nil
		}
	}
	return state, err
}

func flip(o game.Outcome) game.Outcome {
	switch o {
	case game.OutcomeWin:
		return game.OutcomeLoss
	case game.OutcomeLoss:
		return game.OutcomeWin
	}
	return o
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, hero, opponent string) {
	mean := stats.Mean()
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS %s vs %s ===\n", hero, opponent)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(w, "Record: %d won, %d lost, %d pushed (%.1f%% won)\n",
		stats.Wins, stats.Losses, stats.Pushes, stats.WinRate()*100)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f antes/round\n", mean)
	fmt.Fprintf(w, "Median: %.4f antes/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f antes\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f antes\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] antes/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== PROFIT SOURCE ANALYSIS ===\n")
	if stats.Wins > 0 {
		fmt.Fprintf(w, "Winning rounds: %d showdown (%.1f%%), %d by fold (%.1f%%)\n",
			stats.ShowdownWins, float64(stats.ShowdownWins)/float64(stats.Wins)*100,
			stats.NonShowdownWins, float64(stats.NonShowdownWins)/float64(stats.Wins)*100)
	}
	meanNSD := stats.NonShowdownNet / float64(stats.Rounds)
	meanSD := stats.ShowdownNet / float64(stats.Rounds)
	fmt.Fprintf(w, "Non-showdown: %.2f antes/round avg (all rounds)\n", meanNSD)
	fmt.Fprintf(w, "Showdown: %.2f antes/round avg (all rounds)\n", meanSD)

	fmt.Fprintf(w, "\n=== POT SIZE ANALYSIS ===\n")
	fmt.Fprintf(w, "Max pot observed: %d chips\n", stats.MaxPotChips)
	fmt.Fprintf(w, "Big pots (>=%d antes): %d rounds, %.2f antes total\n",
		statistics.BigPotAntes, stats.BigPots, stats.BigPotsNet)

	if len(stats.Categories) > 0 {
		fmt.Fprintf(w, "\n=== SHOWDOWN HANDS ===\n")
		for _, c := range evaluator.Categories {
			if n := stats.Categories[c]; n > 0 {
				fmt.Fprintf(w, "%-20s %d\n", c, n)
			}
		}
	}

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat, name := range []string{"human seat", "computer seat"} {
		if ss := stats.SeatResults[seat]; ss.Rounds > 0 {
			fmt.Fprintf(w, "%s: %d rounds, %.3f antes/round\n", name, ss.Rounds, stats.SeatMean(seat))
		}
	}
}

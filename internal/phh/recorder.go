package phh

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/game"
)

// Recorder subscribes to a table and writes each finished round to w
type Recorder struct {
	mu      sync.Mutex
	w       io.Writer
	rules   game.Rules
	logger  *log.Logger
	now     func() time.Time
	stacks  [game.NumSeats]int
	hand    *HandHistory
	written int
	err     error
}

// NewRecorder creates a recorder for a table playing under rules
func NewRecorder(w io.Writer, rules game.Rules, logger *log.Logger) *Recorder {
	return &Recorder{
		w:      w,
		rules:  rules,
		logger: logger.WithPrefix("phh"),
		now:    time.Now,
		stacks: rules.Stacks,
	}
}

// Written returns how many rounds have been recorded
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Err returns the first write error. Recording stops after an error.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}

	switch e := event.(type) {
	case game.RoundPhaseChangedEvent:
		if e.Phase == game.PhaseAnte {
			r.begin(e)
		}
	case game.PlayerStackChangedEvent:
		r.stacks[e.Seat] = e.Stack
	}

	if r.hand == nil {
		return
	}

	switch e := event.(type) {
	case game.CardsDealtEvent:
		r.add(FormatDeal(e.Seat, e.Cards))
	case game.ActionTakenEvent:
		if a, ok := FormatAction(e.Seat, e.Action, e.CurrentBet); ok {
			r.add(a)
		}
	case game.CardsExchangedEvent:
		r.add(FormatDiscard(e.Seat, e.Discarded))
		if len(e.Drawn) > 0 {
			r.add(FormatDeal(e.Seat, e.Drawn))
		}
	case game.HandRankRevealedEvent:
		r.add(FormatShow(e.Seat, e.Hand))
	case game.RoundResultEvent:
		r.finish(e.Result)
	}
}

func (r *Recorder) begin(e game.RoundPhaseChangedEvent) {
	// A restarted session begins again from round one with fresh stacks
	if e.Round == 1 {
		r.stacks = r.rules.Stacks
	}

	antes := make([]int, game.NumSeats)
	antes[game.HumanSeat] = r.rules.Ante
	if r.rules.SymmetricAnte {
		antes[game.ComputerSeat] = r.rules.Ante
	}

	r.hand = &HandHistory{
		Variant:           Variant,
		Table:             "fivedraw",
		SeatCount:         game.NumSeats,
		Seats:             []int{1, 2},
		Antes:             antes,
		BlindsOrStraddles: make([]int, game.NumSeats),
		MinBet:            r.rules.RaiseIncrement,
		StartingStacks:    slices.Clone(r.stacks[:]),
		Players:           []string{r.rules.HumanName, r.rules.ComputerName},
		HandID:            e.RoundID,
		Round:             e.Round,
		Actions:           []string{},
	}
	r.hand.SetTimestamp(r.now())
}

func (r *Recorder) add(action string) {
	r.hand.Actions = append(r.hand.Actions, action)
}

func (r *Recorder) finish(result game.RoundResult) {
	hand := r.hand
	r.hand = nil

	hand.FinishingStacks = slices.Clone(r.stacks[:])
	hand.Winnings = slices.Clone(result.Payouts)
	hand.Metadata = map[string]any{
		"outcome":    result.Outcome.String(),
		"pot":        result.Pot,
		"no_contest": result.NoContest,
	}

	r.written++
	if err := Encode(r.w, r.written, hand); err != nil {
		r.err = err
		r.logger.Error("Failed to record round", "round", hand.Round, "error", err)
		return
	}
	r.logger.Debug("Recorded round", "round", hand.Round, "actions", len(hand.Actions))
}

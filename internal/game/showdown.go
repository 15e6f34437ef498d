package game

import (
	"fmt"
	"slices"

	"github.com/lox/fivedraw/internal/evaluator"
)

// Outcome is a round result from the human's point of view
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomePush
)

func (o Outcome) String() string {
	return [...]string{"WIN", "LOSS", "PUSH"}[o]
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// RoundResult records how a round ended
type RoundResult struct {
	RoundID    string               `json:"round_id"`
	Round      int                  `json:"round"`
	Outcome    Outcome              `json:"outcome"`
	Winners    []int                `json:"winners"`
	Pot        int                  `json:"pot"`
	Payouts    []int                `json:"payouts"`    // Chips credited, by seat
	Categories []evaluator.Category `json:"categories,omitempty"` // By seat; nil without a showdown
	NoContest  bool                 `json:"no_contest"`
}

func (r RoundResult) clone() RoundResult {
	r.Winners = slices.Clone(r.Winners)
	r.Payouts = slices.Clone(r.Payouts)
	r.Categories = slices.Clone(r.Categories)
	return r
}

// showdown reveals every contesting hand and pays the best category.
// Equal categories split the pot.
func (t *transition) showdown() error {
	t.setPhase(PhaseShowdown)

	categories := make([]evaluator.Category, len(t.s.Players))
	best := evaluator.Unranked
	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		if p.Folded() {
			continue
		}
		res, err := evaluator.Evaluate(p.Hand)
		if err != nil {
			return fmt.Errorf("showdown for %s: %w", p.Name, err)
		}
		categories[seat] = res.Category
		if res.Category > best {
			best = res.Category
		}
		t.emit(HandRankRevealedEvent{
			Seat:     seat,
			Name:     p.Name,
			Hand:     slices.Clone(p.Hand),
			Category: res.Category,
			Label:    evaluator.Label(p.Hand, res),
		})
	}

	var winners []int
	for seat, c := range categories {
		if c != evaluator.Unranked && c == best {
			winners = append(winners, seat)
		}
	}
	t.award(winners, categories, false)
	return nil
}

// noContest pays the pot to the last player standing without a showdown
func (t *transition) noContest(remaining []int) {
	t.award(remaining, nil, true)
}

// award credits the pot to the winners, lowest seat taking any odd chip,
// and completes the round
func (t *transition) award(winners []int, categories []evaluator.Category, noContest bool) {
	pot := t.s.Pot.Amount()
	share, remainder := t.s.Pot.split(len(winners))
	payouts := make([]int, len(t.s.Players))

	for i, seat := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		p := &t.s.Players[seat]
		p.Credit(amount)
		payouts[seat] = amount
		t.emit(PlayerStackChangedEvent{Seat: seat, Name: p.Name, Stack: p.Stack})
	}

	t.s.Pot.Clear()
	t.emit(PotChangedEvent{Amount: 0})
	t.clearBets()

	result := RoundResult{
		RoundID:    t.s.ID,
		Round:      t.s.Number,
		Outcome:    outcomeFor(HumanSeat, winners),
		Winners:    slices.Clone(winners),
		Pot:        pot,
		Payouts:    payouts,
		Categories: categories,
		NoContest:  noContest,
	}
	t.s.Result = &result
	t.emit(RoundResultEvent{Result: result.clone()})

	t.setPhase(PhaseComplete)
	t.setTurn(NoSeat)
}

func outcomeFor(seat int, winners []int) Outcome {
	switch {
	case !slices.Contains(winners, seat):
		return OutcomeLoss
	case len(winners) > 1:
		return OutcomePush
	default:
		return OutcomeWin
	}
}

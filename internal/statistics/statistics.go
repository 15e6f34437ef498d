package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/fivedraw/internal/evaluator"
	"github.com/lox/fivedraw/internal/game"
)

// BigPotAntes is the pot size, in antes, from which a round counts as a
// big pot
const BigPotAntes = 10

// RoundResult represents the outcome of a single round for the hero policy
type RoundResult struct {
	NetAntes       float64            // Net antes won/lost by the hero
	Seed           int64              // Deck seed for this round (for replay)
	Seat           int                // Hero's seat
	Outcome        game.Outcome       // From the hero's point of view
	WentToShowdown bool               // Did the round reach showdown?
	FinalPotSize   int                // Pot in chips when it was awarded
	Category       evaluator.Category // Hero's category at showdown, Unranked otherwise
}

// SeatStats tracks statistics for one seat
type SeatStats struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64
}

// Statistics tracks simulation statistics in antes per round
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation
	Wins    int
	Losses  int
	Pushes  int

	// Track ALL results, not just wins
	ShowdownWins    int     // Rounds won at showdown
	NonShowdownWins int     // Rounds won by the opponent folding
	ShowdownNet     float64 // Antes from showdowns (wins AND losses)
	NonShowdownNet  float64 // Antes from folds (wins AND losses)
	AllNet          float64 // Total antes for sanity check

	SeatResults [game.NumSeats]SeatStats

	// Hero categories at showdown
	Categories map[evaluator.Category]int

	MaxPotChips int
	BigPots     int     // Pots >= BigPotAntes
	BigPotsNet  float64 // Antes from big pots
}

// Mean returns the arithmetic mean of all results in antes per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics. anteChips
// converts the pot size into antes.
func (s *Statistics) Add(result RoundResult, anteChips int) {
	net := result.NetAntes
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	switch result.Outcome {
	case game.OutcomeWin:
		s.Wins++
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	case game.OutcomeLoss:
		s.Losses++
	case game.OutcomePush:
		s.Pushes++
	}

	if result.WentToShowdown {
		s.ShowdownNet += net
		if s.Categories == nil {
			s.Categories = make(map[evaluator.Category]int)
		}
		s.Categories[result.Category]++
	} else {
		s.NonShowdownNet += net
	}
	s.AllNet += net

	if result.Seat >= 0 && result.Seat < game.NumSeats {
		s.SeatResults[result.Seat].Rounds++
		s.SeatResults[result.Seat].SumNet += net
		s.SeatResults[result.Seat].SumNet2 += net * net
	}

	if result.FinalPotSize > s.MaxPotChips {
		s.MaxPotChips = result.FinalPotSize
	}
	if anteChips > 0 && result.FinalPotSize >= BigPotAntes*anteChips {
		s.BigPots++
		s.BigPotsNet += net
	}
}

// Merge folds other into s. Values keep their order, other's after s's.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownNet += other.ShowdownNet
	s.NonShowdownNet += other.NonShowdownNet
	s.AllNet += other.AllNet
	for seat := range s.SeatResults {
		s.SeatResults[seat].Rounds += other.SeatResults[seat].Rounds
		s.SeatResults[seat].SumNet += other.SeatResults[seat].SumNet
		s.SeatResults[seat].SumNet2 += other.SeatResults[seat].SumNet2
	}
	for c, n := range other.Categories {
		if s.Categories == nil {
			s.Categories = make(map[evaluator.Category]int)
		}
		s.Categories[c] += n
	}
	s.MaxPotChips = max(s.MaxPotChips, other.MaxPotChips)
	s.BigPots += other.BigPots
	s.BigPotsNet += other.BigPotsNet
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result for a seat
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat >= game.NumSeats {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Rounds == 0 {
		return 0
	}
	return ss.SumNet / float64(ss.Rounds)
}

// WinRate returns the share of rounds won outright
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.ShowdownNet-s.NonShowdownNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, ShowdownNet=%.6f, NonShowdownNet=%.6f",
			s.AllNet, s.ShowdownNet, s.NonShowdownNet)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if outcomes := s.Wins + s.Losses + s.Pushes; outcomes != s.Rounds {
		return fmt.Errorf("outcomes total (%d) does not match rounds (%d)", outcomes, s.Rounds)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins != s.Wins {
		return fmt.Errorf("showdown and fold wins (%d) do not match wins (%d)", wins, s.Wins)
	}

	seatRounds := 0
	for _, ss := range s.SeatResults {
		seatRounds += ss.Rounds
	}
	if seatRounds != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match total rounds (%d)", seatRounds, s.Rounds)
	}
	return nil
}

package evaluator

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"runtime"

	"github.com/lox/fivedraw/internal/deck"
	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the sample count above which EstimateEquity splits
// the work across goroutines
const parallelThreshold = 2000

// CardSet is a set of cards as a bitset. Each card maps to the bit
// (rank-2)*4 + suit.
type CardSet uint64

func cardIndex(card deck.Card) int {
	return int(card.Rank-deck.Two)*4 + int(card.Suit)
}

// Add adds a card to the set
func (cs *CardSet) Add(card deck.Card) {
	*cs |= 1 << cardIndex(card)
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card deck.Card) bool {
	return cs&(1<<cardIndex(card)) != 0
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards []deck.Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

type equityResult struct {
	wins    int
	ties    int
	samples int
}

func (r *equityResult) add(o equityResult) {
	r.wins += o.wins
	r.ties += o.ties
	r.samples += o.samples
}

func (r equityResult) equity() float64 {
	if r.samples == 0 {
		return 0
	}
	return (float64(r.wins) + float64(r.ties)/2) / float64(r.samples)
}

// EstimateEquity estimates how often hand beats a random five-card hand
// dealt from the remaining 47 cards, counting ties as half. Hands compare
// by category alone, as at showdown.
func EstimateEquity(ctx context.Context, hand []deck.Card, samples int, rng *rand.Rand) (float64, error) {
	hero, err := Evaluate(hand)
	if err != nil {
		return 0, err
	}
	if samples <= 0 {
		return 0, fmt.Errorf("samples must be positive, got %d", samples)
	}

	used := NewCardSet(hand)
	available := make([]deck.Card, 0, deck.Size-HandSize)
	for _, card := range deck.Standard() {
		if !used.Contains(card) {
			available = append(available, card)
		}
	}

	if samples < parallelThreshold {
		return runEquityWorker(hero.Category, available, samples, rng).equity(), ctx.Err()
	}

	workers := min(runtime.NumCPU(), 8)
	results := make([]equityResult, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		n := samples / workers
		if w < samples%workers {
			n++
		}
		// Independent streams so workers do not contend on rng
		workerRng := rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[w] = runEquityWorker(hero.Category, available, n, workerRng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total equityResult
	for _, r := range results {
		total.add(r)
	}
	return total.equity(), nil
}

func runEquityWorker(hero Category, available []deck.Card, samples int, rng *rand.Rand) equityResult {
	pool := make([]deck.Card, len(available))
	copy(pool, available)

	var res equityResult
	for range samples {
		// Partial Fisher-Yates: the last HandSize cards become the opponent
		for i := 0; i < HandSize; i++ {
			j := rng.IntN(len(pool) - i)
			last := len(pool) - 1 - i
			pool[j], pool[last] = pool[last], pool[j]
		}
		opp, err := Evaluate(pool[len(pool)-HandSize:])
		if err != nil {
			continue
		}
		switch hero.Compare(opp.Category) {
		case 1:
			res.wins++
		case 0:
			res.ties++
		}
		res.samples++
	}
	return res
}

package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/discard"
	"github.com/lox/fivedraw/internal/evaluator"
	"github.com/lox/fivedraw/internal/game"
)

// HandStrength represents the relative strength of a hand
type HandStrength int

const (
	VeryWeak HandStrength = iota
	Weak
	Medium
	Strong
	VeryStrong
)

// String returns the string representation of hand strength
func (hs HandStrength) String() string {
	switch hs {
	case VeryWeak:
		return "Very Weak"
	case Weak:
		return "Weak"
	case Medium:
		return "Medium"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very Strong"
	default:
		return "Unknown"
	}
}

// ThinkingContext accumulates AI thoughts during decision making
type ThinkingContext struct {
	thoughts []string
}

// AddThought adds a thought to the thinking process
func (tc *ThinkingContext) AddThought(thought string) {
	tc.thoughts = append(tc.thoughts, thought)
}

// GetThoughts returns the complete stream of thoughts
func (tc *ThinkingContext) GetThoughts() string {
	if len(tc.thoughts) == 0 {
		return "No clear reasoning available"
	}
	return strings.Join(tc.thoughts, ". ")
}

// RankBot bets according to the category of its current hand, with the
// draw still to come softening its folds in the first betting round
type RankBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRankBot creates a new RankBot instance
func NewRankBot(rng *rand.Rand, logger *log.Logger) *RankBot {
	return &RankBot{rng: rng, logger: logger}
}

func (b *RankBot) Decide(view game.DecisionView) game.Action {
	thinking := &ThinkingContext{}
	strength := b.evaluateStrength(view, thinking)
	action := b.chooseAction(view, strength, thinking)

	b.logger.Debug("rank-bot decision",
		"phase", view.Phase,
		"hand", deck.FormatCards(view.Hand),
		"strength", strength,
		"to_call", view.ToCall,
		"pot", view.Pot,
		"action", action,
		"reasoning", thinking.GetThoughts())
	return action
}

func (b *RankBot) evaluateStrength(view game.DecisionView, thinking *ThinkingContext) HandStrength {
	res, err := evaluator.Evaluate(view.Hand)
	if err != nil {
		thinking.AddThought("Cannot read my hand, assuming very weak")
		return VeryWeak
	}
	thinking.AddThought(fmt.Sprintf("I have %s", res.Category))

	switch res.Category {
	case evaluator.RoyalStraightFlush, evaluator.StraightFlush, evaluator.FourOfAKind, evaluator.FullHouse:
		return VeryStrong
	case evaluator.Flush, evaluator.Straight, evaluator.ThreeOfAKind:
		return Strong
	case evaluator.TwoPair:
		return Medium
	case evaluator.OnePair:
		if pairRank(res.Counts) >= deck.Jack {
			thinking.AddThought("High pair")
			return Medium
		}
		return Weak
	}

	if view.Phase == game.PhaseFirstBetting {
		// a hand the advisor keeps four cards of is drawing to something
		if discards, err := discard.Advise(view.Hand); err == nil && len(discards) <= 1 {
			thinking.AddThought("Drawing one card to a hand")
			return Weak
		}
	}
	return VeryWeak
}

func (b *RankBot) chooseAction(view game.DecisionView, strength HandStrength, thinking *ThinkingContext) game.Action {
	var foldProb, callProb, raiseProb float64
	switch strength {
	case VeryWeak:
		foldProb, callProb, raiseProb = 0.85, 0.15, 0.0
	case Weak:
		foldProb, callProb, raiseProb = 0.50, 0.45, 0.05
	case Medium:
		foldProb, callProb, raiseProb = 0.10, 0.70, 0.20
	case Strong:
		foldProb, callProb, raiseProb = 0.0, 0.45, 0.55
	case VeryStrong:
		foldProb, callProb, raiseProb = 0.0, 0.20, 0.80
	}

	if view.Phase == game.PhaseFirstBetting {
		thinking.AddThought("The draw is still to come")
		foldProb /= 2
	}

	total := foldProb + callProb + raiseProb
	foldProb /= total
	callProb /= total
	raiseProb /= total

	if view.ToCall == 0 {
		// never fold when it is free to continue
		if raiseProb > callProb && view.CanTake(game.Raise) {
			thinking.AddThought("Taking the initiative with a raise")
			return game.Raise
		}
		thinking.AddThought("Free to continue")
		return firstValid(view, game.Call, game.Check, game.Fold)
	}

	r := b.rng.Float64()
	switch {
	case r < foldProb:
		thinking.AddThought("Deciding to fold")
		return game.Fold
	case r < foldProb+callProb:
		thinking.AddThought("Deciding to call")
		return firstValid(view, game.Call, game.Fold)
	default:
		thinking.AddThought("Deciding to raise")
		return firstValid(view, game.Raise, game.Call, game.Fold)
	}
}

func pairRank(counts evaluator.RankCounts) deck.Rank {
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts.Of(r) == 2 {
			return r
		}
	}
	return 0
}

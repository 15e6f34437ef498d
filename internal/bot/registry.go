// Package bot provides the betting policies the computer player can use.
package bot

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/game"
)

// Policy names accepted by New
const (
	AlwaysCall = "always-call"
	Random     = "random"
	Rank       = "rank"
	Maniac     = "maniac"
)

// Default is the policy used when none is configured
const Default = AlwaysCall

// Names lists every registered policy
func Names() []string {
	return []string{AlwaysCall, Random, Rank, Maniac}
}

// New creates the named policy. Policies that need randomness draw from
// rng, which must not be shared with another goroutine.
func New(name string, rng *rand.Rand, logger *log.Logger) (game.Policy, error) {
	logger = logger.WithPrefix("bot")
	switch name {
	case AlwaysCall, "":
		return NewCallBot(logger), nil
	case Random:
		return NewRandBot(rng, logger), nil
	case Rank:
		return NewRankBot(rng, logger), nil
	case Maniac:
		return NewManiacBot(rng, logger), nil
	}
	return nil, fmt.Errorf("unknown policy %q (want one of %v)", name, Names())
}

// firstValid returns the first preferred action that is currently valid,
// falling back to Fold
func firstValid(view game.DecisionView, preferred ...game.Action) game.Action {
	for _, a := range preferred {
		if slices.Contains(view.Valid, a) {
			return a
		}
	}
	return game.Fold
}

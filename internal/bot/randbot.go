package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(view game.DecisionView) game.Action {
	if len(view.Valid) == 0 {
		return game.Fold
	}
	action := view.Valid[r.rng.IntN(len(view.Valid))]
	r.logger.Debug("rand-bot decision", "phase", view.Phase, "valid", view.Valid, "action", action)
	return action
}

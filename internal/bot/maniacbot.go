package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/game"
)

// ManiacBot raises whenever it can and almost never lets go
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger}
}

func (m *ManiacBot) Decide(view game.DecisionView) game.Action {
	// Maniac strategy: raise 80% of the time, otherwise call
	action := game.Call
	if view.CanTake(game.Raise) && m.rng.Float64() < 0.8 {
		action = game.Raise
	}
	action = firstValid(view, action, game.Call, game.Fold)
	m.logger.Debug("maniac-bot decision", "phase", view.Phase, "raises", view.Raises, "action", action)
	return action
}

package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/game"
)

// CallBot never raises or folds while a call is possible. It is the
// default opponent.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) Decide(view game.DecisionView) game.Action {
	action := firstValid(view, game.Call, game.Check, game.Fold)
	c.logger.Debug("call-bot decision", "phase", view.Phase, "to_call", view.ToCall, "action", action)
	return action
}

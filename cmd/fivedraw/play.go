package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/fivedraw/internal/tui"
)

// PlayCmd runs a table in the terminal
type PlayCmd struct {
	Seed    int64  `help:"Deterministic seed, 0 for random"`
	Policy  string `help:"Computer policy (overrides config)"`
	Debug   bool   `help:"Enable debug logging"`
	History string `help:"Write finished rounds to this PHH session file"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Seed != 0 {
		cfg.Table.Seed = c.Seed
	}
	if c.Policy != "" {
		cfg.Computer.Policy = c.Policy
	}
	if c.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFile, err := openLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := setupLogger(logFile, cfg.Log.Level, true)
	if err != nil {
		return err
	}

	t, seed, err := newTable(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("Starting table", "seed", seed, "policy", cfg.Computer.Policy, "ante", cfg.Table.Ante)

	closeHistory, err := recordHistory(c.History, t, cfg.Rules(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeHistory(); err != nil {
			logger.Error("Failed to write hand history", "error", err)
		}
	}()

	model := tui.New(t, logger)
	defer model.Close()
	if err := t.Start(); err != nil {
		return err
	}
	defer t.Stop()

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return t.Err()
}

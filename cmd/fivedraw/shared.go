package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/bot"
	"github.com/lox/fivedraw/internal/config"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/phh"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/lox/fivedraw/internal/table"
)

// loadConfig loads and validates the configuration named by the globals
func loadConfig(g *Globals) (*config.Config, error) {
	cfg, err := config.Load(g.Config, g.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger creates a logger writing to w at the configured level
func setupLogger(w io.Writer, level string, timestamps bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: timestamps,
		TimeFormat:      "15:04:05",
	}), nil
}

// openLogFile truncates and opens the log file used while the TUI owns the
// terminal
func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// newTable builds a table from the configuration
func newTable(cfg *config.Config, logger *log.Logger) (*table.Table, int64, error) {
	pacing, err := cfg.PacingDelays()
	if err != nil {
		return nil, 0, err
	}

	seed := randutil.Seed(cfg.Table.Seed)
	policy, err := bot.New(cfg.Computer.Policy, randutil.New(randutil.Derive(seed, 1)), logger)
	if err != nil {
		return nil, 0, err
	}

	t, err := table.New(
		table.WithRules(cfg.Rules()),
		table.WithPolicy(policy),
		table.WithPacing(pacing),
		table.WithRand(randutil.New(seed)),
		table.WithLogger(logger),
	)
	if err != nil {
		return nil, 0, err
	}
	return t, seed, nil
}

// recordHistory appends every finished round of t to path. The returned
// function detaches the recorder and closes the file.
func recordHistory(path string, t *table.Table, rules game.Rules, logger *log.Logger) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	rec := phh.NewRecorder(f, rules, logger)
	unsubscribe := t.Subscribe(rec)
	logger.Info("Recording hand history", "path", path)

	return func() error {
		unsubscribe()
		if err := rec.Err(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}, nil
}

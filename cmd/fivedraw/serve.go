package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/fivedraw/internal/server"
)

// ServeCmd exposes a table over WebSocket
type ServeCmd struct {
	Addr    string `help:"Server address (overrides config)"`
	Seed    int64  `help:"Deterministic seed, 0 for random"`
	Policy  string `help:"Computer policy (overrides config)"`
	Debug   bool   `help:"Enable debug logging"`
	History string `help:"Write finished rounds to this PHH session file"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
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

	logger, err := setupLogger(os.Stderr, cfg.Log.Level, true)
	if err != nil {
		return err
	}

	t, seed, err := newTable(cfg, logger)
	if err != nil {
		return err
	}
	closeHistory, err := recordHistory(c.History, t, cfg.Rules(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeHistory(); err != nil {
			logger.Error("Failed to write hand history", "error", err)
		}
	}()

	srv := server.NewServer(cfg.Server.Address, t, logger)

	logger.Info("Starting fivedraw server",
		"addr", cfg.Server.Address,
		"seed", seed,
		"policy", cfg.Computer.Policy,
		"ante", cfg.Table.Ante,
		"raise", cfg.Table.RaiseIncrement)

	if err := t.Start(); err != nil {
		return err
	}
	defer t.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

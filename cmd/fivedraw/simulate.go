package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/fivedraw/internal/fileutil"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/lox/fivedraw/internal/simulator"
)

// SimulateCmd measures one policy against another with duplicate deals
type SimulateCmd struct {
	Rounds   int           `short:"n" default:"10000" help:"Number of duplicate deals to play"`
	Hero     string        `default:"rank" enum:"always-call,random,rank,maniac" help:"Policy measured by the results"`
	Opponent string        `default:"always-call" enum:"always-call,random,rank,maniac" help:"Policy in the other seat"`
	Seed     int64         `help:"Deterministic seed, 0 for random"`
	Workers  int           `short:"w" default:"4" help:"Parallel workers"`
	Timeout  time.Duration `help:"Stop after this long (0 for no limit)"`
	Output   string        `short:"o" help:"Also write the summary to this file"`
	Force    bool          `help:"Overwrite an existing output file"`
	Debug    bool          `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if c.Debug {
		level = "debug"
	}
	logger, err := setupLogger(os.Stderr, level, false)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.Seed(cfg.Table.Seed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Hero:     c.Hero,
		Opponent: c.Opponent,
		Seed:     seed,
		Workers:  c.Workers,
		Rules:    cfg.Rules(),
		Timeout:  c.Timeout,
		Logger:   logger,
	})
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "rounds", stats.Rounds, "seed", seed, "elapsed", time.Since(start).Round(time.Millisecond))

	var buf bytes.Buffer
	simulator.PrintSummary(&buf, stats, c.Hero, c.Opponent)
	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		return err
	}

	if c.Output != "" {
		err := fileutil.Create(c.Output, fileutil.Options{Perm: 0o644, Overwrite: c.Force, MkdirAll: true}, func(w io.Writer) error {
			_, err := w.Write(buf.Bytes())
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Output, err)
		}
		logger.Info("Wrote summary", "path", c.Output)
	}
	return nil
}

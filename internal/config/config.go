// Package config loads session settings from an HCL file, a .env file and
// FIVEDRAW_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/joho/godotenv"
	"github.com/lox/fivedraw/internal/bot"
	"github.com/lox/fivedraw/internal/fileutil"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/table"
)

// DefaultFile is the config file looked for when none is given
const DefaultFile = "fivedraw.hcl"

// Environment variables that override the file
const (
	EnvSeed          = "FIVEDRAW_SEED"
	EnvPolicy        = "FIVEDRAW_POLICY"
	EnvLogLevel      = "FIVEDRAW_LOG_LEVEL"
	EnvAnte          = "FIVEDRAW_ANTE"
	EnvSymmetricAnte = "FIVEDRAW_SYMMETRIC_ANTE"
	EnvAddress       = "FIVEDRAW_ADDR"
)

// Config is the complete session configuration
type Config struct {
	Table    TableSettings    `hcl:"table,block"`
	Human    PlayerSettings   `hcl:"human,block"`
	Computer ComputerSettings `hcl:"computer,block"`
	Pacing   PacingSettings   `hcl:"pacing,block"`
	Log      LogSettings      `hcl:"log,block"`
	Server   ServerSettings   `hcl:"server,block"`
}

// TableSettings holds the betting structure
type TableSettings struct {
	Ante           int   `hcl:"ante,optional"`
	RaiseIncrement int   `hcl:"raise_increment,optional"`
	MaxRaises      int   `hcl:"max_raises,optional"` // 0 is unlimited
	SymmetricAnte  bool  `hcl:"symmetric_ante,optional"`
	Seed           int64 `hcl:"seed,optional"` // 0 picks a random seed
}

// PlayerSettings describes the human seat
type PlayerSettings struct {
	Name  string `hcl:"name,optional"`
	Stack int    `hcl:"stack,optional"`
}

// ComputerSettings describes the computer seat
type ComputerSettings struct {
	Name   string `hcl:"name,optional"`
	Stack  int    `hcl:"stack,optional"`
	Policy string `hcl:"policy,optional"`
}

// PacingSettings holds the delays before automatic steps as durations
// such as "2s" or "500ms"
type PacingSettings struct {
	Ante             string `hcl:"ante,optional"`
	Deal             string `hcl:"deal,optional"`
	ComputerBet      string `hcl:"computer_bet,optional"`
	ComputerExchange string `hcl:"computer_exchange,optional"`
	Result           string `hcl:"result,optional"`
	NoContest        string `hcl:"no_contest,optional"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// ServerSettings configures the websocket bridge
type ServerSettings struct {
	Address string `hcl:"address,optional"`
}

// fileConfig mirrors Config with optional blocks and attributes so a
// partial file only overrides what it names
type fileConfig struct {
	Table *struct {
		Ante           *int   `hcl:"ante,optional"`
		RaiseIncrement *int   `hcl:"raise_increment,optional"`
		MaxRaises      *int   `hcl:"max_raises,optional"`
		SymmetricAnte  *bool  `hcl:"symmetric_ante,optional"`
		Seed           *int64 `hcl:"seed,optional"`
	} `hcl:"table,block"`
	Human    *PlayerSettings   `hcl:"human,block"`
	Computer *ComputerSettings `hcl:"computer,block"`
	Pacing   *PacingSettings   `hcl:"pacing,block"`
	Log      *LogSettings      `hcl:"log,block"`
	Server   *ServerSettings   `hcl:"server,block"`
}

// Default returns the default configuration
func Default() *Config {
	pacing := table.DefaultPacing()
	return &Config{
		Table: TableSettings{
			Ante:           game.DefaultAnte,
			RaiseIncrement: game.DefaultRaiseIncrement,
			MaxRaises:      game.DefaultMaxRaises,
		},
		Human: PlayerSettings{
			Name:  game.DefaultHumanName,
			Stack: game.DefaultStartingStack,
		},
		Computer: ComputerSettings{
			Name:   game.DefaultComputerName,
			Stack:  game.DefaultStartingStack,
			Policy: bot.Default,
		},
		Pacing: PacingSettings{
			Ante:             pacing.Ante.String(),
			Deal:             pacing.Deal.String(),
			ComputerBet:      pacing.ComputerBet.String(),
			ComputerExchange: pacing.ComputerExchange.String(),
			Result:           pacing.Result.String(),
			NoContest:        pacing.NoContest.String(),
		},
		Log: LogSettings{
			Level: "info",
			File:  "fivedraw.log",
		},
		Server: ServerSettings{
			Address: "localhost:8080",
		},
	}
}

// Load reads filename over the defaults, then applies envFile and the
// environment. A missing config file or env file is not an error.
func Load(filename, envFile string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		if err := cfg.loadFile(filename); err != nil {
			return nil, err
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(filename string) error {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.merge(fc)
	return nil
}

func (c *Config) merge(fc fileConfig) {
	if t := fc.Table; t != nil {
		set(&c.Table.Ante, t.Ante)
		set(&c.Table.RaiseIncrement, t.RaiseIncrement)
		set(&c.Table.MaxRaises, t.MaxRaises)
		set(&c.Table.SymmetricAnte, t.SymmetricAnte)
		set(&c.Table.Seed, t.Seed)
	}
	if h := fc.Human; h != nil {
		overlay(&c.Human.Name, h.Name)
		overlay(&c.Human.Stack, h.Stack)
	}
	if cp := fc.Computer; cp != nil {
		overlay(&c.Computer.Name, cp.Name)
		overlay(&c.Computer.Stack, cp.Stack)
		overlay(&c.Computer.Policy, cp.Policy)
	}
	if p := fc.Pacing; p != nil {
		overlay(&c.Pacing.Ante, p.Ante)
		overlay(&c.Pacing.Deal, p.Deal)
		overlay(&c.Pacing.ComputerBet, p.ComputerBet)
		overlay(&c.Pacing.ComputerExchange, p.ComputerExchange)
		overlay(&c.Pacing.Result, p.Result)
		overlay(&c.Pacing.NoContest, p.NoContest)
	}
	if l := fc.Log; l != nil {
		overlay(&c.Log.Level, l.Level)
		overlay(&c.Log.File, l.File)
	}
	if s := fc.Server; s != nil {
		overlay(&c.Server.Address, s.Address)
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func overlay[T comparable](dst *T, src T) {
	var zero T
	if src != zero {
		*dst = src
	}
}

// ApplyEnv overrides settings from FIVEDRAW_* variables using lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Table.Seed = seed
	}
	if v, ok := lookup(EnvAnte); ok && v != "" {
		ante, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvAnte, err)
		}
		c.Table.Ante = ante
	}
	if v, ok := lookup(EnvSymmetricAnte); ok && v != "" {
		symmetric, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSymmetricAnte, err)
		}
		c.Table.SymmetricAnte = symmetric
	}
	if v, ok := lookup(EnvPolicy); ok && v != "" {
		c.Computer.Policy = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvAddress); ok && v != "" {
		c.Server.Address = v
	}
	return nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if !slices.Contains(bot.Names(), c.Computer.Policy) {
		return fmt.Errorf("computer: unknown policy %q (want one of %v)", c.Computer.Policy, bot.Names())
	}
	if _, err := c.PacingDelays(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server: address must not be empty")
	}
	return nil
}

// Rules converts the table and seat settings into game rules
func (c *Config) Rules() game.Rules {
	return game.Rules{
		Ante:           c.Table.Ante,
		RaiseIncrement: c.Table.RaiseIncrement,
		MaxRaises:      c.Table.MaxRaises,
		SymmetricAnte:  c.Table.SymmetricAnte,
		HumanName:      c.Human.Name,
		ComputerName:   c.Computer.Name,
		Stacks:         [game.NumSeats]int{c.Human.Stack, c.Computer.Stack},
	}
}

// PacingDelays parses the pacing durations
func (c *Config) PacingDelays() (table.Pacing, error) {
	var p table.Pacing
	fields := []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"ante", c.Pacing.Ante, &p.Ante},
		{"deal", c.Pacing.Deal, &p.Deal},
		{"computer_bet", c.Pacing.ComputerBet, &p.ComputerBet},
		{"computer_exchange", c.Pacing.ComputerExchange, &p.ComputerExchange},
		{"result", c.Pacing.Result, &p.Result},
		{"no_contest", c.Pacing.NoContest, &p.NoContest},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.src)
		if err != nil {
			return table.Pacing{}, fmt.Errorf("pacing: %s: %w", f.name, err)
		}
		if d < 0 {
			return table.Pacing{}, fmt.Errorf("pacing: %s must not be negative", f.name)
		}
		*f.dst = d
	}
	return p, nil
}

// Encode writes the configuration as HCL
func (c *Config) Encode(w io.Writer) error {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(*c, f.Body())
	_, err := w.Write(f.Bytes())
	return err
}

// WriteDefault writes the default configuration to filename. An existing
// file is only replaced when force is set.
func WriteDefault(filename string, force bool) error {
	return fileutil.Create(filename, fileutil.Options{Perm: 0o644, Overwrite: force}, Default().Encode)
}

package main

import (
	"fmt"
	"os"

	"github.com/lox/fivedraw/internal/config"
)

// ConfigCmd groups the configuration file commands
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write the default configuration file"`
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration"`
}

// ConfigInitCmd writes fivedraw.hcl with every default spelled out
type ConfigInitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run(g *Globals) error {
	if err := config.WriteDefault(g.Config, c.Force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", g.Config)
	return nil
}

// ConfigShowCmd prints the configuration after the file and environment
// have been applied
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	return cfg.Encode(os.Stdout)
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lox/fivedraw/internal/phh"
)

// HistoryCmd prints the rounds recorded in a PHH session file
type HistoryCmd struct {
	File  string `arg:"" name:"file" help:"Path to a session file written with --history"`
	Limit int    `help:"Maximum number of rounds to print (0 = all)"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	f, err := os.Open(filepath.Clean(c.File))
	if err != nil {
		return err
	}
	defer f.Close()

	hands, err := phh.Decode(f)
	if err != nil {
		return err
	}
	if len(hands) == 0 {
		return fmt.Errorf("no rounds found in %s", c.File)
	}

	limit := c.Limit
	if limit <= 0 || limit > len(hands) {
		limit = len(hands)
	}
	for _, hand := range hands[:limit] {
		printHand(os.Stdout, hand)
	}
	return nil
}

func printHand(w io.Writer, h phh.HandHistory) {
	fmt.Fprintf(w, "*** ROUND %d *** %s %d-%02d-%02d %s\n", h.Round, h.HandID, h.Year, h.Month, h.Day, h.Time)
	for i, name := range h.Players {
		fmt.Fprintf(w, "  p%d %s", i+1, name)
		if i < len(h.StartingStacks) {
			fmt.Fprintf(w, ": %d", h.StartingStacks[i])
		}
		if i < len(h.FinishingStacks) {
			fmt.Fprintf(w, " -> %d", h.FinishingStacks[i])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(h.Actions, "; "))
	if outcome, ok := h.Metadata["outcome"]; ok {
		fmt.Fprintf(w, "  %s, pot %v\n", outcome, h.Metadata["pot"])
	}
	fmt.Fprintln(w)
}

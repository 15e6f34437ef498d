package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/lox/fivedraw/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	tbl, err := table.New(
		table.WithClock(quartz.NewMock(t)),
		table.WithRand(randutil.New(7)),
		table.WithLogger(logger),
	)
	require.NoError(t, err)

	m := New(tbl, logger)
	t.Cleanup(m.Close)
	require.NoError(t, tbl.Start())
	t.Cleanup(tbl.Stop)
	pump(m)
	return m
}

// pump feeds every queued table event through Update
func pump(m *Model) {
	for {
		select {
		case e := <-m.events:
			m.Update(EventMsg{Event: e})
		default:
			return
		}
	}
}

func typeLine(m *Model, line string) tea.Cmd {
	m.actionInput.SetValue(line)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pump(m)
	return cmd
}

func logContains(m *Model, s string) bool {
	for _, line := range m.Log() {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func TestModelPlaysRound(t *testing.T) {
	m := newTestModel(t)
	assert.True(t, logContains(m, "ROUND 1"))
	assert.Equal(t, game.PhaseAnte, m.state.Phase)

	// Enter skips the ante and deal pauses
	typeLine(m, "")
	typeLine(m, "")
	require.Equal(t, game.PhaseFirstBetting, m.state.Phase)
	require.True(t, m.humanToAct())
	assert.Len(t, m.state.Human().Hand, game.HandSize)
	assert.True(t, logContains(m, "PLAYER: dealt ["))
	assert.True(t, logContains(m, "CPU: dealt 5 cards"))

	typeLine(m, "raise")
	assert.Empty(t, m.Status())
	assert.Equal(t, 140, m.state.Pot.Amount())
	assert.Equal(t, 880, m.state.Human().Stack)
	assert.Equal(t, game.ComputerSeat, m.state.Turn)
	assert.True(t, logContains(m, "PLAYER: raises"))
}

func TestModelReportsRejectedCommands(t *testing.T) {
	m := newTestModel(t)

	typeLine(m, "shove")
	assert.Contains(t, m.Status(), "unknown command")

	typeLine(m, "call")
	assert.Contains(t, m.Status(), "illegal action")
	assert.Equal(t, game.PhaseAnte, m.state.Phase, "rejected commands leave the round unchanged")

	typeLine(m, "hint")
	assert.Contains(t, m.Status(), "during the draw")

	typeLine(m, "help")
	assert.True(t, logContains(m, "Commands:"))
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)

	cmd := typeLine(m, "quit")
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	// closing twice is harmless
	m.Close()
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	typeLine(m, "")
	typeLine(m, "")

	view := m.View()
	assert.Contains(t, view, "Round 1")
	assert.Contains(t, view, "Pot: 40")
	assert.Contains(t, view, "PLAYER: 980")
	assert.Contains(t, view, "[raise 100]")
	assert.Contains(t, view, "1:")
}

func TestParseCommand(t *testing.T) {
	hand := deck.MustParseCards("AsKhQd7c2s")

	tests := []struct {
		name    string
		input   string
		want    Command
		wantErr bool
	}{
		{"empty advances", "", Command{Kind: CommandAdvance}, false},
		{"next", "next", Command{Kind: CommandAdvance}, false},
		{"short raise", "r", Command{Kind: CommandAction, Action: game.Raise}, false},
		{"upper case", "CALL", Command{Kind: CommandAction, Action: game.Call}, false},
		{"positions", "draw 4 5", Command{Kind: CommandDiscard, Discard: deck.MustParseCards("7c2s")}, false},
		{"codes", "discard 7C 2s", Command{Kind: CommandDiscard, Discard: deck.MustParseCards("7c2s")}, false},
		{"pat", "pat", Command{Kind: CommandDiscard, Discard: []deck.Card{}}, false},
		{"restart", "new", Command{Kind: CommandRestart}, false},
		{"quit", "q", Command{Kind: CommandQuit}, false},
		{"position out of range", "draw 6", Command{}, true},
		{"bad card", "draw Zz", Command{}, true},
		{"draw nothing", "draw", Command{}, true},
		{"raise amount", "raise 50", Command{}, true},
		{"unknown", "allin", Command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.input, hand)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatHandNumbersCards(t *testing.T) {
	out := FormatHand(deck.MustParseCards("AsKh"))
	assert.Contains(t, out, "1:")
	assert.Contains(t, out, "A♠")
	assert.Contains(t, out, "2:")
	assert.Contains(t, out, "K♥")
}

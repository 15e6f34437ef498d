// Package tui is the terminal front end for a table: a scrolling round log,
// a sidebar with the chip counts and an input line for commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/discard"
	"github.com/lox/fivedraw/internal/evaluator"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/lox/fivedraw/internal/table"
)

// eventBuffer must hold every event a single transition can publish, since
// commands are submitted from Update while Update is the only reader.
const eventBuffer = 1024

// hintSamples is the Monte Carlo sample count behind the equity shown by hint
const hintSamples = 2000

const (
	paneLog = iota
	paneInput
)

var helpLines = []string{
	"Commands:",
	"  check | call | raise | fold   bet when it is your turn",
	"  draw 1 4  or  draw As Td      exchange cards during the draw",
	"  pat                           keep all five cards",
	"  hint                          suggest a draw",
	"  Enter                         skip the current pause",
	"  new                           start over after game over",
	"  quit                          leave the table",
}

// EventMsg carries a table event into the program
type EventMsg struct {
	Event game.Event
}

// Model is the Bubble Tea model for one table
type Model struct {
	table       *table.Table
	logger      *log.Logger
	formatter   *game.EventFormatter
	events      chan game.Event
	done        chan struct{}
	unsubscribe func()
	rng         *rand.Rand

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	state       game.RoundState
	over        bool
	status      string
	statusStyle lipgloss.Style
	focusedPane int
	quitting    bool

	width       int
	height      int
	initialized bool
}

// New creates a model showing t from the human's seat. It subscribes to t
// immediately so that events published before the program starts are kept.
func New(t *table.Table, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter to continue, 'help' for commands"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = PromptStyle
	ti.TextStyle = GameLogStyle
	ti.Prompt = "> "

	m := &Model{
		table:  t,
		logger: logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{
			Perspective: game.HumanSeat,
		}),
		events:      make(chan game.Event, eventBuffer),
		done:        make(chan struct{}),
		logViewport: vp,
		actionInput: ti,
		state:       t.Snapshot(),
		over:        t.Over(),
		focusedPane: paneInput,
		rng:         randutil.New(randutil.Seed(0)),
	}
	m.unsubscribe = t.Subscribe(game.SubscriberFunc(m.enqueue))
	return m
}

func (m *Model) enqueue(event game.Event) {
	select {
	case m.events <- event:
	case <-m.done:
	}
}

// Close detaches the model from its table
func (m *Model) Close() {
	select {
	case <-m.done:
		return
	default:
	}
	close(m.done)
	m.unsubscribe()
}

// Init starts listening for table events
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.events:
			return EventMsg{Event: e}
		case <-m.done:
			return nil
		}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case EventMsg:
		m.handleEvent(msg.Event)
		cmds = append(cmds, m.waitForEvent())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == paneLog {
				m.focusedPane = paneInput
				m.actionInput.Focus()
			} else {
				m.focusedPane = paneLog
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == paneInput {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.handleInput(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == paneLog {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == paneLog {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == paneInput {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.Close()
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

func (m *Model) handleEvent(event game.Event) {
	if line := m.formatter.Format(event); line != "" {
		m.AddLogEntry(line)
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.state = m.table.Snapshot()
	m.over = m.table.Over()
}

// handleInput runs one typed command against the table
func (m *Model) handleInput(input string) tea.Cmd {
	cmd, err := ParseCommand(input, m.state.Human().Hand)
	if err != nil {
		m.setStatus(err.Error(), ErrorStyle)
		return nil
	}

	m.setStatus("", InfoStyle)
	switch cmd.Kind {
	case CommandQuit:
		return m.quit()
	case CommandHelp:
		for _, line := range helpLines {
			m.AddLogEntry(InfoStyle.Render(line))
		}
		return nil
	case CommandHint:
		m.hint()
		return nil
	case CommandAdvance:
		err = m.table.AdvanceAfterDelay()
		if errors.Is(err, game.ErrAwaitingHuman) {
			m.setStatus(m.prompt(), WarningStyle)
			return nil
		}
	case CommandAction:
		err = m.table.SubmitAction(cmd.Action)
	case CommandDiscard:
		err = m.table.SubmitDiscards(cmd.Discard)
	case CommandRestart:
		err = m.table.Restart()
	}

	if err != nil {
		m.logger.Debug("Command rejected", "input", input, "error", err)
		m.setStatus(err.Error(), ErrorStyle)
	}
	m.refresh()
	return nil
}

func (m *Model) hint() {
	if m.state.Phase != game.PhaseChangeHand || !m.humanToAct() {
		m.setStatus("Hints are available during the draw", WarningStyle)
		return
	}
	hand := m.state.Human().Hand
	cards, err := discard.Advise(hand)
	if err != nil {
		m.setStatus(err.Error(), ErrorStyle)
		return
	}
	equity, err := evaluator.EstimateEquity(context.Background(), hand, hintSamples, m.rng)
	if err != nil {
		m.setStatus(err.Error(), ErrorStyle)
		return
	}
	odds := fmt.Sprintf("(your hand beats a random hand %.0f%% of the time)", equity*100)
	if len(cards) == 0 {
		m.setStatus("Suggestion: stand pat "+odds, SuccessStyle)
		return
	}
	m.setStatus("Suggestion: draw "+deck.FormatCards(cards)+" "+odds, SuccessStyle)
}

func (m *Model) setStatus(status string, style lipgloss.Style) {
	m.status = status
	m.statusStyle = style
}

func (m *Model) humanToAct() bool {
	return !m.over && m.state.Turn == game.HumanSeat && m.state.NextStep() == game.StepAwaitHuman
}

// prompt describes what the human can type right now
func (m *Model) prompt() string {
	switch {
	case m.over:
		return "Game over, type 'new' to play again"
	case !m.humanToAct():
		return "Enter to continue, 'help' for commands"
	case m.state.Phase == game.PhaseChangeHand:
		return "Draw: 'draw 1 3', 'draw As Kd' or 'pat'"
	}
	return "Your turn: check, call, raise or fold"
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := paneStyle(m.focusedPane == paneInput).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	// Sidebar (right of the log, same height)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebarPane := paneStyle(false).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := paneStyle(m.focusedPane == paneLog).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the pot and both players' chips
func (m *Model) renderSidebarPane() string {
	s := m.state
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" Round %d ", s.Number)))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(s.Phase.String()))
	content.WriteString("\n\n")

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: %d", s.Pot.Amount())))
	if s.CurrentBet > 0 {
		content.WriteString(" | ")
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: %d", s.CurrentBet)))
	}
	content.WriteString("\n")
	if s.Phase.IsBetting() && s.Rules.MaxRaises > 0 {
		content.WriteString(InfoStyle.Render(fmt.Sprintf("Raises: %d/%d", s.Raises, s.Rules.MaxRaises)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	for _, p := range s.Players {
		line := fmt.Sprintf("%s: %d", p.Name, p.Stack)
		if p.Bet > 0 {
			line += fmt.Sprintf(" (bet %d)", p.Bet)
		}
		if p.Folded() {
			line += " folded"
		}
		style := PlayerInfoStyle
		if s.Turn == p.Seat {
			style = ActionsStyle
		}
		content.WriteString(style.Render(line))
		content.WriteString("\n")
	}

	if m.over {
		content.WriteString("\n")
		content.WriteString(ErrorStyle.Render("GAME OVER"))
		content.WriteString("\n")
	}
	return content.String()
}

// renderActionPane shows the hand, the legal commands and the input line
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if hand := m.state.Human().Hand; len(hand) > 0 {
		content.WriteString(HandInfoStyle.Render("Hand: "))
		content.WriteString(FormatHand(hand))
		content.WriteString("\n")
	}

	if m.humanToAct() && m.state.Phase.IsBetting() {
		content.WriteString(m.renderAvailableActions())
		content.WriteString("\n")
	}

	if m.status != "" {
		content.WriteString(m.statusStyle.Render(m.status))
		content.WriteString("\n")
	}

	m.actionInput.Placeholder = m.prompt()
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == paneLog {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))
	return content.String()
}

func (m *Model) renderAvailableActions() string {
	var actions []string
	for _, a := range m.table.ValidActions() {
		switch a {
		case game.Fold:
			actions = append(actions, ErrorStyle.Render("[fold]"))
		case game.Check:
			actions = append(actions, SuccessStyle.Render("[check]"))
		case game.Call:
			owed := m.state.CurrentBet - m.state.Players[game.HumanSeat].Bet
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call %d]", owed)))
		case game.Raise:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[raise %d]", m.state.Rules.RaiseIncrement)))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Actions: ") + strings.Join(actions, " ")
}

// AddLogEntry appends a line to the round log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the round log
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Status returns the message shown above the input line
func (m *Model) Status() string {
	return m.status
}

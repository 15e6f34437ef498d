package server

import (
	"encoding/json"
	"time"

	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/game"
)

// MessageType represents a WebSocket message type
type MessageType string

const (
	// Client to server messages
	MessageTypeAction   MessageType = "action"
	MessageTypeDiscard  MessageType = "discard"
	MessageTypeAdvance  MessageType = "advance"
	MessageTypeRestart  MessageType = "restart"
	MessageTypeGetState MessageType = "get_state"

	// Server to client messages. Round events use their event type name.
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type ActionData struct {
	Action string `json:"action"`
}

type DiscardData struct {
	Cards []string `json:"cards"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HiddenExchangeData reports the computer's exchange without its cards
type HiddenExchangeData struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PlayerState is one seat as the human is allowed to see it
type PlayerState struct {
	Seat       int         `json:"seat"`
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Stack      int         `json:"stack"`
	Bet        int         `json:"bet"`
	Phase      string      `json:"phase"`
	LastAction game.Action `json:"last_action"`
	Hand       []deck.Card `json:"hand,omitempty"`
	Cards      int         `json:"cards"`
}

// StateData is a snapshot of the table
type StateData struct {
	RoundID      string            `json:"round_id"`
	Round        int               `json:"round"`
	Phase        game.RoundPhase   `json:"phase"`
	Pot          int               `json:"pot"`
	CurrentBet   int               `json:"current_bet"`
	Turn         int               `json:"turn"`
	Players      []PlayerState     `json:"players"`
	ValidActions []game.Action     `json:"valid_actions"`
	Result       *game.RoundResult `json:"result,omitempty"`
	GameOver     bool              `json:"game_over"`
}

// StateFromGame builds the human's view of a round. The computer's cards
// stay hidden until showdown.
func StateFromGame(s game.RoundState, over bool) StateData {
	reveal := s.Phase == game.PhaseShowdown ||
		(s.Phase == game.PhaseComplete && s.Result != nil && !s.Result.NoContest)

	players := make([]PlayerState, 0, len(s.Players))
	for _, p := range s.Players {
		ps := PlayerState{
			Seat:       p.Seat,
			Name:       p.Name,
			Type:       p.Type.String(),
			Stack:      p.Stack,
			Bet:        p.Bet,
			Phase:      p.Phase.String(),
			LastAction: p.LastAction,
			Cards:      len(p.Hand),
		}
		if p.IsHuman() || (reveal && !p.Folded()) {
			ps.Hand = p.Hand
		}
		players = append(players, ps)
	}

	valid := s.ValidActions(game.HumanSeat)
	if valid == nil {
		valid = []game.Action{}
	}
	return StateData{
		RoundID:      s.ID,
		Round:        s.Number,
		Phase:        s.Phase,
		Pot:          s.Pot.Amount(),
		CurrentBet:   s.CurrentBet,
		Turn:         s.Turn,
		Players:      players,
		ValidActions: valid,
		Result:       s.Result,
		GameOver:     over,
	}
}

// EventMessage converts a round event into a message, hiding the
// computer's cards from deal and exchange notifications
func EventMessage(event game.Event) (*Message, error) {
	switch e := event.(type) {
	case game.CardsDealtEvent:
		if e.Seat != game.HumanSeat {
			e.Cards = nil
		}
		event = e
	case game.CardsExchangedEvent:
		if e.Seat != game.HumanSeat {
			return NewMessage(MessageType(e.EventType()), HiddenExchangeData{Seat: e.Seat, Name: e.Name, Count: len(e.Drawn)})
		}
	}
	return NewMessage(MessageType(event.EventType()), event)
}

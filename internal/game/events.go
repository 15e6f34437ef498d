package game

import (
	"sync"

	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/evaluator"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypePotChanged         EventType = "pot_changed"
	EventTypePlayerStackChanged EventType = "player_stack_changed"
	EventTypePlayerBetChanged   EventType = "player_bet_changed"
	EventTypeRoundPhaseChanged  EventType = "round_phase_changed"
	EventTypeHandRankRevealed   EventType = "hand_rank_revealed"
	EventTypeRoundResult        EventType = "round_result"
	EventTypeCardsDealt         EventType = "cards_dealt"
	EventTypeActionTaken        EventType = "action_taken"
	EventTypeCardsExchanged     EventType = "cards_exchanged"
	EventTypeTurnChanged        EventType = "turn_changed"
	EventTypeGameOver           EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is a notification emitted by a round transition
type Event interface {
	EventType() EventType
}

// PotChangedEvent carries the new pot total
type PotChangedEvent struct {
	Amount int `json:"amount"`
}

// PlayerStackChangedEvent carries a player's new stack
type PlayerStackChangedEvent struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Stack int    `json:"stack"`
}

// PlayerBetChangedEvent carries a player's new round bet
type PlayerBetChangedEvent struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
	Bet  int    `json:"bet"`
}

// RoundPhaseChangedEvent is emitted on every round phase transition
type RoundPhaseChangedEvent struct {
	RoundID string     `json:"round_id"`
	Round   int        `json:"round"`
	Phase   RoundPhase `json:"phase"`
}

// HandRankRevealedEvent is emitted for each contesting hand at showdown
type HandRankRevealedEvent struct {
	Seat     int                `json:"seat"`
	Name     string             `json:"name"`
	Hand     []deck.Card        `json:"hand"`
	Category evaluator.Category `json:"category"`
	Label    string             `json:"label"`
}

// RoundResultEvent carries the outcome of a finished round
type RoundResultEvent struct {
	Result RoundResult `json:"result"`
}

// CardsDealtEvent is emitted per player when the initial hands are dealt
type CardsDealtEvent struct {
	Seat  int         `json:"seat"`
	Name  string      `json:"name"`
	Cards []deck.Card `json:"cards"`
}

// ActionTakenEvent is emitted after a betting action is applied
type ActionTakenEvent struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	Action     Action `json:"action"`
	Amount     int    `json:"amount"` // Chips moved from stack to pot
	CurrentBet int    `json:"current_bet"`
}

// CardsExchangedEvent is emitted after a player's discard and redraw
type CardsExchangedEvent struct {
	Seat      int         `json:"seat"`
	Name      string      `json:"name"`
	Discarded []deck.Card `json:"discarded"`
	Drawn     []deck.Card `json:"drawn"`
}

// TurnChangedEvent names the seat expected to act next. Seat is NoSeat
// when nobody is to act.
type TurnChangedEvent struct {
	Seat  int        `json:"seat"`
	Phase RoundPhase `json:"phase"`
}

// GameOverEvent is emitted when a player can no longer cover the ante
type GameOverEvent struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Stack  int    `json:"stack"`
	Reason string `json:"reason"`
}

func (PotChangedEvent) EventType() EventType         { return EventTypePotChanged }
func (PlayerStackChangedEvent) EventType() EventType { return EventTypePlayerStackChanged }
func (PlayerBetChangedEvent) EventType() EventType   { return EventTypePlayerBetChanged }
func (RoundPhaseChangedEvent) EventType() EventType  { return EventTypeRoundPhaseChanged }
func (HandRankRevealedEvent) EventType() EventType   { return EventTypeHandRankRevealed }
func (RoundResultEvent) EventType() EventType        { return EventTypeRoundResult }
func (CardsDealtEvent) EventType() EventType         { return EventTypeCardsDealt }
func (ActionTakenEvent) EventType() EventType        { return EventTypeActionTaken }
func (CardsExchangedEvent) EventType() EventType     { return EventTypeCardsExchanged }
func (TurnChangedEvent) EventType() EventType        { return EventTypeTurnChanged }
func (GameOverEvent) EventType() EventType           { return EventTypeGameOver }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(events ...Event)
}

// SimpleEventBus is an in-memory synchronous event bus
type SimpleEventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]EventSubscriber
	order       []int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make(map[int]EventSubscriber),
	}
}

// Subscribe adds a subscriber and returns a function that removes it
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)
	bus.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			bus.mu.Lock()
			defer bus.mu.Unlock()
			delete(bus.subscribers, id)
			for i, v := range bus.order {
				if v == id {
					bus.order = append(bus.order[:i], bus.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers events in order to every subscriber, in subscription
// order.
func (bus *SimpleEventBus) Publish(events ...Event) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, event := range events {
		for _, sub := range subs {
			sub.OnEvent(event)
		}
	}
}

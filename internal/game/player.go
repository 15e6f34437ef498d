package game

import (
	"github.com/lox/fivedraw/internal/deck"
)

// PlayerType distinguishes the interactive player from the computer
type PlayerType int

const (
	Human PlayerType = iota
	Computer
)

func (t PlayerType) String() string {
	return [...]string{"human", "computer"}[t]
}

// PlayerPhase is the stage of the round a player is in
type PlayerPhase int

const (
	FirstBetting PlayerPhase = iota
	ChangeCard
	SecondBetting
)

func (p PlayerPhase) String() string {
	return [...]string{"first_betting", "change_card", "second_betting"}[p]
}

// Player is one participant's ledger record
type Player struct {
	Seat       int
	Name       string
	Type       PlayerType
	Stack      int
	Bet        int // Chips wagered in the current betting round
	Phase      PlayerPhase
	LastAction Action // NoAction until the player acts in the current phase
	Hand       []deck.Card
}

// AddBet increments the round bet. The stack is not consulted.
func (p *Player) AddBet(amount int) {
	p.Bet += amount
}

// ClearBet zeroes the round bet without touching the stack
func (p *Player) ClearBet() {
	p.Bet = 0
}

// Debit removes chips from the stack
func (p *Player) Debit(amount int) {
	p.Stack -= amount
}

// Credit adds chips to the stack
func (p *Player) Credit(amount int) {
	p.Stack += amount
}

// IsHuman reports whether the player is the interactive one
func (p *Player) IsHuman() bool {
	return p.Type == Human
}

// Folded reports whether the player has left this round
func (p *Player) Folded() bool {
	return p.LastAction == Fold
}

// clone returns a copy that shares no slices with p
func (p Player) clone() Player {
	if p.Hand != nil {
		hand := make([]deck.Card, len(p.Hand))
		copy(hand, p.Hand)
		p.Hand = hand
	}
	return p
}

// holds reports the index of card in the player's hand, or -1
func (p *Player) holds(card deck.Card) int {
	for i, c := range p.Hand {
		if c == card {
			return i
		}
	}
	return -1
}

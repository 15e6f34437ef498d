package game

import (
	"fmt"
	"slices"

	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/evaluator"
)

// Seats
const (
	HumanSeat    = 0
	ComputerSeat = 1
	NumSeats     = 2
	NoSeat       = -1
)

// HandSize is the number of cards each player holds
const HandSize = evaluator.HandSize

// RoundState is the complete state of the table between transitions
type RoundState struct {
	Rules      Rules
	ID         string
	Number     int // Rounds started this session
	Phase      RoundPhase
	Players    []Player
	Pot        Pot
	CurrentBet int
	Raises     int // Raises in the current betting round
	Turn       int // Seat expected to act, or NoSeat
	AntePosted bool
	Dealt      bool
	Deck       deck.Deck
	Result     *RoundResult // Set once the round is complete
}

// NewRoundState seats the two players. The returned state is Complete so
// the first transition is always ResetRound.
func NewRoundState(opts ...RoundOption) RoundState {
	rules := DefaultRules()
	for _, opt := range opts {
		opt(&rules)
	}

	return RoundState{
		Rules: rules,
		Phase: PhaseComplete,
		Turn:  NoSeat,
		Players: []Player{
			{Seat: HumanSeat, Name: rules.HumanName, Type: Human, Stack: rules.Stacks[HumanSeat]},
			{Seat: ComputerSeat, Name: rules.ComputerName, Type: Computer, Stack: rules.Stacks[ComputerSeat]},
		},
	}
}

// Human returns a copy of the human player's record
func (s RoundState) Human() Player {
	return s.Players[HumanSeat].clone()
}

// Computer returns a copy of the computer player's record
func (s RoundState) Computer() Player {
	return s.Players[ComputerSeat].clone()
}

// Contesting returns the seats that have not folded
func (s RoundState) Contesting() []int {
	var seats []int
	for seat := range s.Players {
		if !s.Players[seat].Folded() {
			seats = append(seats, seat)
		}
	}
	return seats
}

// TotalChips returns all stacks plus the pot
func (s RoundState) TotalChips() int {
	total := s.Pot.Amount()
	for _, p := range s.Players {
		total += p.Stack
	}
	return total
}

// ShortStacked returns the first seat that cannot continue into another
// round: a stack that pays the ante but cannot cover it, or one that is
// empty.
func (s RoundState) ShortStacked() (int, bool) {
	for seat := range s.Players {
		p := &s.Players[seat]
		if p.Stack <= 0 || (s.Rules.paysAnte(p) && p.Stack < s.Rules.Ante) {
			return seat, true
		}
	}
	return NoSeat, false
}

func (r Rules) paysAnte(p *Player) bool {
	return p.IsHuman() || r.SymmetricAnte
}

// Clone returns a deep copy of the state
func (s RoundState) Clone() RoundState {
	c := s
	c.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	c.Deck = s.Deck.Clone()
	if s.Result != nil {
		r := s.Result.clone()
		c.Result = &r
	}
	return c
}

// nextSeat returns the first seat after from, wrapping, that satisfies ok
func (s RoundState) nextSeat(from int, ok func(p *Player) bool) int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i + n) % n
		if ok(&s.Players[seat]) {
			return seat
		}
	}
	return NoSeat
}

// firstSeat returns the lowest seat that satisfies ok
func (s RoundState) firstSeat(ok func(p *Player) bool) int {
	return s.nextSeat(len(s.Players)-1, ok)
}

func contesting(p *Player) bool { return !p.Folded() }

func exchanging(p *Player) bool { return !p.Folded() && p.Phase == ChangeCard }

// transition accumulates a new state and its notifications. It always
// works on a deep copy so the caller's state is untouched on error.
type transition struct {
	s      RoundState
	events []Event
}

func (s RoundState) begin() *transition {
	return &transition{s: s.Clone()}
}

func (t *transition) emit(events ...Event) {
	t.events = append(t.events, events...)
}

func (t *transition) finish() (RoundState, []Event, error) {
	return t.s, t.events, nil
}

func (t *transition) setPhase(phase RoundPhase) {
	t.s.Phase = phase
	t.emit(RoundPhaseChangedEvent{RoundID: t.s.ID, Round: t.s.Number, Phase: phase})
}

func (t *transition) setTurn(seat int) {
	t.s.Turn = seat
	t.emit(TurnChangedEvent{Seat: seat, Phase: t.s.Phase})
}

// wager moves chips from a stack into the bet and the pot
func (t *transition) wager(seat, amount int) {
	p := &t.s.Players[seat]
	p.AddBet(amount)
	p.Debit(amount)
	t.s.Pot.Add(amount)
	t.emit(
		PlayerBetChangedEvent{Seat: seat, Name: p.Name, Bet: p.Bet},
		PlayerStackChangedEvent{Seat: seat, Name: p.Name, Stack: p.Stack},
		PotChangedEvent{Amount: t.s.Pot.Amount()},
	)
}

// returnUncalled gives back every bet above level after an all-in call
// for less. The refunded bets now stand as calls of level.
func (t *transition) returnUncalled(level int) {
	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		excess := p.Bet - level
		if excess <= 0 {
			continue
		}
		p.Bet = level
		p.Credit(excess)
		t.s.Pot.take(excess)
		if p.LastAction == Raise {
			p.LastAction = Call
		}
		t.emit(
			PlayerBetChangedEvent{Seat: seat, Name: p.Name, Bet: p.Bet},
			PlayerStackChangedEvent{Seat: seat, Name: p.Name, Stack: p.Stack},
			PotChangedEvent{Amount: t.s.Pot.Amount()},
		)
	}
	t.s.CurrentBet = level
}

func (t *transition) clearBets() {
	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		if p.Bet != 0 {
			p.ClearBet()
			t.emit(PlayerBetChangedEvent{Seat: seat, Name: p.Name, Bet: 0})
		}
	}
}

// ResetRound starts a new round with the given deck. Stacks carry over;
// everything else returns to its initial value.
func (s RoundState) ResetRound(id string, d deck.Deck) (RoundState, []Event, error) {
	if s.Phase != PhaseComplete {
		return s, nil, fmt.Errorf("%w: cannot reset during %s", ErrIllegalAction, s.Phase)
	}
	if need := len(s.Players) * HandSize; d.Remaining() < need {
		return s, nil, fmt.Errorf("reset round: deck has %d cards, need %d: %w", d.Remaining(), need, deck.ErrDeckExhausted)
	}

	t := s.begin()
	t.s.ID = id
	t.s.Number++
	t.s.Deck = d.Clone()
	t.s.Result = nil
	t.s.CurrentBet = 0
	t.s.Raises = 0
	t.s.AntePosted = false
	t.s.Dealt = false
	t.s.Turn = NoSeat
	t.s.Pot.Clear()
	t.emit(PotChangedEvent{Amount: 0})

	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		p.ClearBet()
		p.Hand = nil
		p.Phase = FirstBetting
		p.LastAction = NoAction
		t.emit(PlayerBetChangedEvent{Seat: seat, Name: p.Name, Bet: 0})
	}

	t.setPhase(PhaseAnte)
	return t.finish()
}

// PostAnte puts every player's ante in the pot. The human's stack always
// pays; the computer's only pays under a symmetric ante.
func (s RoundState) PostAnte() (RoundState, []Event, error) {
	if (s.Phase != PhaseAnte && s.Phase != PhaseDeal) || s.AntePosted {
		return s, nil, fmt.Errorf("%w: no ante expected during %s", ErrIllegalAction, s.Phase)
	}
	for seat := range s.Players {
		p := &s.Players[seat]
		if s.Rules.paysAnte(p) && p.Stack < s.Rules.Ante {
			return s, nil, fmt.Errorf("%w: %s has %d, ante is %d", ErrInsufficientChips, p.Name, p.Stack, s.Rules.Ante)
		}
	}

	t := s.begin()
	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		if t.s.Rules.paysAnte(p) {
			p.Debit(t.s.Rules.Ante)
			t.emit(PlayerStackChangedEvent{Seat: seat, Name: p.Name, Stack: p.Stack})
		}
		t.s.Pot.Add(t.s.Rules.Ante)
		t.emit(PotChangedEvent{Amount: t.s.Pot.Amount()})
	}
	t.s.AntePosted = true
	t.afterSetup()
	return t.finish()
}

// DealInitialCards deals five cards to each player, human first
func (s RoundState) DealInitialCards() (RoundState, []Event, error) {
	if (s.Phase != PhaseAnte && s.Phase != PhaseDeal) || s.Dealt {
		return s, nil, fmt.Errorf("%w: no deal expected during %s", ErrIllegalAction, s.Phase)
	}

	t := s.begin()
	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		cards, err := t.s.Deck.DrawN(HandSize)
		if err != nil {
			return s, nil, fmt.Errorf("deal to %s: %w", p.Name, err)
		}
		p.Hand = cards
		t.emit(CardsDealtEvent{Seat: seat, Name: p.Name, Cards: slices.Clone(cards)})
	}
	t.s.Dealt = true
	t.afterSetup()
	return t.finish()
}

// afterSetup opens the first betting round once the ante and deal are
// both done, in whichever order they happened
func (t *transition) afterSetup() {
	switch {
	case t.s.AntePosted && t.s.Dealt:
		t.setPhase(PhaseFirstBetting)
		t.setTurn(t.s.firstSeat(contesting))
	case t.s.AntePosted:
		t.setPhase(PhaseDeal)
	}
}

// SubmitAction applies a betting action for seat. Illegal actions return
// an error wrapping ErrIllegalAction and leave the state unchanged.
func (s RoundState) SubmitAction(seat int, a Action) (RoundState, []Event, error) {
	if err := s.legal(seat, a); err != nil {
		return s, nil, err
	}

	t := s.begin()
	p := &t.s.Players[seat]
	paid := 0

	switch a {
	case Call:
		paid = min(t.s.ToCall(seat), p.Stack)
		if paid > 0 {
			t.wager(seat, paid)
		}
	case Raise:
		t.s.CurrentBet += t.s.Rules.RaiseIncrement
		t.s.Raises++
		paid = t.s.CurrentBet - p.Bet
		t.wager(seat, paid)
		// a raise re-opens the betting for everyone still in
		for other := range t.s.Players {
			q := &t.s.Players[other]
			if other != seat && !q.Folded() {
				q.LastAction = NoAction
			}
		}
	}

	p.LastAction = a
	t.emit(ActionTakenEvent{
		Seat:       seat,
		Name:       p.Name,
		Action:     a,
		Amount:     paid,
		CurrentBet: t.s.CurrentBet,
	})
	if a == Call && p.Bet < t.s.CurrentBet {
		t.returnUncalled(p.Bet)
	}

	if err := t.afterAction(seat); err != nil {
		return s, nil, err
	}
	return t.finish()
}

func (t *transition) afterAction(seat int) error {
	remaining := t.s.Contesting()
	if len(remaining) < 2 {
		t.noContest(remaining)
		return nil
	}
	if !t.s.IsBettingEnd() {
		t.setTurn(t.s.nextSeat(seat, contesting))
		return nil
	}
	if t.s.Phase == PhaseFirstBetting {
		t.startExchange()
		return nil
	}
	return t.showdown()
}

func (t *transition) startExchange() {
	t.clearBets()
	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		if !p.Folded() {
			p.Phase = ChangeCard
			p.LastAction = NoAction
		}
	}
	t.setPhase(PhaseChangeHand)
	t.setTurn(t.s.firstSeat(exchanging))
}

// SubmitDiscards replaces the given cards in seat's hand with cards from
// the deck. Replacements take the positions of the discarded cards. An
// empty discard stands pat.
func (s RoundState) SubmitDiscards(seat int, discards []deck.Card) (RoundState, []Event, error) {
	if s.Phase != PhaseChangeHand {
		return s, nil, fmt.Errorf("%w: no exchange during %s", ErrIllegalAction, s.Phase)
	}
	if seat < 0 || seat >= len(s.Players) || seat != s.Turn {
		return s, nil, fmt.Errorf("%w: seat %d is not to act", ErrIllegalAction, seat)
	}
	p := &s.Players[seat]
	if p.Phase != ChangeCard {
		return s, nil, fmt.Errorf("%w: %s has already exchanged", ErrIllegalAction, p.Name)
	}
	if len(discards) > HandSize {
		return s, nil, fmt.Errorf("%w: cannot discard %d cards", ErrIllegalAction, len(discards))
	}

	positions := make([]int, 0, len(discards))
	for _, c := range discards {
		pos := p.holds(c)
		if pos < 0 {
			return s, nil, fmt.Errorf("%w: %s does not hold %s", ErrIllegalAction, p.Name, c)
		}
		if slices.Contains(positions, pos) {
			return s, nil, fmt.Errorf("%w: %s discarded twice", ErrIllegalAction, c)
		}
		positions = append(positions, pos)
	}

	t := s.begin()
	drawn, err := t.s.Deck.DrawN(len(discards))
	if err != nil {
		return s, nil, fmt.Errorf("exchange for %s: %w", p.Name, err)
	}

	q := &t.s.Players[seat]
	for i, pos := range positions {
		q.Hand[pos] = drawn[i]
	}
	q.Phase = SecondBetting
	t.emit(CardsExchangedEvent{
		Seat:      seat,
		Name:      q.Name,
		Discarded: slices.Clone(discards),
		Drawn:     slices.Clone(drawn),
	})

	if next := t.s.firstSeat(exchanging); next != NoSeat {
		t.setTurn(next)
		return t.finish()
	}
	t.startSecondBetting()
	return t.finish()
}

func (t *transition) startSecondBetting() {
	t.s.CurrentBet = 0
	t.s.Raises = 0
	t.clearBets()
	for seat := range t.s.Players {
		p := &t.s.Players[seat]
		if !p.Folded() {
			p.LastAction = NoAction
		}
	}
	t.setPhase(PhaseSecondBetting)
	t.setTurn(t.s.firstSeat(contesting))
}

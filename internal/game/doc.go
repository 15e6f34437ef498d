// Package game implements the five-card-draw round state machine for one
// human and one computer player.
//
// The main type is RoundState, a value that is passed to and returned from
// every transition. Transitions never mutate their receiver: they work on a
// deep copy and return the new state together with the notifications the
// presentation layer should render.
//
// # Basic Usage
//
//	s := game.NewRoundState(game.WithSymmetricAnte(true))
//	s, events, err := s.ResetRound("round-1", deck.New(rng))
//	s, events, err = s.PostAnte()
//	s, events, err = s.DealInitialCards()
//	s, events, err = s.SubmitAction(game.HumanSeat, game.Check)
//	s, events, err = s.ComputerAct(policy)
//
// # Round flow
//
// A round runs Ante → Deal → FirstBetting → ChangeHand → SecondBetting →
// Showdown → Complete. A fold that leaves a single contesting player ends
// the round immediately as a no-contest. ResetRound starts the next round
// from Complete.
//
// # Deterministic Testing
//
// Stack the deck with deck.FromCards to control both hands and the
// replacement cards drawn during the exchange:
//
//	d := deck.FromCards(deck.MustParseCards("AsAh2c3d4h KsKd...")...)
//	s, _, _ = s.ResetRound("test", d)
//
// Cards are dealt five at a time, human first, then exchange replacements
// come off the top of what remains.
package game

package game

import "fmt"

// Defaults for a round
const (
	DefaultAnte           = 20
	DefaultRaiseIncrement = 100
	DefaultStartingStack  = 1000
	DefaultMaxRaises      = 0
	DefaultHumanName      = "PLAYER"
	DefaultComputerName   = "CPU"
)

// Rules holds the fixed parameters of a session
type Rules struct {
	Ante           int
	RaiseIncrement int
	// MaxRaises caps raises per betting round; 0 means unlimited
	MaxRaises int
	// SymmetricAnte debits every player's stack for the ante. When false
	// only the human pays and the computer's contribution is credited to
	// the pot without touching its stack.
	SymmetricAnte bool
	HumanName     string
	ComputerName  string
	// Stacks are the starting stacks indexed by seat
	Stacks [NumSeats]int
}

// DefaultRules returns the standard table rules
func DefaultRules() Rules {
	return Rules{
		Ante:           DefaultAnte,
		RaiseIncrement: DefaultRaiseIncrement,
		MaxRaises:      DefaultMaxRaises,
		HumanName:      DefaultHumanName,
		ComputerName:   DefaultComputerName,
		Stacks:         [NumSeats]int{DefaultStartingStack, DefaultStartingStack},
	}
}

// Validate checks the rules are playable
func (r Rules) Validate() error {
	if r.Ante <= 0 {
		return fmt.Errorf("ante must be positive, got %d", r.Ante)
	}
	if r.RaiseIncrement <= 0 {
		return fmt.Errorf("raise increment must be positive, got %d", r.RaiseIncrement)
	}
	if r.MaxRaises < 0 {
		return fmt.Errorf("max raises must not be negative, got %d", r.MaxRaises)
	}
	for seat, stack := range r.Stacks {
		if stack < r.Ante {
			return fmt.Errorf("seat %d starting stack %d cannot cover the ante %d", seat, stack, r.Ante)
		}
	}
	if r.HumanName == "" || r.ComputerName == "" {
		return fmt.Errorf("player names must not be empty")
	}
	return nil
}

// RoundOption configures the rules of a new RoundState
type RoundOption func(*Rules)

// WithRules replaces the rules wholesale
func WithRules(rules Rules) RoundOption {
	return func(r *Rules) {
		*r = rules
	}
}

// WithAnte sets the ante
func WithAnte(ante int) RoundOption {
	return func(r *Rules) {
		r.Ante = ante
	}
}

// WithRaiseIncrement sets the fixed raise amount
func WithRaiseIncrement(amount int) RoundOption {
	return func(r *Rules) {
		r.RaiseIncrement = amount
	}
}

// WithMaxRaises caps raises per betting round (0 = unlimited)
func WithMaxRaises(n int) RoundOption {
	return func(r *Rules) {
		r.MaxRaises = n
	}
}

// WithSymmetricAnte controls whether the computer's stack pays the ante
func WithSymmetricAnte(symmetric bool) RoundOption {
	return func(r *Rules) {
		r.SymmetricAnte = symmetric
	}
}

// WithStacks sets the starting stacks for the human and computer
func WithStacks(human, computer int) RoundOption {
	return func(r *Rules) {
		r.Stacks = [NumSeats]int{human, computer}
	}
}

// WithNames sets the display names of the two players
func WithNames(human, computer string) RoundOption {
	return func(r *Rules) {
		r.HumanName = human
		r.ComputerName = computer
	}
}

package game

// Pot is the single shared accumulator of chips wagered this round
type Pot struct {
	amount int
}

// Add puts chips in the pot
func (p *Pot) Add(amount int) {
	p.amount += amount
}

func (p *Pot) take(amount int) {
	p.amount -= amount
}

// Clear empties the pot
func (p *Pot) Clear() {
	p.amount = 0
}

// Amount returns the chips in the pot
func (p Pot) Amount() int {
	return p.amount
}

// split divides the pot among n winners. The remainder goes to the first
// winner so no chips are lost.
func (p Pot) split(n int) (share, remainder int) {
	if n <= 0 {
		return 0, p.amount
	}
	return p.amount / n, p.amount % n
}

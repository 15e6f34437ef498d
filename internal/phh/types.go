// Package phh records rounds in the Poker Hand History TOML format. Files
// hold one numbered section per round, like the .phhs session format.
package phh

import "time"

// Variant identifies fixed-limit five card draw. PHH does not define a code
// for it, so this follows the naming of its other fixed-limit draw variants.
const Variant = "F5D"

// HandHistory represents a single round encoded in PHH format.
type HandHistory struct {
	Variant           string         `toml:"variant"`
	Table             string         `toml:"table,omitempty"`
	SeatCount         int            `toml:"seat_count,omitempty"`
	Seats             []int          `toml:"seats,omitempty"`
	Antes             []int          `toml:"antes"`
	BlindsOrStraddles []int          `toml:"blinds_or_straddles"`
	MinBet            int            `toml:"min_bet"`
	StartingStacks    []int          `toml:"starting_stacks"`
	FinishingStacks   []int          `toml:"finishing_stacks,omitempty"`
	Winnings          []int          `toml:"winnings,omitempty"`
	Actions           []string       `toml:"actions"`
	Players           []string       `toml:"players,omitempty"`
	HandID            string         `toml:"hand"`
	Round             int            `toml:"round,omitempty"`
	Time              string         `toml:"time,omitempty"`
	TimeZone          string         `toml:"time_zone,omitempty"`
	Day               int            `toml:"day,omitempty"`
	Month             int            `toml:"month,omitempty"`
	Year              int            `toml:"year,omitempty"`
	Metadata          map[string]any `toml:"metadata,omitempty"`

	Timestamp time.Time `toml:"-"`
}

// SetTimestamp fills the PHH date and time fields from ts
func (h *HandHistory) SetTimestamp(ts time.Time) {
	h.Timestamp = ts
	h.Time = ts.Format("15:04:05")
	h.TimeZone = ts.Location().String()
	h.Day = ts.Day()
	h.Month = int(ts.Month())
	h.Year = ts.Year()
}

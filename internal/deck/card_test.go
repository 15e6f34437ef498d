package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "space separated",
			input: "Ah Kd 2c",
			expected: []Card{
				{Suit: Hearts, Rank: Ace},
				{Suit: Diamonds, Rank: King},
				{Suit: Clubs, Rank: Two},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "As", NewCard(Spades, Ace).String())
	assert.Equal(t, "Td", NewCard(Diamonds, Ten).String())
	assert.Equal(t, "2c", NewCard(Clubs, Two).String())
	assert.Equal(t, "K♥", NewCard(Hearts, King).Display())
	assert.True(t, NewCard(Hearts, King).IsRed())
	assert.False(t, NewCard(Clubs, King).IsRed())
}

func TestCardValid(t *testing.T) {
	assert.True(t, NewCard(Spades, Two).Valid())
	assert.True(t, NewCard(Clubs, Ace).Valid())
	assert.False(t, NewCard(Suit(4), Ace).Valid())
	assert.False(t, NewCard(Hearts, Rank(1)).Valid())
	assert.False(t, Card{}.Valid())
}

func TestCardRoundTrip(t *testing.T) {
	for _, c := range Standard() {
		parsed, err := ParseCard(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Equal(t, []Card{{Suit: Spades, Rank: Ace}}, MustParseCards("As"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestFormatCards(t *testing.T) {
	assert.Equal(t, "As Kd 9c", FormatCards(MustParseCards("AsKd9c")))
	assert.Equal(t, "", FormatCards(nil))
}

func TestCardJSON(t *testing.T) {
	cards := MustParseCards("As Td 2c")
	data, err := json.Marshal(cards)
	require.NoError(t, err)
	assert.Equal(t, `["As","Td","2c"]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cards, decoded)

	var bad Card
	assert.Error(t, json.Unmarshal([]byte(`"Xz"`), &bad))
}

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/randutil"
	"github.com/lox/fivedraw/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireState struct {
	Phase   string `json:"phase"`
	Turn    int    `json:"turn"`
	Pot     int    `json:"pot"`
	Players []struct {
		Seat  int      `json:"seat"`
		Hand  []string `json:"hand"`
		Cards int      `json:"cards"`
		Stack int      `json:"stack"`
	} `json:"players"`
	ValidActions []string `json:"valid_actions"`
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	seen []*Message
}

func startTestServer(t *testing.T) (*Server, *testClient) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})

	tbl, err := table.New(
		table.WithClock(quartz.NewMock(t)),
		table.WithRand(randutil.New(7)),
		table.WithLogger(logger),
	)
	require.NoError(t, err)
	require.NoError(t, tbl.Start())
	t.Cleanup(tbl.Stop)

	srv := NewServer("127.0.0.1:0", tbl, logger)
	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		httpSrv.Close()
	})

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, &testClient{t: t, conn: conn}
}

func (c *testClient) send(mt MessageType, data any) {
	c.t.Helper()
	msg, err := NewMessage(mt, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

// readUntil reads messages until one of type mt arrives
func (c *testClient) readUntil(mt MessageType) *Message {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(c.t, c.conn.ReadJSON(&msg))
		c.seen = append(c.seen, &msg)
		if msg.Type == mt {
			return &msg
		}
	}
}

func (c *testClient) state() wireState {
	c.t.Helper()
	msg := c.readUntil(MessageTypeState)
	var s wireState
	require.NoError(c.t, json.Unmarshal(msg.Data, &s))
	return s
}

func (c *testClient) error() ErrorData {
	c.t.Helper()
	msg := c.readUntil(MessageTypeError)
	var e ErrorData
	require.NoError(c.t, json.Unmarshal(msg.Data, &e))
	return e
}

func TestWebSocketRoundTrip(t *testing.T) {
	srv, client := startTestServer(t)

	s := client.state()
	assert.Equal(t, "ante", s.Phase)
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	client.send(MessageTypeAdvance, struct{}{})
	s = client.state()
	assert.Equal(t, "deal", s.Phase)
	assert.Equal(t, 40, s.Pot)

	client.send(MessageTypeAdvance, struct{}{})
	s = client.state()
	require.Equal(t, "first_betting", s.Phase)
	assert.Equal(t, game.HumanSeat, s.Turn)
	assert.Len(t, s.Players[game.HumanSeat].Hand, game.HandSize)
	assert.Empty(t, s.Players[game.ComputerSeat].Hand, "computer cards are hidden")
	assert.Equal(t, game.HandSize, s.Players[game.ComputerSeat].Cards)
	assert.Equal(t, []string{"check", "call", "raise", "fold"}, s.ValidActions)

	// the computer's deal notification carries no cards
	for _, msg := range client.seen {
		if msg.Type != MessageType(game.EventTypeCardsDealt) {
			continue
		}
		var dealt struct {
			Seat  int      `json:"seat"`
			Cards []string `json:"cards"`
		}
		require.NoError(t, json.Unmarshal(msg.Data, &dealt))
		if dealt.Seat == game.ComputerSeat {
			assert.Empty(t, dealt.Cards)
		} else {
			assert.Len(t, dealt.Cards, game.HandSize)
		}
	}

	client.send(MessageTypeAction, ActionData{Action: "raise"})
	s = client.state()
	assert.Equal(t, game.ComputerSeat, s.Turn)
	assert.Equal(t, 140, s.Pot)
	assert.Equal(t, 880, s.Players[game.HumanSeat].Stack)
}

func TestWebSocketErrors(t *testing.T) {
	_, client := startTestServer(t)
	client.state()

	tests := []struct {
		name string
		mt   MessageType
		data any
		code string
	}{
		{"out of turn", MessageTypeAction, ActionData{Action: "call"}, "illegal_action"},
		{"unknown action", MessageTypeAction, ActionData{Action: "shove"}, "invalid_action"},
		{"bad card", MessageTypeDiscard, DiscardData{Cards: []string{"Zz"}}, "invalid_card"},
		{"bad payload", MessageTypeAction, "call", "invalid_message"},
		{"unknown type", MessageType("join_table"), struct{}{}, "unknown_message_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client.send(tt.mt, tt.data)
			assert.Equal(t, tt.code, client.error().Code)
		})
	}
}

func TestHealth(t *testing.T) {
	srv, _ := startTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestStateFromGameRevealsAtShowdown(t *testing.T) {
	s := game.NewRoundState()
	s.Phase = game.PhaseComplete
	s.Result = &game.RoundResult{}
	s.Players[game.HumanSeat].Hand = deck.MustParseCards("AsKsQsJsTs")
	s.Players[game.ComputerSeat].Hand = deck.MustParseCards("2c3d5h7s9c")

	data := StateFromGame(s, true)
	assert.True(t, data.GameOver)
	assert.Len(t, data.Players[game.ComputerSeat].Hand, game.HandSize)

	s.Result.NoContest = true
	data = StateFromGame(s, false)
	assert.Nil(t, data.Players[game.ComputerSeat].Hand)
}

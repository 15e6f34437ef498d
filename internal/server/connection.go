package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/fivedraw/internal/deck"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/table"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	table     *table.Table
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, t *table.Table, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		table:  t,
		logger: logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed when the connection ends
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A client that cannot keep
// up is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		go c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	var err error
	switch msg.Type {
	case MessageTypeAction:
		var data ActionData
		if jerr := json.Unmarshal(msg.Data, &data); jerr != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		action, perr := game.ParseAction(data.Action)
		if perr != nil {
			c.sendError("invalid_action", perr.Error())
			return
		}
		err = c.table.SubmitAction(action)

	case MessageTypeDiscard:
		var data DiscardData
		if jerr := json.Unmarshal(msg.Data, &data); jerr != nil {
			c.sendError("invalid_message", "Failed to parse discard data")
			return
		}
		cards := make([]deck.Card, 0, len(data.Cards))
		for _, s := range data.Cards {
			card, perr := deck.ParseCard(s)
			if perr != nil {
				c.sendError("invalid_card", perr.Error())
				return
			}
			cards = append(cards, card)
		}
		err = c.table.SubmitDiscards(cards)

	case MessageTypeAdvance:
		err = c.table.AdvanceAfterDelay()

	case MessageTypeRestart:
		err = c.table.Restart()

	case MessageTypeGetState:

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
		return
	}

	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.sendState()
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrAwaitingHuman):
		return "awaiting_player"
	case errors.Is(err, game.ErrInsufficientChips):
		return "insufficient_chips"
	case errors.Is(err, game.ErrIllegalAction):
		return "illegal_action"
	case errors.Is(err, table.ErrGameOver):
		return "game_over"
	case errors.Is(err, table.ErrNotRunning):
		return "not_running"
	}
	return "internal_error"
}

func (c *Connection) sendState() {
	msg, err := NewMessage(MessageTypeState, StateFromGame(c.table.Snapshot(), c.table.Over()))
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}

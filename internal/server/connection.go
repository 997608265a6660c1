package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/internal/layout"
	"github.com/lox/tarotshuffle/internal/seed"
)

// Connection represents a WebSocket connection to a table viewer
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sessionID string
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, sessionID string) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:      conn,
		send:      make(chan *Message, 256),
		sessionID: sessionID,
		server:    server,
		logger:    server.logger.WithPrefix("conn").With("session", sessionID),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SessionID returns the identifier sent to the client on connect
func (c *Connection) SessionID() string {
	return c.sessionID
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

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
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
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

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypePointer:
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse pointer data")
			return
		}
		c.server.seeds.TrackPointer(seed.PointerEvent{X: data.X, Y: data.Y})

	case MessageTypeHover:
		var data HoverData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse hover data")
			return
		}
		if data.Ms > 0 {
			c.server.seeds.AddHoverTime(data.Ms)
		}

	case MessageTypeClick:
		c.server.seeds.TrackClick()

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// handleAction applies a table operation. Shuffles, randomizes and spins
// go through the notice flow; everything else applies immediately.
func (c *Connection) handleAction(data ActionData) {
	table := c.server.table

	var err error
	switch data.Action {
	case ActionShuffle:
		c.server.withNotice(c, data.Action, "Shuffling...", "Shuffled!", table.ShuffleOnce)
	case ActionRandomize:
		c.server.withNotice(c, data.Action, "Randomizing...", "Randomized!", table.Randomize)
	case ActionSpin:
		c.server.withNotice(c, data.Action, "Spinning...", "Spun!", table.Spin)
	case ActionSplit:
		err = table.Split()
	case ActionRejoin:
		err = table.Rejoin()
	case ActionStart:
		err = table.StartContinuous()
	case ActionStop:
		err = table.StopContinuous()
	case ActionDraw:
		var pile layout.Pile
		if pile, err = layout.ParsePile(data.Pile); err == nil {
			_, err = table.Draw(pile)
		}
	case ActionReturn:
		err = table.ReturnCard(data.InstanceID)
	case ActionReturnAll:
		err = table.ReturnAll()
	case ActionReset:
		err = table.Reset()
	case ActionMovePile:
		var pile layout.Pile
		if pile, err = layout.ParsePile(data.Pile); err == nil {
			var p layout.Point
			if p, err = data.point(); err == nil {
				table.SetPosition(pile, p)
			}
		}
	case ActionMoveCard:
		var p layout.Point
		if p, err = data.point(); err == nil {
			err = table.MoveCard(data.InstanceID, layout.Placement{Point: p, Rotation: data.Rotation})
		}
	case ActionFront:
		_, err = table.BringToFront(data.InstanceID)
	case ActionFlip:
		err = table.FlipCard(data.InstanceID)
	case ActionFaceUp:
		table.SetDrawFaceUp(true)
	case ActionFaceDown:
		table.SetDrawFaceUp(false)
	default:
		c.sendError("unknown_action", "Unknown action: "+string(data.Action))
		return
	}

	if err != nil {
		c.sendActionError(data.Action, err)
	}
}

var errMissingPosition = errors.New("x and y are required")

func (d ActionData) point() (layout.Point, error) {
	if d.X == nil || d.Y == nil {
		return layout.Point{}, errMissingPosition
	}
	return layout.Point{X: *d.X, Y: *d.Y}, nil
}

// errorCode maps table errors onto stable wire codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, deckstack.ErrInsufficientCards):
		return "insufficient_cards"
	case errors.Is(err, deckstack.ErrNotSplit):
		return "not_split"
	case errors.Is(err, deckstack.ErrAlreadySplit):
		return "already_split"
	case errors.Is(err, deckstack.ErrEmptyPile):
		return "empty_pile"
	case errors.Is(err, deckstack.ErrUnknownInstance):
		return "unknown_instance"
	default:
		return "invalid_action"
	}
}

func (c *Connection) sendActionError(action Action, err error) {
	c.sendError(errorCode(err), string(action)+": "+err.Error())
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(c.server.clock.Now(), MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}

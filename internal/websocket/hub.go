package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/gemchat/internal/render"
	"github.com/satriahrh/gemchat/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 256 * 1024

	sendBufferSize  = 64
	inboxBufferSize = 16
)

var upgrader = websocket.Upgrader{
	// The widget is served from the same process; access is gated by token, not origin.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub tracks the open chat sockets. Each socket owns exactly one conversation.
type Hub struct {
	// Registered clients.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	manager   *usecase.SessionManager
	markdown  *render.Markdown
	validator *MessageValidator

	// Keepalive timing for new connections.
	pongWait   time.Duration
	pingPeriod time.Duration

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(manager *usecase.SessionManager, markdown *render.Markdown, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		manager:    manager,
		markdown:   markdown,
		validator:  NewMessageValidator(),
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
		logger:     logger,
	}
}

// Run starts the hub's main loop. When ctx ends every open socket is closed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Info("Client registered",
				zap.String("clientID", client.id),
				zap.String("client", client.name))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("clientID", client.id))

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				client.cancel()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info("Hub stopped")
			return
		}
	}
}

// ClientCount returns the number of open sockets
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseIdle closes every socket that has not sent a frame within maxIdle
// and returns how many were closed.
func (h *Hub) CloseIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle).UnixNano()

	h.mu.RLock()
	defer h.mu.RUnlock()

	closed := 0
	for _, client := range h.clients {
		if client.lastActive.Load() < cutoff {
			client.logger.Info("Closing idle client")
			client.cancel()
			closed++
		}
	}
	return closed
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and its conversation.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages. Only converse sends on it
	// once the pumps are running.
	send chan WriteData

	// Frames read by readPump, waiting for converse.
	inbox chan inbound

	id   string
	name string

	// Conversation state, touched only by converse.
	loop    *usecase.Loop
	session *usecase.Session

	// Unix nanoseconds of the last inbound frame.
	lastActive atomic.Int64

	// Cancelled to abort in-flight remote calls and close the socket.
	ctx    context.Context
	cancel context.CancelFunc

	logger *zap.Logger
}

// HandleWebSocket upgrades the request and starts a conversation on it.
// clientName identifies the caller in logs; it may be empty.
func HandleWebSocket(hub *Hub, c echo.Context, clientName string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan WriteData, sendBufferSize),
		inbox:  make(chan inbound, inboxBufferSize),
		id:     id,
		name:   clientName,
		loop:   usecase.NewLoop(hub.manager, logger),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With(zap.String("clientID", id), zap.String("client", clientName)),
	}
	client.touch()

	session, err := client.loop.Start(ctx)
	if err != nil {
		client.logger.Error("Failed to start conversation", zap.Error(err))
		client.rejectAndClose(usecase.ErrorText(err))
		return nil
	}
	client.session = session

	select {
	case hub.register <- client:
	case <-hub.done:
		client.rejectAndClose("server is shutting down")
		return nil
	}

	welcome := NewServerMessage(MessageTypeWelcome, session.ID, usecase.WelcomeMessage)
	client.sendMessage(welcome)

	go client.writePump()
	go client.converse()
	go client.readPump()

	return nil
}

// inbound is one frame from the peer: a valid message or the reason it was rejected
type inbound struct {
	msg    *ClientMessage
	reject string
}

// readPump reads and validates frames and hands them to converse. It keeps
// reading while a remote call is in flight so pongs extend the read deadline.
func (c *Client) readPump() {
	defer close(c.inbox)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}
		c.touch()

		var item inbound
		switch messageType {
		case websocket.TextMessage:
			msg, err := c.hub.validator.ValidateMessage(message)
			if err != nil {
				c.logger.Warn("Rejected message", zap.Error(err))
				item.reject = err.Error()
			} else {
				item.msg = msg
			}
		case websocket.BinaryMessage:
			item.reject = "binary frames are not supported"
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
			continue
		}

		select {
		case c.inbox <- item:
		case <-c.ctx.Done():
			return
		}
	}
}

// converse handles frames one at a time, so a conversation never has more
// than one remote call in flight. It unregisters the client when the peer
// leaves or asks to exit.
func (c *Client) converse() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()

	for item := range c.inbox {
		if item.msg == nil {
			c.sendError(item.reject)
			continue
		}
		if !c.processMessage(item.msg) {
			return
		}
	}
}

// writePump pumps messages from converse to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingPeriod)
	defer func() {
		ticker.Stop()
		c.cancel()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// processMessage handles one validated frame and reports whether the socket stays open
func (c *Client) processMessage(msg *ClientMessage) bool {
	switch msg.Type {
	case MessageTypeMessage:
		return c.handleUserMessage(msg.Text)
	case MessageTypeReset:
		c.handleReset()
	case MessageTypeHistory:
		c.handleHistory()
	}
	return true
}

func (c *Client) handleUserMessage(text string) bool {
	session, out := c.loop.Step(c.ctx, c.session, text)
	c.session = session

	switch out.Action {
	case usecase.ActionExit:
		c.sendMessage(NewServerMessage(MessageTypeFarewell, c.sessionID(), out.Text))
		return false
	case usecase.ActionError:
		c.sendError(out.Text)
	default:
		reply := NewServerMessage(MessageTypeReply, c.sessionID(), out.Text)
		html, err := c.hub.markdown.ToHTML(out.Text)
		if err != nil {
			c.logger.Warn("Failed to render reply", zap.Error(err))
		} else {
			reply.HTML = html
		}
		c.sendMessage(reply)
	}
	return true
}

func (c *Client) handleReset() {
	session, out := c.loop.Reset(c.ctx, c.session)
	c.session = session

	if out.Action != usecase.ActionReset {
		c.sendError(out.Text)
		return
	}
	c.sendMessage(NewServerMessage(MessageTypeReset, c.sessionID(), out.Text))
}

func (c *Client) handleHistory() {
	msg := NewServerMessage(MessageTypeHistory, c.sessionID(), "")
	if c.session != nil {
		msg.Turns = c.session.Transcript.Turns()
	}
	c.sendMessage(msg)
}

func (c *Client) sendError(text string) {
	c.sendMessage(NewServerMessage(MessageTypeError, c.sessionID(), text))
}

// sendMessage queues msg for writePump; frames are dropped when the peer stops reading
func (c *Client) sendMessage(msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Send buffer full, dropping message", zap.String("type", msg.Type))
	}
}

// rejectAndClose writes a single error frame and closes a socket that never started its pumps
func (c *Client) rejectAndClose(text string) {
	defer func() {
		c.cancel()
		c.conn.Close()
	}()

	payload, err := json.Marshal(NewServerMessage(MessageTypeError, "", text))
	if err != nil {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""))
}

func (c *Client) sessionID() string {
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

func (c *Client) touch() {
	c.lastActive.Store(time.Now().UnixNano())
}

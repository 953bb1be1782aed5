package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/preview"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
	eventBuffer    = 256
)

// Observer receives connection and message counts. monitoring.Metrics
// implements it.
type Observer interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

type nopObserver struct{}

func (nopObserver) IncWSConnections()              {}
func (nopObserver) DecWSConnections()              {}
func (nopObserver) RecordWSMessage(string, string) {}

// Hub pushes workspace events and the recomposed preview to every
// connected client. Each client has a bounded send queue; a client whose
// queue is full is disconnected rather than allowed to stall the others.
type Hub struct {
	live     *preview.Live
	logger   *zap.Logger
	observer Observer
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client // Protected by mu

	events      chan workspace.Event
	unsubscribe func()
	closeOnce   sync.Once
}

// NewHub subscribes to m. Call Run to start delivering events.
func NewHub(m *workspace.Manager, live *preview.Live, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		live:     live,
		logger:   logger,
		observer: nopObserver{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 65536,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
		events:  make(chan workspace.Event, eventBuffer),
	}
	h.unsubscribe = m.Subscribe(h.enqueue)
	return h
}

// WithObserver adds connection metrics to the hub
func (h *Hub) WithObserver(o Observer) *Hub {
	if o != nil {
		h.observer = o
	}
	return h
}

// enqueue runs on the mutating goroutine, so it never blocks.
func (h *Hub) enqueue(ev workspace.Event) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn("Stream event queue full, dropping event",
			zap.String("type", string(ev.Type)),
			zap.Uint64("revision", ev.Revision))
	}
}

// Run delivers events until ctx is done. Events that arrive together are
// forwarded individually but share one preview render.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.events:
			h.forward(ev)
		drain:
			for {
				select {
				case ev := <-h.events:
					h.forward(ev)
				default:
					break drain
				}
			}
			if h.Clients() > 0 {
				h.Broadcast(h.previewMessage())
			}
		}
	}
}

func (h *Hub) forward(ev workspace.Event) {
	h.Broadcast(Message{Type: TypeEvent, Event: &ev, Revision: ev.Revision})
}

func (h *Hub) previewMessage() Message {
	doc := h.live.Render()
	return Message{Type: TypePreview, HTML: doc.HTML, Revision: doc.Revision}
}

// Broadcast queues msg for every client and returns how many accepted it.
func (h *Hub) Broadcast(msg Message) int {
	msg = stamp(msg)

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if h.queue(c, msg) {
			delivered++
		}
	}
	return delivered
}

// queue hands msg to c without blocking, dropping c when it is behind.
func (h *Hub) queue(c *client, msg Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		h.logger.Warn("Stream client too slow, disconnecting", zap.String("client_id", c.id))
		h.remove(c)
		return false
	}
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.observer.IncWSConnections()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if ok {
		c.stop()
		h.observer.DecWSConnections()
	}
}

// HandleConnection upgrades the request and serves the client until it
// disconnects. The first message is a hello carrying the current preview.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := newClient(uuid.NewString(), conn)
	h.add(cl)
	h.logger.Info("Stream client connected",
		zap.String("client_id", cl.id),
		zap.String("remote", c.ClientIP()))

	doc := h.live.Render()
	h.queue(cl, stamp(Message{Type: TypeHello, ClientID: cl.id, HTML: doc.HTML, Revision: doc.Revision}))

	go h.writePump(cl)
	h.readPump(cl)

	h.remove(cl)
	h.logger.Info("Stream client disconnected", zap.String("client_id", cl.id))
}

func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
		h.observer.RecordWSMessage("in", msg.Type)

		switch msg.Type {
		case TypePing:
			h.queue(c, stamp(Message{Type: TypePong}))
		case TypePreviewRequest:
			h.queue(c, stamp(h.previewMessage()))
		default:
			h.queue(c, stamp(Message{Type: TypeError, Message: "unknown message type"}))
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				h.remove(c)
				return
			}
			h.observer.RecordWSMessage("out", msg.Type)
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// Close detaches the hub from the workspace and disconnects every client.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.unsubscribe()

		h.mu.Lock()
		clients := h.clients
		h.clients = make(map[string]*client)
		h.mu.Unlock()

		for _, c := range clients {
			c.stop()
			h.observer.DecWSConnections()
		}
	})
}

type client struct {
	id       string
	conn     *websocket.Conn
	send     chan Message
	done     chan struct{}
	stopOnce sync.Once
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

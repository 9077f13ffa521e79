package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"pixel-plaza/internal/logging"
	"pixel-plaza/internal/session"
)

const (
	maxMessageSize = 64 * 1024 // Read limit per inbound message
	writeTimeout   = 5 * time.Second
	pongTimeout    = 60 * time.Second
	pingPeriod     = (pongTimeout * 9) / 10 // Must be shorter than pongTimeout
	sendBufferSize = 64                     // Per-client outbound queue
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		logging.Log.Warnf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// IsAllowedOrigin reports whether a browser origin may connect. Non-browser
// clients (empty origin) and localhost on any port are always allowed;
// additional origins come from ALLOWED_ORIGINS (comma separated), and
// ALLOW_ANY_ORIGIN=true disables the check entirely.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if os.Getenv("ALLOW_ANY_ORIGIN") == "true" {
		return true
	}
	if strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
		return true
	}
	for _, allowed := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if allowed != "" && origin == strings.TrimSpace(allowed) {
			return true
		}
	}
	return false
}

// Conn is the subset of *websocket.Conn the hub writes through. Tests plug
// in a fake to observe fan-out without a network.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Envelope is the wire framing for both directions: a named event plus its
// JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// client is one connected websocket with its outbound queue.
type client struct {
	id        string
	conn      Conn
	ip        string
	send      chan []byte
	pingEvery time.Duration
}

// enqueue pushes a frame without blocking. A slow client drops frames
// rather than stalling the hub loop.
func (c *client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		RecordDroppedMessage()
	}
}

// writePump drains the send queue onto the socket and keeps the connection
// alive with periodic pings, so idle clients are never dropped by the read
// deadline. Runs as one goroutine per client; exits when the queue is closed
// or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub commands. Everything flows through one inbox channel, so commands from
// the same connection keep their order and the session engine only ever runs
// on the hub goroutine.
type connectCmd struct{ c *client }
type disconnectCmd struct{ id string }
type eventCmd struct {
	id    string
	event string
	data  json.RawMessage
}

// Hub owns all live connections and fans out the session engine's outbound
// events to their audiences. One inbound event is fully handled - registry
// mutated, broadcasts enqueued - before the next is taken, which is the
// consistency model the protocol relies on.
type Hub struct {
	engine *session.Engine

	inbox    chan any
	stopChan chan struct{}

	clients map[string]*client

	connLimiter *ConnLimiter
	maxConns    int

	connSeq     atomic.Uint64
	clientCount atomic.Int64
}

// NewHub creates a hub over a session engine.
func NewHub(engine *session.Engine, maxConns, maxPerIP int) *Hub {
	return &Hub{
		engine:      engine,
		inbox:       make(chan any, 256),
		stopChan:    make(chan struct{}),
		clients:     make(map[string]*client),
		connLimiter: NewConnLimiter(maxPerIP),
		maxConns:    maxConns,
	}
}

// Run processes hub commands until Stop. Call from exactly one goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.stopChan:
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			return
		case cmd := <-h.inbox:
			h.handleCommand(cmd)
		}
	}
}

// Stop shuts the hub down and closes every client queue.
func (h *Hub) Stop() {
	close(h.stopChan)
}

func (h *Hub) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case connectCmd:
		h.clients[c.c.id] = c.c
		count := h.clientCount.Add(1)
		UpdateWSConnections(int(count))
		logging.Log.Infof("📱 Client %s connected from %s (%d total)", c.c.id, c.c.ip, count)

	case disconnectCmd:
		cl, ok := h.clients[c.id]
		if !ok {
			return
		}
		delete(h.clients, c.id)
		close(cl.send)
		count := h.clientCount.Add(-1)
		UpdateWSConnections(int(count))

		h.deliver(c.id, h.engine.HandleDisconnect(c.id))
		UpdateParticipants(h.engine.ParticipantCount())
		logging.Log.Infof("📱 Client %s disconnected (%d remaining)", c.id, count)

	case eventCmd:
		RecordInboundEvent(c.event)
		start := time.Now()
		outs := h.engine.Dispatch(c.id, c.event, c.data)
		RecordDispatch(time.Since(start))

		h.deliver(c.id, outs)
		UpdateParticipants(h.engine.ParticipantCount())
	}
}

// deliver fans outbound events to their audiences, in order. Broadcasts are
// enqueued in the same loop turn that mutated the registry, so recipients
// never observe an event whose state change has not been applied.
func (h *Hub) deliver(origin string, outs []session.Outbound) {
	for _, out := range outs {
		data, err := json.Marshal(out.Data)
		if err != nil {
			continue
		}
		frame, err := json.Marshal(Envelope{Event: out.Event, Data: data})
		if err != nil {
			continue
		}

		RecordBroadcast(out.Event, out.Audience.String())

		switch out.Audience {
		case session.AudienceSelf:
			if c, ok := h.clients[origin]; ok {
				c.enqueue(frame)
			}
		case session.AudienceOthers:
			for id, c := range h.clients {
				if id != origin {
					c.enqueue(frame)
				}
			}
		case session.AudienceAll:
			for _, c := range h.clients {
				c.enqueue(frame)
			}
		}
	}
}

// Connect registers a transport with the hub and returns its connection id.
// The id is the participant identity for the connection's whole lifetime.
func (h *Hub) Connect(conn Conn, ip string) string {
	id := h.newConnID()
	c := &client{
		id:        id,
		conn:      conn,
		ip:        ip,
		send:      make(chan []byte, sendBufferSize),
		pingEvery: pingPeriod,
	}
	go c.writePump()
	h.inbox <- connectCmd{c: c}
	return id
}

// Receive feeds one raw inbound frame from a connection. Malformed frames
// are dropped silently, per the protocol's no-fatal-errors contract.
func (h *Hub) Receive(connID string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}
	if env.Event == "" {
		return
	}
	h.inbox <- eventCmd{id: connID, event: env.Event, data: env.Data}
}

// Disconnect removes a connection. Safe to call more than once.
func (h *Hub) Disconnect(connID string) {
	h.inbox <- disconnectCmd{id: connID}
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	return int(h.clientCount.Load())
}

func (h *Hub) newConnID() string {
	seq := h.connSeq.Add(1)
	return fmt.Sprintf("conn_%d_%d", time.Now().UnixNano(), seq)
}

// HandleWebSocket upgrades an HTTP request and pumps its messages into the
// hub until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= h.maxConns {
		logging.Log.Warnf("⚠️ WebSocket connection rejected: total limit reached (%d)", h.maxConns)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.connLimiter.Allow(ip) {
		logging.Log.Warnf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Log.Warnf("WebSocket upgrade error: %v", err)
		h.connLimiter.Release(ip)
		return
	}

	id := h.Connect(conn, ip)

	go func() {
		defer func() {
			h.connLimiter.Release(ip)
			h.Disconnect(id)
		}()

		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongTimeout))
			return nil
		})

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			conn.SetReadDeadline(time.Now().Add(pongTimeout))
			h.Receive(id, payload)
		}
	}()
}

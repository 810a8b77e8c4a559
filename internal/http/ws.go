package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lubsanchez/pos-console/internal/access"
	"github.com/lubsanchez/pos-console/internal/session"
)

// Session channel message types.
const (
	WSTypeNavigate   = "navigate"
	WSTypeRegion     = "region"
	WSTypeSession    = "session"
	WSTypeFocus      = "focus"
	WSTypeVisibility = "visibility"
	WSTypePing       = "ping"
	WSTypePong       = "pong"
	WSTypeError      = "error"

	RegionInsert = "insert"
	RegionRemove = "remove"

	// wsSendBufferSize is the per-client outbound message buffer size.
	wsSendBufferSize = 64
	wsMaxMessageSize = 4096

	DefaultPingInterval = 30 * time.Second
	DefaultPongWait     = 10 * time.Second
)

// WSMessage is a message sent to or from a browser over the session channel.
type WSMessage struct {
	Type          string `json:"type"`
	Path          string `json:"path,omitempty"`
	Region        string `json:"region,omitempty"`
	Action        string `json:"action,omitempty"`
	URL           string `json:"url,omitempty"`
	Visible       *bool  `json:"visible,omitempty"`
	Authenticated *bool  `json:"authenticated,omitempty"`
	Name          string `json:"name,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Hub tracks the browsers attached to this console. It is the session
// store's Navigator: a session ending moves every attached view to login.
type Hub struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// NewHub creates a new hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger.With("component", "ws_hub"), clients: make(map[*wsClient]struct{})}
}

// Navigate tells every attached browser to load path.
func (h *Hub) Navigate(_ context.Context, path string) {
	h.Broadcast(WSMessage{Type: WSTypeNavigate, Path: path})
}

// Broadcast sends msg to every attached browser. Slow clients drop it.
func (h *Hub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "error", err)
		return
	}

	// Snapshot client list under hub lock, then release before sending
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.trySend(data)
	}
	if len(clients) > 0 {
		h.logger.Debug("broadcast sent", "type", msg.Type, "recipients", len(clients))
	}
}

// ClientCount returns the number of attached browsers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every browser.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
		_ = c.conn.Close()
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

// unregister removes c; only the caller that removed it closes its queue.
func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	_, existed := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if existed {
		c.close()
	}
	h.logger.Debug("websocket client disconnected", "clients", n)
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn, send: make(chan []byte, wsSendBufferSize)}
}

// trySend queues data unless the client is gone or its buffer is full.
func (c *wsClient) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *wsClient) sendMessage(msg WSMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}
	return c.trySend(data)
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// SessionSubscriber yields session event subscriptions. *session.Store satisfies it.
type SessionSubscriber interface {
	Subscribe() *session.Subscription
}

// FreshnessTrigger asks for an out-of-band validation. *session.Monitor satisfies it.
type FreshnessTrigger interface {
	Trigger(ctx context.Context, t session.Trigger) bool
}

// SessionChannelOptions groups dependencies for SessionChannel.
type SessionChannelOptions struct {
	Hub       *Hub
	Session   SessionSubscriber
	Monitor   FreshnessTrigger
	Evaluator *access.Evaluator
	Regions   *Regions
	Logger    *slog.Logger

	PingInterval time.Duration
	PongWait     time.Duration
}

// SessionChannel serves /ws/session. Each connection gets one gate per
// region that tells the browser to insert or remove the region as the
// operator's identity changes, forwards focus and visibility signals to the
// freshness monitor, and receives navigation commands from the hub.
type SessionChannel struct {
	opts     SessionChannelOptions
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewSessionChannel constructs a SessionChannel.
func NewSessionChannel(opts SessionChannelOptions) *SessionChannel {
	if opts.PingInterval <= 0 {
		opts.PingInterval = DefaultPingInterval
	}
	if opts.PongWait <= 0 {
		opts.PongWait = DefaultPongWait
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionChannel{
		opts: opts,
		// The default CheckOrigin rejects cross-origin upgrades.
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		logger:   logger.With("component", "session_channel"),
	}
}

// ServeHTTP upgrades the connection and blocks until the browser leaves.
func (c *SessionChannel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := newWSClient(conn)
	c.opts.Hub.register(client)

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writePump(client)
	}()

	c.startGates(ctx, &wg, client)
	c.startSessionForwarder(ctx, &wg, client)

	c.readPump(ctx, &wg, client)

	cancel()
	c.opts.Hub.unregister(client)
	wg.Wait()
	_ = conn.Close()
}

func (c *SessionChannel) startGates(ctx context.Context, wg *sync.WaitGroup, client *wsClient) {
	for _, region := range c.opts.Regions.All() {
		region := region
		gate := access.NewGate(c.opts.Evaluator, region.Requirement, access.GateHooks{
			Mount: func(context.Context) error {
				client.sendMessage(WSMessage{
					Type:   WSTypeRegion,
					Region: region.Name,
					Action: RegionInsert,
					URL:    "/fragments/" + region.Name,
				})
				return nil
			},
			Unmount: func(context.Context) {
				client.sendMessage(WSMessage{Type: WSTypeRegion, Region: region.Name, Action: RegionRemove})
			},
		}, c.logger)

		sub := c.opts.Session.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sub.Cancel()
			gate.Run(ctx, sub)
		}()
	}
}

// startSessionForwarder mirrors identity changes so the header can update.
func (c *SessionChannel) startSessionForwarder(ctx context.Context, wg *sync.WaitGroup, client *wsClient) {
	sub := c.opts.Session.Subscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer sub.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				if ev.Kind != session.EventIdentity {
					continue
				}
				authenticated := ev.Identity != nil
				msg := WSMessage{Type: WSTypeSession, Authenticated: &authenticated}
				if ev.Identity != nil {
					msg.Name = ev.Identity.FullName
				}
				client.sendMessage(msg)
			}
		}
	}()
}

func (c *SessionChannel) readPump(ctx context.Context, wg *sync.WaitGroup, client *wsClient) {
	deadline := c.opts.PingInterval + c.opts.PongWait
	client.conn.SetReadLimit(wsMaxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(deadline))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			} else {
				c.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message keeps the connection alive.
		_ = client.conn.SetReadDeadline(time.Now().Add(deadline))
		c.handleMessage(ctx, wg, client, data)
	}
}

func (c *SessionChannel) handleMessage(ctx context.Context, wg *sync.WaitGroup, client *wsClient, data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		client.sendMessage(WSMessage{Type: WSTypeError, Message: "invalid JSON message"})
		return
	}

	switch msg.Type {
	case WSTypePing:
		client.sendMessage(WSMessage{Type: WSTypePong})
	case WSTypeFocus, WSTypeVisibility:
		if msg.Type == WSTypeVisibility && (msg.Visible == nil || !*msg.Visible) {
			return
		}
		trigger, _ := session.ParseTrigger(msg.Type)
		if c.opts.Monitor == nil {
			return
		}
		// Validation may take a round trip; keep reading meanwhile.
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.opts.Monitor.Trigger(ctx, trigger)
		}()
	default:
		client.sendMessage(WSMessage{Type: WSTypeError, Message: "unknown message type: " + msg.Type})
	}
}

func (c *SessionChannel) writePump(client *wsClient) {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			_ = client.conn.SetWriteDeadline(time.Now().Add(c.opts.PongWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(c.opts.PongWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

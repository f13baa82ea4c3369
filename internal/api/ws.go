package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"github.com/playok/telemon/internal/model"
)

const (
	pingInterval = 30 * time.Second
	pingTimeout  = 10 * time.Second
	sendBuffer   = 64
)

// Hub fans collected samples and alerts out to websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	reg     chan *wsClient
	unreg   chan *wsClient
	done    chan struct{} // closed when Run returns
	logger  zerolog.Logger
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu   sync.Mutex
	subs map[string]bool // metric name prefixes; empty means everything
}

type wsMessage struct {
	Type    string               `json:"type"`
	Samples []model.MetricSample `json:"samples,omitempty"`
	Alerts  []model.Alert        `json:"alerts,omitempty"`
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		reg:     make(chan *wsClient, 16),
		unreg:   make(chan *wsClient, 16),
		done:    make(chan struct{}),
		logger:  log.With().Str("component", "ws").Logger(),
	}
}

// Run processes register/unregister events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		case c := <-h.reg:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unreg:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		}
	}
}

// register reports false once the hub has stopped.
func (h *Hub) register(c *wsClient) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.reg <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *wsClient) {
	select {
	case h.unreg <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends each client the samples matching its subscriptions.
func (h *Hub) Broadcast(samples []model.MetricSample) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		matched := c.filter(samples)
		if len(matched) == 0 {
			continue
		}
		data, err := json.Marshal(wsMessage{Type: "metrics", Samples: matched})
		if err != nil {
			continue
		}
		c.offer(data)
	}
}

// BroadcastAlerts sends alerts to all connected clients.
func (h *Hub) BroadcastAlerts(alerts []model.Alert) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}
	data, err := json.Marshal(wsMessage{Type: "alerts", Alerts: alerts})
	if err != nil {
		return
	}
	for c := range h.clients {
		c.offer(data)
	}
}

// offer drops the message when the client is too slow.
func (c *wsClient) offer(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

func (c *wsClient) filter(samples []model.MetricSample) []model.MetricSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.subs) == 0 {
		return samples
	}
	var out []model.MetricSample
	for _, s := range samples {
		for prefix := range c.subs {
			if strings.HasPrefix(s.MetricName, prefix) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func (c *wsClient) setSubs(prefixes []string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range prefixes {
		if on {
			c.subs[p] = true
		} else {
			delete(c.subs, p)
		}
	}
}

// HandleWS upgrades the connection and serves it until the peer leaves.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // local tool, any origin
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("accept")
		return
	}

	client := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		subs: make(map[string]bool),
	}
	if !h.register(client) {
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go client.pingLoop(ctx, cancel)
	go client.writePump(ctx)
	client.readPump(ctx)
}

// pingLoop cancels the connection context when the peer stops answering.
func (c *wsClient) pingLoop(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, pcancel := context.WithTimeout(ctx, pingTimeout)
			err := c.conn.Ping(pctx)
			pcancel()
			if err != nil {
				cancel()
				return
			}
		}
	}
}

func (c *wsClient) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "bye")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg struct {
			Type    string   `json:"type"`
			Metrics []string `json:"metrics"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "subscribe":
			c.setSubs(msg.Metrics, true)
		case "unsubscribe":
			c.setSubs(msg.Metrics, false)
		}
	}
}

func (c *wsClient) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

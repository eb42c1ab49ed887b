package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/dclough/roledash/internal/telemetry"
)

const (
	clientSendBuf = 64
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Frame is the wire format on the live-search WebSocket.
//
//	client -> server: {"type":"search","q":"odeg"}
//	server -> client: {"type":"results","q":"odeg","names":[...]}
//	server -> client: {"type":"snapshot"}           (after a reload)
//	server -> client: {"type":"throttled","q":...}  (rate limit hit)
type Frame struct {
	Type  string   `json:"type"`
	Query string   `json:"q,omitempty"`
	Names []string `json:"names,omitempty"`
	Error string   `json:"error,omitempty"`
}

type wsClient struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
}

// wsHub serves type-ahead search over WebSocket and pushes a snapshot
// notification to every client after a reload so dashboards refetch.
type wsHub struct {
	server     *Server
	queryRate  float64
	queryBurst int

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newWSHub(server *Server, queryRate float64, queryBurst int) *wsHub {
	return &wsHub{
		server:     server,
		queryRate:  queryRate,
		queryBurst: queryBurst,
		clients:    make(map[*wsClient]struct{}),
	}
}

func (h *wsHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("ws: upgrade failed: %v", err)
		return
	}

	c := &wsClient{
		conn:    conn,
		send:    make(chan []byte, clientSendBuf),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(h.queryRate), h.queryBurst),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	telemetry.Metrics.WSClients.Inc()
	telemetry.Debugf("ws: client connected from %s", r.RemoteAddr)

	go h.writePump(c)
	go h.readPump(c)
}

// readPump parses query frames and enqueues responses. Queries run
// against whatever engine is current at the time of the frame.
// On exit it signals writePump via c.done (never closes c.send).
func (h *wsHub) readPump(c *wsClient) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			h.enqueue(c, Frame{Type: "error", Error: "bad frame"})
			continue
		}
		switch f.Type {
		case "search":
			if !c.limiter.Allow() {
				h.enqueue(c, Frame{Type: "throttled", Query: f.Query})
				continue
			}
			telemetry.Metrics.SearchQueries.Inc()
			names := h.server.Engine().Search(f.Query)
			if names == nil {
				names = []string{}
			}
			h.enqueue(c, Frame{Type: "results", Query: f.Query, Names: names})
		default:
			h.enqueue(c, Frame{Type: "error", Query: f.Query, Error: "unknown frame type"})
		}
	}
}

// writePump drains the client's send channel and writes to the WS
// connection. It owns the client lifecycle: on exit it removes the client
// from the hub (so notifySnapshot never sends to a stale channel) and
// closes the connection.
func (h *wsHub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Warnf("ws: write error: %v", err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *wsHub) enqueue(c *wsClient, f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		telemetry.Warnf("ws: marshal frame: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		telemetry.Warnf("ws: dropping frame for slow client")
	}
}

// notifySnapshot tells every connected client that a new snapshot is
// active and cached results should be refetched.
func (h *wsHub) notifySnapshot() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.enqueue(c, Frame{Type: "snapshot"})
	}
}

func (h *wsHub) removeClient(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	telemetry.Metrics.WSClients.Dec()
	telemetry.Debugf("ws: client disconnected")
}

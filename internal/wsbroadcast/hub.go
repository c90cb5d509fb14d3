// Package wsbroadcast implements an optional live-state push channel: a
// gorilla/websocket hub that fans out per-map state updates to whichever
// clients are currently watching that map. It is a read-only mirror of
// state the HTTP API already exposes via polling; the core simulation
// never depends on it.
package wsbroadcast

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is the envelope pushed to every client watching a map.
type Message struct {
	MapID string `json:"mapId"`
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Client is one connected websocket peer, subscribed to a single map.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	mapID string
}

// Hub fans out state-update messages to clients grouped by map id. The
// caller (cmd/gameserver's autotick loop) calls BroadcastState after every
// automatic tick; Hub does not know how a tick happens.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub. Callers must start it with go hub.Run().
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run drives the hub's event loop; it never returns.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case m := <-h.broadcast:
			h.deliver(m)
		}
	}
}

// ServeWS upgrades r to a websocket connection subscribed to mapID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, mapID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wsbroadcast: upgrade failed: %v", err)
		return
	}

	c := &Client{hub: h, conn: conn, send: make(chan []byte, 256), mapID: mapID}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// BroadcastState pushes state (already JSON-ready) to every client watching
// mapID.
func (h *Hub) BroadcastState(mapID string, state any) {
	data, err := json.Marshal(Message{MapID: mapID, Event: "state", Data: state})
	if err != nil {
		log.Printf("wsbroadcast: marshal failed: %v", err)
		return
	}
	h.send(mapID, data)
}

func (h *Hub) send(mapID string, data []byte) {
	for client := range h.clients[mapID] {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) deliver(m *Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("wsbroadcast: marshal failed: %v", err)
		return
	}
	h.send(m.MapID, data)
}

func (h *Hub) registerClient(c *Client) {
	if h.clients[c.mapID] == nil {
		h.clients[c.mapID] = make(map[*Client]bool)
	}
	h.clients[c.mapID][c] = true
}

func (h *Hub) unregisterClient(c *Client) {
	clients, ok := h.clients[c.mapID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.mapID)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("wsbroadcast: read error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

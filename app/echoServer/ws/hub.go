// Live delivery of user-to-user messages over websockets. One
// connection per user; a newer connection replaces the old one.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"voom/model"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte
}

type Hub struct {
	clients    map[int64]*Client
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	log        *slog.Logger
}

type delivery struct {
	userID  int64
	payload []byte
}

type frame struct {
	Type      string         `json:"type"`
	Payload   *model.Message `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 64),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if old, ok := h.clients[c.UserID]; ok {
				close(old.Send)
			}
			h.clients[c.UserID] = c
			h.log.Info("ws client registered", "user_id", c.UserID)

		case c := <-h.unregister:
			if cur, ok := h.clients[c.UserID]; ok && cur == c {
				delete(h.clients, c.UserID)
				close(c.Send)
				h.log.Info("ws client unregistered", "user_id", c.UserID)
			}

		case d := <-h.deliver:
			if c, ok := h.clients[d.userID]; ok {
				select {
				case c.Send <- d.payload:
				default:
					// slow consumer, drop the connection
					delete(h.clients, d.userID)
					close(c.Send)
				}
			}
		}
	}
}

// Notify implements the message service's Notifier: push the stored
// message to the recipient's connection if they are online.
func (h *Hub) Notify(userID int64, m *model.Message) {
	data, err := json.Marshal(frame{Type: "message", Payload: m, Timestamp: time.Now()})
	if err != nil {
		h.log.Error("ws marshal", "err", err)
		return
	}
	h.deliver <- delivery{userID: userID, payload: data}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Serve upgrades the request and pumps frames until the peer goes
// away. The read loop only consumes control frames; sending happens
// over the REST endpoint.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int64) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{UserID: userID, Conn: conn, Send: make(chan []byte, 16)}
	h.register <- c

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		h.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"
	"github.com/jchou1989/XuanteaPOS-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait       = 5 * time.Second
	broadcastBuffer = 256
)

// EventHub pushes bus events to connected dashboard clients.
type EventHub struct {
	clients    map[*websocket.Conn]Subscription
	broadcast  chan events.Event
	register   chan Subscription
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
	log        zerolog.Logger
}

// Subscription is one dashboard connection. An empty Names set means every event.
type Subscription struct {
	Conn   *websocket.Conn
	UserID uint
	Names  map[events.Name]bool
}

func (s Subscription) wants(n events.Name) bool {
	return len(s.Names) == 0 || s.Names[n]
}

func NewEventHub(log zerolog.Logger) *EventHub {
	return &EventHub{
		clients:    make(map[*websocket.Conn]Subscription),
		broadcast:  make(chan events.Event, broadcastBuffer),
		register:   make(chan Subscription),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Attach forwards every bus event to the hub. Events are dropped when the hub is
// too far behind so publishers never block on slow sockets.
func (h *EventHub) Attach(bus *events.Bus) func() {
	return bus.SubscribeAll(func(e events.Event) {
		select {
		case h.broadcast <- e:
		default:
			h.log.Warn().Str(logger.ACTION, "ws_event_dropped").Str("event", string(e.Name)).Msg("hub backlog full")
		}
	})
}

// Run serves register, unregister and broadcast until ctx is done.
func (h *EventHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			h.clients[sub.Conn] = sub
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case e := <-h.broadcast:
			h.mu.Lock()
			for conn, sub := range h.clients {
				if !sub.wants(e.Name) {
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					h.log.Debug().Err(err).Str(logger.ACTION, "ws_write_failed").Msg("dropping client")
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients is the number of open connections.
func (h *EventHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws/events. ?events=new-order,new-transaction narrows
// the stream.
func (h *EventHub) HandleWebSocket(c *gin.Context) {
	names := map[events.Name]bool{}
	if raw := c.Query("events"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			n := events.Name(strings.TrimSpace(part))
			if !n.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown event " + string(n)})
				return
			}
			names[n] = true
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Str(logger.ACTION, "ws_upgrade_failed").Msg("upgrade failed")
		return
	}

	sub := Subscription{Conn: conn, UserID: utils.CurrentUserID(c), Names: names}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go h.readLoop(sub)
}

// readLoop only watches for the client going away; dashboards never send.
func (h *EventHub) readLoop(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub.Conn:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

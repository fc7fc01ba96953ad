package orders

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"solemart/middleware"
	"solemart/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Hub fans order updates out to connected admin dashboards. Delivery is
// best-effort: a slow client is dropped rather than blocking the ledger.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	once       sync.Once
}

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true

		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
			}

		case data := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					close(c.Send)
					delete(h.clients, c)
				}
			}

		case <-h.done:
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// orderUpdate is what admin dashboards receive.
type orderUpdate struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	UserID      string `json:"userId"`
}

// BroadcastOrderUpdate publishes the order's current state to every
// connected dashboard. Drops the update if nobody is draining the hub.
func (h *Hub) BroadcastOrderUpdate(order *models.Order) {
	data, err := json.Marshal(orderUpdate{
		OrderID:     order.OrderID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		UserID:      order.UserID,
	})
	if err != nil {
		log.Println("order update marshal error:", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		log.Println("order update hub is full; dropping update")
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// LiveUpdates upgrades admin dashboard connections. Browsers cannot set an
// Authorization header on a WebSocket, so the token rides in ?token=.
func LiveUpdates(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, err := middleware.ValidateJWT(r.URL.Query().Get("token"))
		if err != nil || claims.Role != models.RoleAdmin {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{Conn: conn, Send: make(chan []byte, 64)}
		hub.register <- client

		go func() {
			defer conn.Close()
			for data := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					break
				}
			}
		}()

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.unregister <- client
					return
				}
			}
		}()
	}
}

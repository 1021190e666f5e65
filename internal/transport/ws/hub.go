package ws

import (
	"encoding/json"
	"sync"

	"mindcheck/internal/metrics"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgAnalysisStep MessageType = "analysis_step"
	MsgError        MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans messages out to the open sockets of each client. One client
// may hold several sockets, one per open tab.
type Hub struct {
	clients map[string]map[*Connection]struct{}
	mu      sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	metrics *metrics.Metrics
	log     *zap.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	ClientID string
	Send     chan []byte
}

// BroadcastMessage is a message for every socket of one client
type BroadcastMessage struct {
	ClientID string
	Message  *Message
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(m *metrics.Metrics, log *zap.Logger) *Hub {
	if m == nil {
		m = metrics.NewNop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		clients:    make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		metrics:    m,
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, conns := range h.clients {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.clients, id)
			}
			h.metrics.AnalysisClients.Set(0)
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.clients[conn.ClientID] == nil {
				h.clients[conn.ClientID] = make(map[*Connection]struct{})
			}
			h.clients[conn.ClientID][conn] = struct{}{}
			h.metrics.AnalysisClients.Inc()
			h.mu.Unlock()
			h.log.Debug("Analysis socket connected", zap.String("client", conn.ClientID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[conn.ClientID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					h.metrics.AnalysisClients.Dec()
					if len(conns) == 0 {
						delete(h.clients, conn.ClientID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug("Analysis socket disconnected", zap.String("client", conn.ClientID))

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Error("Failed to encode websocket message", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for conn := range h.clients[msg.ClientID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close stops the hub and closes every socket
func (h *Hub) Close() {
	close(h.done)
}

// Connections returns how many sockets a client has open
func (h *Hub) Connections(clientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[clientID])
}

// SendToClient queues a message for every socket of a client (implements service.Broadcaster)
func (h *Hub) SendToClient(clientID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("Failed to encode websocket payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		ClientID: clientID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}:
	case <-h.done:
	}
}

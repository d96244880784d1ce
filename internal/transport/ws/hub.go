package ws

import (
	"encoding/json"
	"sync"

	"csvinsights/internal/logging"

	"github.com/sirupsen/logrus"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSubscribed    MessageType = "subscribed"
	MsgFollowupAdded MessageType = "followup_added"
	MsgError         MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans report events out to the connections watching each report
type Hub struct {
	// reportID -> connections
	subscribers map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	log *logrus.Entry
}

// Connection is one subscriber of a report
type Connection struct {
	ReportID string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message for every subscriber of a report
type BroadcastMessage struct {
	ReportID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*Connection]struct{}),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		log:         logging.For("ws"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for reportID, conns := range h.subscribers {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.subscribers, reportID)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.subscribers[conn.ReportID] == nil {
				h.subscribers[conn.ReportID] = make(map[*Connection]struct{})
			}
			h.subscribers[conn.ReportID][conn] = struct{}{}
			h.mu.Unlock()
			h.log.WithField("reportId", conn.ReportID).Debug("subscriber connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.subscribers[conn.ReportID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.subscribers, conn.ReportID)
					}
					h.log.WithField("reportId", conn.ReportID).Debug("subscriber disconnected")
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.subscribers[msg.ReportID] {
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

// Close stops the hub and closes every subscriber's send channel. It is
// safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// Register adds a connection. After Close the connection's send channel is
// closed right away.
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

// Subscribers returns how many connections watch a report
func (h *Hub) Subscribers(reportID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[reportID])
}

// BroadcastToReport sends a message to every subscriber of a report (implements service.Broadcaster)
func (h *Hub) BroadcastToReport(reportID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	msg := &BroadcastMessage{
		ReportID: reportID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

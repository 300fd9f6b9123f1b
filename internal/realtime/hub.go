// Package realtime fans out billing events to connected dashboard clients.
// Delivery is best-effort: nothing is persisted, replayed or acknowledged.
package realtime

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event names consumed by the admin dashboard.
const (
	EventNewMeterReading = "newMeterReading"
	EventNewBill         = "newBill"
)

// Event is the transient message pushed to every live subscriber.
type Event struct {
	Event   string      `json:"event"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Publisher is the narrow side of the hub the billing service depends on.
type Publisher interface {
	Publish(ev Event)
}

// Events queued per subscriber before the hub starts dropping for that
// connection.
const subscriberBuffer = 16

// Hub manages the set of live websocket subscribers and broadcasts events to
// all of them. The subscriber set is mutated concurrently with publishes, so
// every access goes through the mutex.
type Hub struct {
	clients   map[*websocket.Conn]chan Event
	broadcast chan Event
	mu        sync.Mutex
}

// NewHub creates a hub and starts its delivery goroutine. The hub is owned by
// the process: construct it once in main and inject it everywhere.
func NewHub() *Hub {
	hub := &Hub{
		clients:   make(map[*websocket.Conn]chan Event),
		broadcast: make(chan Event, 100),
	}
	go hub.run()
	return hub
}

// run drains the broadcast channel and queues each event onto every
// subscriber's outbound channel. Queueing never blocks: a subscriber whose
// buffer is full simply misses the event.
func (h *Hub) run() {
	for ev := range h.broadcast {
		h.mu.Lock()
		for conn, send := range h.clients {
			select {
			case send <- ev:
			default:
				logrus.WithFields(logrus.Fields{
					"event":    ev.Event,
					"conn_ptr": fmt.Sprintf("%p", conn),
				}).Warn("Subscriber buffer full, dropping event for this connection.")
			}
		}
		h.mu.Unlock()
	}
}

// writeLoop is the only goroutine that ever writes to its connection;
// gorilla/websocket supports at most one concurrent writer per conn. A slow
// subscriber therefore only blocks its own loop while its buffer fills.
func (h *Hub) writeLoop(conn *websocket.Conn, send chan Event) {
	for ev := range send {
		if err := conn.WriteJSON(ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).
					Info("Subscriber closed during broadcast, unregistering.")
			} else {
				logrus.WithError(err).WithFields(logrus.Fields{
					"event":    ev.Event,
					"conn_ptr": fmt.Sprintf("%p", conn),
				}).Warn("Failed to deliver event to subscriber, unregistering.")
			}
			h.Unsubscribe(conn)
			// Unsubscribe closed the channel; discard whatever was queued.
			for range send {
			}
			return
		}
	}
}

// Subscribe registers a live connection and starts its writer.
func (h *Hub) Subscribe(conn *websocket.Conn) {
	send := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	go h.writeLoop(conn, send)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Dashboard subscriber registered.")
}

// Unsubscribe removes a connection and stops its writer. Safe to call more
// than once.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
		logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Dashboard subscriber unregistered.")
	}
}

// Publish queues an event for delivery to all current subscribers. Never
// blocks the caller; when the buffer is full the event is dropped.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		logrus.WithField("event", ev.Event).Warn("Broadcast channel full, dropping event.")
	}
}

// Close stops the delivery goroutine. Publish must not be called afterwards.
func (h *Hub) Close() {
	close(h.broadcast)
}

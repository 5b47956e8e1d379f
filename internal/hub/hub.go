// Package hub broadcasts newly added employees to connected WebSocket listeners.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

const (
	TargetReceiveEmployee = "ReceiveEmployee"
	TargetAddEmployee     = "AddEmployee"
	TargetError           = "Error"

	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingPeriod   = (pongTimeout * 9) / 10 //nolint: mnd // ping before the pong deadline
	maxFrameSize = 64 << 10
)

var ErrHubClosed = errors.New("hub is closed")

// Message is the frame exchanged with listeners in both directions.
type Message struct {
	Target    string            `json:"target"`
	Arguments []models.Employee `json:"arguments,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Creator stores an employee on behalf of a listener's AddEmployee invocation.
type Creator interface {
	AddEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
}

type listener struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (l *listener) close() {
	l.once.Do(func() { close(l.send) })
}

// Hub keeps the set of connected listeners.
type Hub struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	listeners map[string]*listener
	closed    bool
}

// Option configures the websocket upgrader of a Hub.
type Option func(u *websocket.Upgrader)

// WithCheckOrigin sets the CheckOrigin handler option.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(u *websocket.Upgrader) {
		u.CheckOrigin = fn
	}
}

// WithHandshakeTimeout sets the HandshakeTimeout option.
func WithHandshakeTimeout(t time.Duration) Option {
	return func(u *websocket.Upgrader) {
		u.HandshakeTimeout = t
	}
}

func New(log *slog.Logger, appMetrics *metrics.Metrics, opts ...Option) *Hub {
	h := &Hub{
		log:       log.With(slog.String("division", "hub")),
		metrics:   appMetrics,
		listeners: make(map[string]*listener),
	}
	for _, opt := range opts {
		opt(&h.upgrader)
	}

	return h
}

// EmployeeAdded broadcasts the employee to every listener. Listeners whose
// send buffer is full are disconnected instead of blocking the caller.
func (h *Hub) EmployeeAdded(_ context.Context, employee models.Employee) error {
	frame, err := json.Marshal(Message{Target: TargetReceiveEmployee, Arguments: []models.Employee{employee}})
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	for id, l := range h.listeners {
		select {
		case l.send <- frame:
		default:
			h.log.Warn("listener too slow, disconnecting", slog.String("conn", id))
			h.removeLocked(id)
			h.metrics.HubDropped.Inc()
		}
	}
	h.metrics.HubBroadcasts.Inc()

	return nil
}

// Listeners returns the number of connected listeners.
func (h *Hub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.listeners)
}

// Close disconnects every listener and rejects further broadcasts.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id := range h.listeners {
		h.removeLocked(id)
	}
}

// Handler upgrades requests to WebSocket listeners. AddEmployee invocations are
// routed through creator, which is expected to notify the hub on success.
func (h *Hub) Handler(creator Creator) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		conn, err := h.upgrader.Upgrade(writer, req, nil)
		if err != nil {
			h.log.WarnContext(req.Context(), "websocket upgrade failed", sl.Err(err))
			return
		}

		l := &listener{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
		if err = h.add(l); err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()), time.Now().Add(writeTimeout))
			_ = conn.Close()
			return
		}

		go h.writePump(l)
		h.readPump(context.WithoutCancel(req.Context()), l, creator)
	})
}

func (h *Hub) add(l *listener) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	h.listeners[l.id] = l
	h.metrics.HubConnections.Inc()
	h.log.Debug("listener connected", slog.String("conn", l.id))

	return nil
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(id)
}

// removeLocked must be called with mu held.
func (h *Hub) removeLocked(id string) {
	l, ok := h.listeners[id]
	if !ok {
		return
	}
	delete(h.listeners, id)
	l.close()
	h.metrics.HubConnections.Dec()
	h.log.Debug("listener disconnected", slog.String("conn", id))
}

// reply queues a frame for one listener without blocking.
func (h *Hub) reply(l *listener, msg Message) {
	frame, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.listeners[l.id]; !ok {
		return
	}
	select {
	case l.send <- frame:
	default:
	}
}

func (h *Hub) readPump(ctx context.Context, l *listener, creator Creator) {
	defer func() {
		h.remove(l.id)
		_ = l.conn.Close()
	}()

	l.conn.SetReadLimit(maxFrameSize)
	_ = l.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	l.conn.SetPongHandler(func(string) error {
		return l.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WarnContext(ctx, "listener read failed", slog.String("conn", l.id), sl.Err(err))
			}
			return
		}

		h.invoke(ctx, l, creator, data)
	}
}

func (h *Hub) invoke(ctx context.Context, l *listener, creator Creator, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.reply(l, Message{Target: TargetError, Error: "malformed message"})
		return
	}

	if msg.Target != TargetAddEmployee {
		h.reply(l, Message{Target: TargetError, Error: "unknown target " + msg.Target})
		return
	}
	if len(msg.Arguments) != 1 {
		h.reply(l, Message{Target: TargetError, Error: "AddEmployee expects exactly one employee"})
		return
	}

	if _, err := creator.AddEmployee(ctx, msg.Arguments[0]); err != nil {
		h.log.WarnContext(ctx, "AddEmployee invocation failed", slog.String("conn", l.id), sl.Err(err))
		h.reply(l, Message{Target: TargetError, Error: err.Error()})
	}
}

func (h *Hub) writePump(l *listener) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = l.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-l.send:
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = l.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := l.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := l.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is what the notification bell receives.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Connection wraps websocket.Conn. gorilla allows one concurrent writer, so
// every write goes through writeMu.
type Connection struct {
	Conn    *websocket.Conn
	UserID  string
	writeMu sync.Mutex

	seenMu   sync.Mutex
	lastSeen time.Time
}

func (c *Connection) Touch() {
	c.seenMu.Lock()
	c.lastSeen = time.Now()
	c.seenMu.Unlock()
}

func (c *Connection) LastSeen() time.Time {
	c.seenMu.Lock()
	defer c.seenMu.Unlock()
	return c.lastSeen
}

func (c *Connection) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.Conn.WriteJSON(v)
}

func (c *Connection) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second))
}

type Manager struct {
	mu          sync.RWMutex
	connections map[string]map[*Connection]struct{}
	logger      *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		connections: make(map[string]map[*Connection]struct{}),
		logger:      logger,
	}
}

// Add registers a connection for a user.
func (m *Manager) Add(userID string, conn *websocket.Conn) *Connection {
	c := &Connection{Conn: conn, UserID: userID, lastSeen: time.Now()}

	m.mu.Lock()
	if _, ok := m.connections[userID]; !ok {
		m.connections[userID] = make(map[*Connection]struct{})
	}
	m.connections[userID][c] = struct{}{}
	total := len(m.connections[userID])
	m.mu.Unlock()

	m.logger.Info("ws connected", zap.String("user_id", userID), zap.Int("total", total))
	return c
}

// Remove closes c and forgets it. Safe to call more than once.
func (m *Manager) Remove(c *Connection) {
	m.mu.Lock()
	if conns, ok := m.connections[c.UserID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(m.connections, c.UserID)
		}
	}
	m.mu.Unlock()

	_ = c.Conn.Close()
	m.logger.Debug("ws disconnected", zap.String("user_id", c.UserID))
}

func (m *Manager) snapshot(userID string) []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Connection
	if userID == "" {
		for _, conns := range m.connections {
			for c := range conns {
				out = append(out, c)
			}
		}
		return out
	}
	for c := range m.connections[userID] {
		out = append(out, c)
	}
	return out
}

// Send writes msg to every open connection of userID and returns how many
// received it.
func (m *Manager) Send(userID string, msg Message) int {
	delivered := 0
	for _, c := range m.snapshot(userID) {
		if err := c.WriteJSON(msg); err != nil {
			m.logger.Warn("ws send failed", zap.String("user_id", userID), zap.Error(err))
			m.Remove(c)
			continue
		}
		delivered++
	}
	return delivered
}

// Count returns the number of open connections for userID.
func (m *Manager) Count(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections[userID])
}

// Heartbeat pings every connection each interval and drops those that have
// not answered for two intervals. It returns when stop is closed.
func (m *Manager) Heartbeat(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, c := range m.snapshot("") {
				if time.Since(c.LastSeen()) > 2*interval {
					m.Remove(c)
					continue
				}
				if err := c.ping(); err != nil {
					m.Remove(c)
				}
			}
		}
	}
}

// CloseAll drops every connection. Used on shutdown.
func (m *Manager) CloseAll() {
	for _, c := range m.snapshot("") {
		m.Remove(c)
	}
}

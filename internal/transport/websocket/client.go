package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-ai/backend/internal/domain"
)

const writeWait = 10 * time.Second

// ConnectionManager handles active WebSocket connections thread-safely.
// A session has at most one socket; a newer one replaces the old.
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// writeMu ensures only one goroutine writes to a specific socket at a time,
	// conn.WriteJSON is not safe for concurrent use
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex // Protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers a new connection and initializes its write lock
func (cm *ConnectionManager) AddConnection(sessionID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[sessionID]; exists {
		oldConn.Close()
	}

	cm.connections[sessionID] = conn
	cm.writeMu[sessionID] = &sync.Mutex{}
}

// RemoveConnectionIfMatching avoids closing a NEW connection when cleaning up an OLD one.
func (cm *ConnectionManager) RemoveConnectionIfMatching(sessionID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if currentConn, exists := cm.connections[sessionID]; exists && currentConn == conn {
		currentConn.Close()
		delete(cm.connections, sessionID)
		delete(cm.writeMu, sessionID)
	}
}

// RemoveConnection closes whatever socket the session has.
func (cm *ConnectionManager) RemoveConnection(sessionID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, exists := cm.connections[sessionID]; exists {
		conn.Close()
		delete(cm.connections, sessionID)
		delete(cm.writeMu, sessionID)
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// SendMessage sends a JSON message to a specific session
func (cm *ConnectionManager) SendMessage(sessionID string, message any) error {
	cm.mu.RLock()
	conn, exists := cm.connections[sessionID]
	mu, muExists := cm.writeMu[sessionID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil // disconnected, ignore
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}

// DisconnectSession tells the client why and closes its socket.
// This satisfies session.Disconnector for ended and evicted sessions.
func (cm *ConnectionManager) DisconnectSession(sessionID, reason string) {
	_ = cm.SendMessage(sessionID, domain.ErrorMessage{Type: "error", Message: reason})
	cm.RemoveConnection(sessionID)
}

package session

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/bot"
	"github.com/iamasit07/connect4-ai/backend/internal/service/game"
	"github.com/iamasit07/connect4-ai/backend/pkg/uid"
)

// Manager keeps the live sessions of this process. Nothing survives a restart.
type Manager struct {
	Sessions map[string]*Session // sessionID → Session
	mu       sync.RWMutex

	rules     domain.Rules
	settings  bot.Settings
	seed      int64
	created   int64
	publisher Publisher
}

// NewManager creates the registry. A seed of 0 means every session gets a
// time-based random source; any other value makes the easy and medium bots
// reproducible.
func NewManager(rules domain.Rules, settings bot.Settings, seed int64, publisher Publisher) *Manager {
	return &Manager{
		Sessions:  make(map[string]*Session),
		rules:     rules,
		settings:  settings,
		seed:      seed,
		publisher: publisher,
	}
}

func (m *Manager) CreateSession() (*Session, error) {
	sessionID, err := uid.GenerateSessionID()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	seed := m.seed
	if seed == 0 {
		seed = time.Now().UnixNano() + m.created
	}
	engine := bot.NewEngine(m.rules, m.settings, rand.New(rand.NewSource(seed)))

	now := time.Now()
	s := &Session{
		ID:           sessionID,
		CreatedAt:    now,
		controller:   game.NewController(m.rules, engine),
		lastActivity: now,
		publisher:    m.publisher,
	}
	m.Sessions[sessionID] = s

	log.Printf("[SESSION] Created session %s", sessionID)
	return s, nil
}

func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.Sessions[sessionID]
	return s, exists
}

func (m *Manager) RemoveSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Sessions[sessionID]; !exists {
		return fmt.Errorf("remove %s: %w", sessionID, domain.ErrSessionNotFound)
	}

	log.Printf("[SESSION] Removing session %s", sessionID)
	delete(m.Sessions, sessionID)
	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Sessions)
}

// CleanupIdleSessions drops sessions with no activity for longer than maxIdle
// and returns their IDs.
func (m *Manager) CleanupIdleSessions(maxIdle time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []string
	now := time.Now()

	for sessionID, s := range m.Sessions {
		if now.Sub(s.LastActivity()) > maxIdle {
			delete(m.Sessions, sessionID)
			removed = append(removed, sessionID)
		}
	}

	if len(removed) > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d idle sessions", len(removed))
	}
	return removed
}

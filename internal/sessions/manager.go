// Package sessions keeps one conversation history per client session in
// memory. Sessions expire after a period of inactivity.
package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/2b3pro/ae-conjure/internal/history"
	"github.com/2b3pro/ae-conjure/internal/logger"
)

const (
	DefaultTTL = 2 * time.Hour

	cleanupInterval = 5 * time.Minute
)

// represents one client's chat session
type Session struct {
	ID      string
	History *history.Buffer

	mu           sync.Mutex
	lastActivity time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// manages sessions in memory
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// returns a new session manager; ttl <= 0 uses DefaultTTL
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// returns a new random session ID
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// returns the session with the given id, creating it when missing or expired
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	if id == "" {
		generated, err := GenerateSessionID()
		if err != nil {
			return nil, err
		}
		id = generated
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists || m.expired(session, now) {
		session = &Session{ID: id, History: history.New()}
		m.sessions[id] = session
	}

	session.touch(now)

	return session, nil
}

// retrieves a live session by ID
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists || m.expired(session, m.now()) {
		return nil, false
	}

	return session, true
}

// removes a session
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.sessions[id]
	delete(m.sessions, id)

	return exists
}

// returns the number of tracked sessions, including expired ones not yet swept
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// sweeps expired sessions until ctx is done
func (m *Manager) Start(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.sweep(); removed > 0 {
				logger.Debug("expired sessions removed", "count", removed)
			}
		}
	}
}

func (m *Manager) sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if m.expired(session, now) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return now.Sub(s.idleSince()) > m.ttl
}

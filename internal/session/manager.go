package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one connected client: a lease-renewed token bound to a
// player name and, once seated, a game.
type Session struct {
	ID         string
	PlayerName string
	GameID     string
	Admin      bool
	CreatedAt  time.Time
	LastSeen   time.Time
}

// Manager tracks live sessions with lease expiry.
type Manager struct {
	logger      *zap.Logger
	leasePeriod time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. Sessions not renewed within
// leasePeriod are removed by the cleanup loop.
func NewManager(leasePeriod time.Duration, logger *zap.Logger) *Manager {
	if leasePeriod <= 0 {
		leasePeriod = 5 * time.Minute
	}
	return &Manager{
		logger:      logger,
		leasePeriod: leasePeriod,
		sessions:    make(map[string]*Session),
	}
}

// Create registers a new session for a player name and returns it.
func (m *Manager) Create(playerName string, admin bool) *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		PlayerName: playerName,
		Admin:      admin,
		CreatedAt:  now,
		LastSeen:   now,
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("session created",
			zap.String("session_id", sess.ID),
			zap.String("player", playerName),
			zap.Bool("admin", admin),
		)
	}
	return sess
}

// Get returns a session by id, renewing its lease.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	sess.LastSeen = time.Now()
	copy := *sess
	return &copy, true
}

// BindGame attaches a session to a game.
func (m *Manager) BindGame(sessionID, gameID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	sess.GameID = gameID
	sess.LastSeen = time.Now()
	return true
}

// Remove drops a session.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired runs until the context is cancelled, dropping sessions
// whose lease has lapsed.
func (m *Manager) CleanupExpired(ctx context.Context) {
	ticker := time.NewTicker(m.leasePeriod / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.expireOnce(time.Now())
		}
	}
}

func (m *Manager) expireOnce(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if now.Sub(sess.LastSeen) > m.leasePeriod {
			delete(m.sessions, id)
			if m.logger != nil {
				m.logger.Info("session expired",
					zap.String("session_id", id),
					zap.String("player", sess.PlayerName),
				)
			}
		}
	}
}

// CloseAll drops every session, used during shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.sessions {
		delete(m.sessions, id)
	}
}

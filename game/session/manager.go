package session

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/gridtactics/game/generator"
	"github.com/wricardo/gridtactics/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSpec          = errors.New("invalid session spec")
)

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Create generates a board from spec and stores it under id. An empty id gets
// a fresh UUID.
func (m *Manager) Create(id string, spec service.SessionSpec) (*service.Session, error) {
	if spec.Config == nil || spec.Roster == nil {
		return nil, ErrInvalidSpec
	}
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	rng := generator.NewRand(spec.Seed)
	res, err := generator.Generate(*spec.Config, spec.Roster, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate board: %w", err)
	}

	now := time.Now()
	sess := &service.Session{
		ID:             id,
		ConfigName:     spec.ConfigName,
		Config:         spec.Config,
		Roster:         spec.Roster,
		Seed:           spec.Seed,
		Board:          res.Board,
		RNG:            rng,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key] = sess

	log.Printf("session %s created: config=%s seed=%d players=%d enemies=%d difficulty=%d",
		id, spec.ConfigName, spec.Seed, len(res.Players), len(res.Enemies), res.Difficulty)
	return sess, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// List returns all active sessions, oldest first
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	slices.SortFunc(result, func(a, b *service.Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	log.Printf("session %s deleted", id)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	sess.Lock()
	sess.LastAccessedAt = time.Now()
	sess.Unlock()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, sess := range m.sessions {
		sess.Lock()
		expired := sess.LastAccessedAt.Before(cutoff)
		sess.Unlock()
		if expired {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.Printf("cleaned up %d expired sessions", removed)
	}
	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

type sessionKey struct {
	userID, conversationID string
}

// InMemoryManager is the in-process Manager implementation: one mutex
// guards the whole map, but transitions themselves are single in-place
// struct mutations, so contention is limited to the map lookup.
type InMemoryManager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*chatmodel.SessionState
}

// NewInMemoryManager builds an InMemoryManager.
func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{sessions: make(map[sessionKey]*chatmodel.SessionState)}
}

func (m *InMemoryManager) getLocked(key sessionKey) *chatmodel.SessionState {
	s, ok := m.sessions[key]
	if !ok {
		s = &chatmodel.SessionState{
			UserID:         key.userID,
			ConversationID: key.conversationID,
			Route:          chatmodel.RouteNormal,
			LastActivity:   time.Now(),
		}
		m.sessions[key] = s
	}
	return s
}

// Get implements Manager.
func (m *InMemoryManager) Get(_ context.Context, userID, conversationID string) (*chatmodel.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getLocked(sessionKey{userID, conversationID})
	copy := *s
	return &copy, nil
}

// ApplyClassification implements Manager.
func (m *InMemoryManager) ApplyClassification(_ context.Context, userID, conversationID string, label chatmodel.ClassificationLabel, lockTurns int) (*chatmodel.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getLocked(sessionKey{userID, conversationID})
	route := RouteForLabel(label)
	s.Route = route
	s.LastActivity = time.Now()
	if locksRoute(route) && s.AgeVerified {
		s.RouteLockRemaining = lockTurns
	} else {
		s.RouteLockRemaining = 0
	}

	copy := *s
	return &copy, nil
}

// ConsumeRouteLock implements Manager. Never decrements speculatively: the
// counter moves only when a turn actually reaches this call, which happens
// only once classification has been bypassed for that turn.
func (m *InMemoryManager) ConsumeRouteLock(_ context.Context, userID, conversationID string) (*chatmodel.SessionState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey{userID, conversationID}
	s, ok := m.sessions[key]
	if !ok || s.RouteLockRemaining <= 0 {
		return nil, false, nil
	}

	before := *s
	s.RouteLockRemaining--
	s.LastActivity = time.Now()
	return &before, true, nil
}

// SetAgeVerified implements Manager.
func (m *InMemoryManager) SetAgeVerified(_ context.Context, userID, conversationID string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getLocked(sessionKey{userID, conversationID})
	s.AgeVerified = verified
	return nil
}

// Evict implements Manager.
func (m *InMemoryManager) Evict(_ context.Context, idleFor time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-idleFor)
	removed := 0
	for key, s := range m.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed, nil
}

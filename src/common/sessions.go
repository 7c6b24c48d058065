package common

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager keeps the live verification flows. Sessions are
// in-memory only; nothing about a pickup confirmation persists on this
// side of the backend.
type SessionManager struct {
	mu    sync.RWMutex
	flows map[uuid.UUID]*Flow
}

var sessions *SessionManager

func GetSessionManager() *SessionManager {
	if sessions != nil {
		return sessions
	}
	sessions = &SessionManager{flows: make(map[uuid.UUID]*Flow)}
	return sessions
}

func NewSessionManager(m *SessionManager) *SessionManager {
	sessions = m
	return sessions
}

func (m *SessionManager) Create(auth string, station string) *Flow {
	flow := NewFlow(GetCoordinator(), auth, station)
	m.mu.Lock()
	m.flows[flow.ID] = flow
	m.mu.Unlock()
	log.Printf("Created verification session [%s] for station [%s]\n", flow.ID.String(), station)
	return flow
}

func (m *SessionManager) Get(id uuid.UUID) (*Flow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	flow, ok := m.flows[id]
	return flow, ok
}

// Delete tears a session down, releasing any camera it holds.
func (m *SessionManager) Delete(id uuid.UUID) bool {
	m.mu.Lock()
	flow, ok := m.flows[id]
	if ok {
		delete(m.flows, id)
	}
	m.mu.Unlock()
	if ok {
		flow.Close()
	}
	return ok
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.flows)
}

// SweepIdle reclaims sessions idle for longer than ttl and reports how
// many were removed.
func (m *SessionManager) SweepIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	var stale []*Flow
	m.mu.Lock()
	for id, flow := range m.flows {
		if flow.IdleSince().Before(cutoff) {
			delete(m.flows, id)
			stale = append(stale, flow)
		}
	}
	m.mu.Unlock()
	for _, flow := range stale {
		flow.Close()
		log.Printf("Reclaimed idle verification session [%s]\n", flow.ID.String())
	}
	return len(stale)
}

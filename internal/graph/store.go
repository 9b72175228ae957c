package graph

import (
	"context"
	"sync"
)

// InMemoryConnectionStore is an in-memory implementation of ConnectionStore.
// Thread-safe via RWMutex. The connection relation is undirected: adding
// (a, b) makes each a neighbor of the other.
type InMemoryConnectionStore struct {
	mu          sync.RWMutex
	connections map[string]map[string]struct{} // userID -> connected userIDs
}

// NewInMemoryConnectionStore creates a new in-memory connection store.
func NewInMemoryConnectionStore() *InMemoryConnectionStore {
	return &InMemoryConnectionStore{
		connections: make(map[string]map[string]struct{}),
	}
}

// AddConnection records an undirected connection between two users.
// Self-connections are ignored.
func (s *InMemoryConnectionStore) AddConnection(a, b string) {
	if a == b {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.link(a, b)
	s.link(b, a)
}

func (s *InMemoryConnectionStore) link(from, to string) {
	if s.connections[from] == nil {
		s.connections[from] = make(map[string]struct{})
	}
	s.connections[from][to] = struct{}{}
}

// RemoveConnection removes the undirected connection between two users.
func (s *InMemoryConnectionStore) RemoveConnection(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections[a], b)
	delete(s.connections[b], a)
}

// ConnectionsOf returns the direct neighbors of each requested ID.
func (s *InMemoryConnectionStore) ConnectionsOf(_ context.Context, ids []string) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]string, len(ids))
	for _, id := range ids {
		neighbors := s.connections[id]
		if len(neighbors) == 0 {
			continue
		}
		connected := make([]string, 0, len(neighbors))
		for n := range neighbors {
			connected = append(connected, n)
		}
		result[id] = connected
	}
	return result, nil
}

package flow

import "sync"

// Store keeps one conversation state per chat. Get returns Idle for
// chats that have no stored state yet. The dispatcher is the only
// caller and serializes access per chat, so implementations only need
// to be safe for concurrent use across different keys.
type Store interface {
	Get(chatID int64) State
	Put(chatID int64, s State)
	Remove(chatID int64)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]State
}

// NewMemoryStore constructs the in-process Store implementation.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]State)}
}

func (m *memoryStore) Get(chatID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[chatID]; ok {
		return s
	}
	return Idle{}
}

func (m *memoryStore) Put(chatID int64, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := s.(Idle); ok {
		// Idle is the implicit default; keep the map from growing.
		delete(m.sessions, chatID)
		return
	}
	m.sessions[chatID] = s
}

func (m *memoryStore) Remove(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// Package langmem keeps the last detected language per user for the
// lifetime of the process. Nothing is persisted across restarts.
package langmem

import "sync"

// Memory maps user identifiers to their last detected language. Lookups
// for unknown users return the configured default without inserting an
// entry. Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	languages   map[string]string
	defaultLang string
}

// New creates a Memory that answers defaultLang for unknown users.
func New(defaultLang string) *Memory {
	return &Memory{
		languages:   make(map[string]string),
		defaultLang: defaultLang,
	}
}

// Get returns the stored language for userID, or the default when the
// user has never been seen. The read has no side effects.
func (m *Memory) Get(userID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if lang, ok := m.languages[userID]; ok {
		return lang
	}
	return m.defaultLang
}

// Set records lang as the last detected language for userID, replacing
// any previous value.
func (m *Memory) Set(userID, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.languages[userID] = lang
}

// Len reports how many users have a recorded language.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.languages)
}

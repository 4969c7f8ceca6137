package sessions

import (
	"context"
	"sync"
	"time"

	"bookshelf_tgbot/internal/model"
)

// MemorySession is the session store used when no redis is configured.
// Entries expire lazily on read.
type MemorySession struct {
	mu         sync.RWMutex
	sessions   map[int64]entry
	expiration time.Duration
}

type entry struct {
	session  model.Session
	expireAt time.Time
}

func NewMemorySession(expiration time.Duration) *MemorySession {
	return &MemorySession{
		sessions:   make(map[int64]entry),
		expiration: expiration,
	}
}

func (m *MemorySession) SetSession(_ context.Context, chatID int64, session model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[chatID] = entry{session: session, expireAt: time.Now().Add(m.expiration)}
	return nil
}

// GetSession returns the zero Session when nothing is stored for the chat.
func (m *MemorySession) GetSession(_ context.Context, chatID int64) (model.Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[chatID]
	m.mu.RUnlock()

	if !ok {
		return model.Session{}, nil
	}

	if time.Now().After(e.expireAt) {
		m.mu.Lock()
		delete(m.sessions, chatID)
		m.mu.Unlock()
		return model.Session{}, nil
	}

	return e.session, nil
}

func (m *MemorySession) ClearSession(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	return nil
}

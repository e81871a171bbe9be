package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shelfwise/shelfwise/internal/audit"
	"github.com/shelfwise/shelfwise/internal/shared"
)

type memoryUsers struct {
	mu     sync.Mutex
	users  map[string]User
	nextID int64
	err    error
	finds  int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]User)}
}

func (m *memoryUsers) FindByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (m *memoryUsers) Create(ctx context.Context, user User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return User{}, shared.ErrDuplicateIdentity
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.users[user.Username] = user
	return user, nil
}

func (m *memoryUsers) lookups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finds
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (m *memoryAudit) Record(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return audit.Entry{}, m.err
	}
	entry.ID = int64(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memoryAudit) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *memoryAudit) last() audit.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

var errAuditDown = errors.New("audit store down")

package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/users"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*users.User
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]*users.User)}
}

func (m *memStore) Get(ctx context.Context, id int64) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", httpx.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user", httpx.ErrNotFound)
}

func (m *memStore) Create(ctx context.Context, nu users.NewUser) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, nu.Email) {
			return nil, fmt.Errorf("%w: user", httpx.ErrDuplicate)
		}
	}
	m.nextID++
	u := &users.User{
		ID: m.nextID, Email: nu.Email, FullName: nu.FullName, PasswordHash: nu.PasswordHash,
		Role: nu.Role, IsSuperuser: nu.IsSuperuser, IsActive: nu.IsActive, CreatedAt: time.Now(),
	}
	m.rows[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) Update(ctx context.Context, id int64, c users.Changes) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", httpx.ErrNotFound)
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) deactivate(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].IsActive = false
}

type sentMail struct {
	to, subject, body string
}

type mailSpy struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *mailSpy) SendMail(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *mailSpy) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

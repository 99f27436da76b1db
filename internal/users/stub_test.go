package users_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
	"github.com/sportportal/portal/internal/users"
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]users.User
	gets   int
	writes int
}

func newMemRepo(seed ...users.User) *memRepo {
	repo := &memRepo{rows: make(map[int64]users.User)}
	for _, u := range seed {
		repo.rows[u.ID] = u
		if u.ID > repo.nextID {
			repo.nextID = u.ID
		}
	}
	return repo
}

func (m *memRepo) Get(ctx context.Context, id int64) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	u, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", httpx.ErrNotFound)
	}
	return &u, nil
}

func (m *memRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user", httpx.ErrNotFound)
}

func (m *memRepo) List(ctx context.Context, f users.ListFilter) ([]users.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []users.User
	for _, u := range m.rows {
		if f.OnlyID > 0 && u.ID != f.OnlyID {
			continue
		}
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Email, f.Search) && !strings.Contains(u.FullName, f.Search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if f.Skip >= len(out) {
		return nil, total, nil
	}
	out = out[f.Skip:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *memRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

func (m *memRepo) Create(ctx context.Context, nu users.NewUser) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, nu.Email) {
			return nil, fmt.Errorf("%w: user with this email already exists", httpx.ErrDuplicate)
		}
	}
	m.writes++
	m.nextID++
	u := users.User{
		ID: m.nextID, Email: nu.Email, FullName: nu.FullName, Phone: nu.Phone, SportType: nu.SportType,
		Location: nu.Location, Bio: nu.Bio, PasswordHash: nu.PasswordHash, Role: nu.Role,
		IsSuperuser: nu.IsSuperuser, IsActive: nu.IsActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.rows[u.ID] = u
	return &u, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, c users.Changes) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", httpx.ErrNotFound)
	}
	m.writes++
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.FullName != nil {
		u.FullName = *c.FullName
	}
	if c.Phone != nil {
		u.Phone = *c.Phone
	}
	if c.Bio != nil {
		u.Bio = *c.Bio
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.Role != nil {
		u.Role = *c.Role
	}
	if c.IsSuperuser != nil {
		u.IsSuperuser = *c.IsSuperuser
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	m.rows[id] = u
	return &u, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("%w: user", httpx.ErrNotFound)
	}
	m.writes++
	delete(m.rows, id)
	return nil
}

type auditSpy struct {
	mu      sync.Mutex
	entries []shared.AuditLog
}

func (a *auditSpy) Record(ctx context.Context, log shared.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, log)
	return nil
}

func (a *auditSpy) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

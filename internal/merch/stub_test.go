package merch_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/merch"
	"github.com/sportportal/portal/internal/platform/httpx"
)

var (
	admin    = authz.Principal{ID: 1, Role: authz.RoleAdmin, Active: true}
	seller   = authz.Principal{ID: 2, Role: authz.RoleAthlete, Active: true}
	rival    = authz.Principal{ID: 3, Role: authz.RoleAthlete, Active: true}
	coach    = authz.Principal{ID: 4, Role: authz.RoleTrainer, Active: true}
	observer = authz.Principal{ID: 5, Role: authz.RoleObserver, Active: true}
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*merch.Item
	gets   int
}

func newMemRepo(seed ...merch.Item) *memRepo {
	m := &memRepo{rows: make(map[int64]*merch.Item)}
	for i := range seed {
		it := seed[i]
		m.rows[it.ID] = &it
		if it.ID > m.nextID {
			m.nextID = it.ID
		}
	}
	return m
}

func item(id, owner int64, name string) merch.Item {
	return merch.Item{ID: id, Name: name, Brand: "Uzbek Sport", Price: 100000, Stock: 3, IsAvailable: true, OwnerUserID: owner}
}

func (m *memRepo) Get(ctx context.Context, id int64) (*merch.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	it, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: merch", httpx.ErrNotFound)
	}
	cp := *it
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, f merch.ListFilter) ([]merch.Item, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []merch.Item
	for _, it := range m.rows {
		if f.OwnerID > 0 && it.OwnerUserID != f.OwnerID {
			continue
		}
		if f.IsAvailable != nil && it.IsAvailable != *f.IsAvailable {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
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

func (m *memRepo) Create(ctx context.Context, ni merch.NewItem) (*merch.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	it := &merch.Item{
		ID: m.nextID, Name: ni.Name, Brand: ni.Brand, Description: ni.Description, Price: ni.Price,
		Stock: ni.Stock, ImageURL: ni.ImageURL, IsAvailable: ni.IsAvailable, OwnerUserID: ni.OwnerID,
	}
	m.rows[it.ID] = it
	cp := *it
	return &cp, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, c merch.Changes) (*merch.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: merch", httpx.ErrNotFound)
	}
	if c.Name != nil {
		it.Name = *c.Name
	}
	if c.Price != nil {
		it.Price = *c.Price
	}
	if c.Stock != nil {
		it.Stock = *c.Stock
	}
	if c.IsAvailable != nil {
		it.IsAvailable = *c.IsAvailable
	}
	cp := *it
	return &cp, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("%w: merch", httpx.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) DeleteMany(ctx context.Context, ids []int64, ownerID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted []int64
	for _, id := range ids {
		it, ok := m.rows[id]
		if !ok || (ownerID > 0 && it.OwnerUserID != ownerID) {
			continue
		}
		delete(m.rows, id)
		deleted = append(deleted, id)
	}
	return deleted, nil
}

var _ merch.Repository = (*memRepo)(nil)

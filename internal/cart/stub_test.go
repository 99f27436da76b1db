package cart_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sportportal/portal/internal/cart"
	"github.com/sportportal/portal/internal/merch"
	"github.com/sportportal/portal/internal/platform/httpx"
)

type catalogue map[int64]merch.Item

func (c catalogue) Get(ctx context.Context, id int64) (*merch.Item, error) {
	it, ok := c[id]
	if !ok {
		return nil, fmt.Errorf("%w: merch", httpx.ErrNotFound)
	}
	return &it, nil
}

type key struct{ user, merch int64 }

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[key]*cart.Item
	shop   catalogue
}

func newMemRepo(shop catalogue) *memRepo {
	return &memRepo{rows: make(map[key]*cart.Item), shop: shop}
}

func (m *memRepo) Add(ctx context.Context, userID, merchID int64) (*cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{userID, merchID}
	if it, ok := m.rows[k]; ok {
		it.Quantity++
		cp := *it
		return &cp, nil
	}
	m.nextID++
	it := &cart.Item{ID: m.nextID, UserID: userID, MerchID: merchID, Quantity: 1}
	m.rows[k] = it
	cp := *it
	return &cp, nil
}

func (m *memRepo) SetQuantity(ctx context.Context, userID, merchID int64, quantity int) (*cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.rows[key{userID, merchID}]
	if !ok {
		return nil, fmt.Errorf("%w: cart item", httpx.ErrNotFound)
	}
	it.Quantity = quantity
	cp := *it
	return &cp, nil
}

func (m *memRepo) Lines(ctx context.Context, userID int64) ([]cart.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []cart.Line
	for k, it := range m.rows {
		if k.user != userID {
			continue
		}
		product := m.shop[k.merch]
		out = append(out, cart.Line{Item: *it, Name: product.Name, Price: product.Price, Available: product.IsAvailable})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) Remove(ctx context.Context, userID, merchID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, key{userID, merchID})
	return nil
}

var _ cart.Repository = (*memRepo)(nil)

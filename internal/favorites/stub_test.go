package favorites_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sportportal/portal/internal/favorites"
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
	rows   map[key]favorites.Favorite
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[key]favorites.Favorite)}
}

func (m *memRepo) Toggle(ctx context.Context, userID, merchID int64, allow func(bool) error) (favorites.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{userID, merchID}
	_, exists := m.rows[k]
	if err := allow(!exists); err != nil {
		return "", err
	}
	if exists {
		delete(m.rows, k)
		return favorites.StatusUnliked, nil
	}
	m.nextID++
	m.rows[k] = favorites.Favorite{ID: m.nextID, UserID: userID, MerchID: merchID}
	return favorites.StatusLiked, nil
}

func (m *memRepo) List(ctx context.Context, userID int64) ([]favorites.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []favorites.Favorite
	for k, f := range m.rows {
		if k.user == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

var _ favorites.Repository = (*memRepo)(nil)

package news_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/news"
	"github.com/sportportal/portal/internal/platform/httpx"
)

var (
	admin   = authz.Principal{ID: 1, Role: authz.RoleAdmin, Active: true}
	coach   = authz.Principal{ID: 2, Role: authz.RoleTrainer, Active: true}
	athlete = authz.Principal{ID: 3, Role: authz.RoleAthlete, Active: true}
	root    = authz.Principal{ID: 9, Role: authz.RoleObserver, Superuser: true, Active: true}
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*news.Article
	gets   int
}

func newMemRepo(seed ...news.Article) *memRepo {
	m := &memRepo{rows: make(map[int64]*news.Article)}
	for i := range seed {
		a := seed[i]
		m.rows[a.ID] = &a
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
	}
	return m
}

func (m *memRepo) Get(ctx context.Context, id int64) (*news.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	a, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: news article", httpx.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, f news.ListFilter) ([]news.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []news.Article
	for _, a := range m.rows {
		if f.Category != nil && a.Category != *f.Category {
			continue
		}
		if f.AuthorID > 0 && a.AuthorID != f.AuthorID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.Title+a.Content), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *a)
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

func (m *memRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Create(ctx context.Context, na news.NewArticle) (*news.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a := &news.Article{
		ID: m.nextID, Title: na.Title, Slug: na.Slug, Content: na.Content, Snippet: na.Snippet,
		ImageURL: na.ImageURL, Category: na.Category, AuthorID: na.AuthorID, CreatedAt: time.Now(),
	}
	m.rows[a.ID] = a
	cp := *a
	return &cp, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, c news.Changes) (*news.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: news article", httpx.ErrNotFound)
	}
	if c.Title != nil {
		a.Title = *c.Title
	}
	if c.Slug != nil {
		a.Slug = *c.Slug
	}
	if c.Content != nil {
		a.Content = *c.Content
	}
	if c.Snippet != nil {
		a.Snippet = *c.Snippet
	}
	if c.ImageURL != nil {
		a.ImageURL = *c.ImageURL
	}
	if c.Category != nil {
		a.Category = *c.Category
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) IncrementViews(ctx context.Context, id int64) (*news.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: news article", httpx.ErrNotFound)
	}
	a.ViewsCount++
	cp := *a
	return &cp, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("%w: news article", httpx.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) DeleteMany(ctx context.Context, ids []int64, authorID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted []int64
	for _, id := range ids {
		a, ok := m.rows[id]
		if !ok || (authorID > 0 && a.AuthorID != authorID) {
			continue
		}
		delete(m.rows, id)
		deleted = append(deleted, id)
	}
	return deleted, nil
}

var _ news.Repository = (*memRepo)(nil)

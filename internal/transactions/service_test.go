package transactions

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[int64]Transaction
	gets int
}

func newMemRepo(rows ...Transaction) *memRepo {
	m := &memRepo{rows: map[int64]Transaction{}}
	for _, t := range rows {
		m.rows[t.ID] = t
	}
	return m
}

func (m *memRepo) Get(ctx context.Context, id int64) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	t, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: transaction", httpx.ErrNotFound)
	}
	return &t, nil
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	var out []Transaction
	for _, id := range ids {
		t := m.rows[id]
		if filter.UserID > 0 && t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m *memRepo) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.rows {
		if t.Status == StatusPending && t.CreatedAt.Before(cutoff) {
			t.Status = StatusFailed
			m.rows[id] = t
			n++
		}
	}
	return n, nil
}

var (
	athlete  = authz.Principal{ID: 1, Role: authz.RoleAthlete, Active: true}
	coach    = authz.Principal{ID: 2, Role: authz.RoleTrainer, Active: true}
	observer = authz.Principal{ID: 3, Role: authz.RoleObserver, Active: true}
	admin    = authz.Principal{ID: 4, Role: authz.RoleAdmin, Active: true}
	root     = authz.Principal{ID: 5, Role: authz.RoleObserver, Superuser: true, Active: true}
)

func fixture() *memRepo {
	return newMemRepo(
		Transaction{ID: 1, UserID: athlete.ID, Amount: 1500, Type: TypePurchase, Status: StatusCompleted},
		Transaction{ID: 2, UserID: athlete.ID, Amount: 500, Type: TypeDonation, Status: StatusPending},
		Transaction{ID: 3, UserID: coach.ID, Amount: 900, Type: TypeSubscription, Status: StatusCompleted},
	)
}

func TestListOwnerScoped(t *testing.T) {
	svc := NewService(fixture(), nil)
	ctx := context.Background()

	items, total, err := svc.List(ctx, athlete, ListFilter{UserID: coach.ID, Window: shared.Window{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "user_id is ignored for scoped roles")
	for _, it := range items {
		assert.Equal(t, athlete.ID, it.UserID)
	}

	_, total, err = svc.List(ctx, admin, ListFilter{Window: shared.Window{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	_, total, err = svc.List(ctx, root, ListFilter{Status: StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, _, err = svc.List(ctx, observer, ListFilter{})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestGetOwnership(t *testing.T) {
	repo := fixture()
	svc := NewService(repo, nil)
	ctx := context.Background()

	tx, err := svc.Get(ctx, coach, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(900), tx.Amount)
	assert.Equal(t, 1, repo.gets)

	_, err = svc.Get(ctx, coach, 1)
	require.ErrorIs(t, err, authz.ErrForbidden)
	assert.EqualError(t, err, "you can only read your own transactions")

	_, err = svc.Get(ctx, admin, 1)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, athlete, 99)
	assert.ErrorIs(t, err, authz.ErrNotFound)
}

func TestExpireStale(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemRepo(
		Transaction{ID: 1, Status: StatusPending, CreatedAt: now.Add(-48 * time.Hour)},
		Transaction{ID: 2, Status: StatusPending, CreatedAt: now.Add(-time.Hour)},
		Transaction{ID: 3, Status: StatusCompleted, CreatedAt: now.Add(-72 * time.Hour)},
	)
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return now }

	n, err := svc.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, StatusFailed, repo.rows[1].Status)
	assert.Equal(t, StatusPending, repo.rows[2].Status)
	assert.Equal(t, StatusCompleted, repo.rows[3].Status)
}

func TestHandler(t *testing.T) {
	handler := NewHandler(nil, NewService(fixture(), nil), authz.Middleware{})
	as := func(p authz.Principal, path string) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(authz.ContextWithPrincipal(req.Context(), p)))
			})
		})
		r.Route("/transactions", handler.MountRoutes)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr
	}

	rr := as(athlete, "/transactions?status=PENDING")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusBadRequest, as(athlete, "/transactions?status=refunded").Code)
	assert.Equal(t, http.StatusBadRequest, as(admin, "/transactions?transaction_type=gift").Code)
	assert.Equal(t, http.StatusForbidden, as(observer, "/transactions").Code)
	assert.Equal(t, http.StatusForbidden, as(athlete, "/transactions/3").Code)
	assert.Equal(t, http.StatusNotFound, as(admin, "/transactions/42").Code)
	assert.Contains(t, as(admin, "/transactions?user_id=2").Body.String(), `"total":1`)
}

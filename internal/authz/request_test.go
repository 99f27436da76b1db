package authz

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/platform/httpx"
)

type merchRow struct {
	ID    int64
	Owner int64
}

func (m *merchRow) OwnerID() int64 { return m.Owner }

type merchStore struct {
	rows  map[int64]*merchRow
	calls int
}

func (s *merchStore) find(ctx context.Context, id int64) (*merchRow, error) {
	s.calls++
	row, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("merch: %w", ErrNotFound)
	}
	return row, nil
}

func TestLoadScopedReadsOnceForOwner(t *testing.T) {
	store := &merchStore{rows: map[int64]*merchRow{3: {ID: 3, Owner: 7}}}
	row, err := LoadScoped(context.Background(), store.find, 3, Principal{ID: 7, Role: RoleAthlete}, ResourceMerches, ActionUpdate)
	require.NoError(t, err)
	assert.Equal(t, int64(3), row.ID)
	assert.Equal(t, 1, store.calls)
}

func TestLoadScopedForeignRecordIsForbidden(t *testing.T) {
	store := &merchStore{rows: map[int64]*merchRow{3: {ID: 3, Owner: 7}}}
	_, err := LoadScoped(context.Background(), store.find, 3, Principal{ID: 8, Role: RoleAthlete}, ResourceMerches, ActionDelete)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLoadScopedUnscopedRoleStillLoads(t *testing.T) {
	store := &merchStore{rows: map[int64]*merchRow{3: {ID: 3, Owner: 7}}}

	row, err := LoadScoped(context.Background(), store.find, 3, Principal{ID: 1, Role: RoleAdmin}, ResourceMerches, ActionUpdate)
	require.NoError(t, err)
	assert.Equal(t, int64(7), row.Owner)

	row, err = LoadScoped(context.Background(), store.find, 3, Principal{ID: 2, Superuser: true}, ResourceMerches, ActionDelete)
	require.NoError(t, err)
	assert.Equal(t, int64(3), row.ID)

	_, err = LoadScoped(context.Background(), store.find, 404, Principal{ID: 1, Role: RoleAdmin}, ResourceMerches, ActionUpdate)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadScopedTableDeniesBeforeStorage(t *testing.T) {
	store := &merchStore{rows: map[int64]*merchRow{3: {ID: 3, Owner: 7}}}
	_, err := LoadScoped(context.Background(), store.find, 3, Principal{ID: 7, Role: RoleTrainer}, ResourceMerches, ActionUpdate)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, store.calls)
}

func TestPrincipalFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := PrincipalFromRequest(req)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)

	want := Principal{ID: 4, Role: RoleObserver, Active: true}
	req = req.WithContext(ContextWithPrincipal(req.Context(), want))
	got, err := PrincipalFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
